// Package assistant implements the rule-based FAQ helper. Rules are an
// ordered list of regular expressions evaluated in declaration order against
// the user's question; the first match wins and a typed fallback answers
// everything else.
package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/inference"
)

// Topic identifies which rule produced a reply.
type Topic string

const (
	TopicHowItWorks      Topic = "how-it-works"
	TopicDetectableSound Topic = "detectable-sounds"
	TopicAccuracy        Topic = "accuracy"
	TopicPrivacy         Topic = "privacy"
	TopicUpload          Topic = "upload"
	TopicRealtime        Topic = "realtime"
	TopicHelp            Topic = "help"
	TopicBattery         Topic = "battery"
	TopicImproveAccuracy Topic = "improve-accuracy"
	TopicExport          Topic = "export"
	TopicFallback        Topic = "fallback"
)

// Reply is one assistant answer.
type Reply struct {
	Topic       Topic    `json:"topic"`
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Stats supplies live numbers the assistant weaves into its answers.
type Stats struct {
	TotalDetections int
	UnreadCount     int
}

type rule struct {
	topic   Topic
	pattern *regexp.Regexp
	render  func(a *Assistant) *Reply
}

// Assistant answers frequently asked questions about the application using
// the current settings and history statistics.
type Assistant struct {
	settings *conf.Settings
	stats    func() Stats
	rules    []rule
}

// New creates an assistant bound to live settings. The stats callback may be
// nil, in which case zero values are reported.
func New(settings *conf.Settings, stats func() Stats) *Assistant {
	a := &Assistant{settings: settings, stats: stats}
	a.rules = buildRules()
	return a
}

// Ask evaluates the rules in order against the question and returns the
// first matching reply, or the fallback reply when nothing matches.
func (a *Assistant) Ask(question string) *Reply {
	q := strings.ToLower(strings.TrimSpace(question))
	for i := range a.rules {
		if a.rules[i].pattern.MatchString(q) {
			return a.rules[i].render(a)
		}
	}
	return a.fallback()
}

func (a *Assistant) currentStats() Stats {
	if a.stats == nil {
		return Stats{}
	}
	return a.stats()
}

func buildRules() []rule {
	return []rule{
		{
			topic:   TopicHowItWorks,
			pattern: regexp.MustCompile(`how.*work|working|function`),
			render: func(a *Assistant) *Reply {
				return &Reply{
					Topic: TopicHowItWorks,
					Text: fmt.Sprintf(
						"SoundAware analyzes short audio clips with a machine learning model. "+
							"Audio is captured in %d second chunks, resampled to %d Hz mono WAV and "+
							"sent to the classification backend; when no backend is reachable a local "+
							"fallback still produces a result. Model version: %s.",
						a.settings.Model.MaxDuration,
						a.settings.Model.SampleRate,
						a.settings.Model.ModelVersion),
					Suggestions: []string{"What sounds can you detect?", "How accurate is detection?"},
				}
			},
		},
		{
			topic:   TopicDetectableSound,
			pattern: regexp.MustCompile(`sound.*detect|what.*sound|which.*sound|detect.*sound`),
			render: func(a *Assistant) *Reply {
				categories := inference.SoundCategories()
				var parts []string
				for _, cat := range []string{"kitchen", "security", "appliances", "pets", "emergency", "communication", "ambient"} {
					parts = append(parts, fmt.Sprintf("%s (%d)", cat, len(categories[cat])))
				}
				return &Reply{
					Topic: TopicDetectableSound,
					Text: fmt.Sprintf(
						"SoundAware recognizes %d household sounds across these categories: %s.",
						len(inference.KnownSounds()), strings.Join(parts, ", ")),
					Suggestions: []string{"How do I improve accuracy?", "How does it work?"},
				}
			},
		},
		{
			topic:   TopicImproveAccuracy,
			pattern: regexp.MustCompile(`improve.*accuracy|better.*detection|enhance`),
			render: func(a *Assistant) *Reply {
				return &Reply{
					Topic: TopicImproveAccuracy,
					Text: fmt.Sprintf(
						"Place the device away from noise sources, keep sensitivity between 0.6 and 0.8 "+
							"(currently %.1f), and raise the confidence threshold to filter weak matches. "+
							"Uploading clear sample recordings also helps verify the backend is reachable.",
						a.settings.Model.Sensitivity),
					Suggestions: []string{"How accurate is detection?"},
				}
			},
		},
		{
			topic:   TopicAccuracy,
			pattern: regexp.MustCompile(`accura|precision|reliable`),
			render: func(a *Assistant) *Reply {
				return &Reply{
					Topic: TopicAccuracy,
					Text: fmt.Sprintf(
						"Detection quality depends on microphone placement, background noise and the "+
							"sensitivity setting (currently %.1f). Results below the %.0f%% confidence "+
							"threshold are flagged as low confidence. You have %d detections recorded so far.",
						a.settings.Model.Sensitivity,
						a.settings.Model.ConfidenceThreshold*100,
						a.currentStats().TotalDetections),
					Suggestions: []string{"How do I improve accuracy?"},
				}
			},
		},
		{
			topic:   TopicPrivacy,
			pattern: regexp.MustCompile(`privacy|security|safe|data`),
			render: func(a *Assistant) *Reply {
				return &Reply{
					Topic: TopicPrivacy,
					Text: "Audio is only uploaded to the backend you configure, typically on your own " +
						"network. Detection history and notifications are stored locally and can be " +
						"cleared or exported at any time. Nothing is shared with third parties.",
					Suggestions: []string{"How do I export my data?"},
				}
			},
		},
		{
			topic:   TopicUpload,
			pattern: regexp.MustCompile(`upload.*file|file.*upload|import.*audio|analyze.*file`),
			render: func(a *Assistant) *Reply {
				return &Reply{
					Topic: TopicUpload,
					Text: fmt.Sprintf(
						"Yes, you can analyze existing recordings. Supported formats: %s, up to %d MB "+
							"per file. Files are normalized to %d Hz mono WAV before analysis where possible.",
						strings.Join(a.settings.Capture.AllowedTypes, " "),
						a.settings.Capture.MaxFileSize/(1024*1024),
						a.settings.Model.SampleRate),
					Suggestions: []string{"What sounds can you detect?"},
				}
			},
		},
		{
			topic:   TopicRealtime,
			pattern: regexp.MustCompile(`real.*time|live|instant|continuous`),
			render: func(a *Assistant) *Reply {
				return &Reply{
					Topic: TopicRealtime,
					Text: fmt.Sprintf(
						"Realtime mode records continuously and classifies each %d second chunk as it "+
							"completes. Chunk results arrive independently, so a slow classification never "+
							"blocks the next capture.",
						a.settings.Realtime.ChunkSeconds),
					Suggestions: []string{"How does it work?", "Does it drain the battery?"},
				}
			},
		},
		{
			topic:   TopicHelp,
			pattern: regexp.MustCompile(`help|support|how.*use|tutorial|guide`),
			render: func(a *Assistant) *Reply {
				stats := a.currentStats()
				return &Reply{
					Topic: TopicHelp,
					Text: fmt.Sprintf(
						"Quick guide: analyze a single file, run continuous capture, or browse your "+
							"detection history and notifications (%d unread). Settings control sensitivity, "+
							"confidence threshold and the backend address.",
						stats.UnreadCount),
					Suggestions: []string{"How does it work?", "What sounds can you detect?"},
				}
			},
		},
		{
			topic:   TopicBattery,
			pattern: regexp.MustCompile(`battery|power|consumption`),
			render: func(a *Assistant) *Reply {
				return &Reply{
					Topic: TopicBattery,
					Text: "Audio is processed in short chunks and uploads are small WAV clips, so " +
						"continuous monitoring stays lightweight. Lowering the chunk length or pausing " +
						"realtime capture reduces usage further.",
				}
			},
		},
		{
			topic:   TopicExport,
			pattern: regexp.MustCompile(`export|csv|download|backup`),
			render: func(a *Assistant) *Reply {
				return &Reply{
					Topic: TopicExport,
					Text: fmt.Sprintf(
						"Detection history (%d entries) can be exported as CSV with date, sound type, "+
							"confidence and duration columns, from the history view or the export endpoint.",
						a.currentStats().TotalDetections),
					Suggestions: []string{"Is my data private?"},
				}
			},
		},
	}
}

func (a *Assistant) fallback() *Reply {
	return &Reply{
		Topic: TopicFallback,
		Text: "I can answer questions about how SoundAware works, which sounds it detects, " +
			"accuracy, privacy, file uploads, realtime monitoring and data export. " +
			"Try asking about one of those.",
		Suggestions: []string{
			"How does it work?",
			"What sounds can you detect?",
			"How do I export my data?",
		},
	}
}
