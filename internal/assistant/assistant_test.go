package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
)

func testAssistant() *Assistant {
	settings := &conf.Settings{}
	settings.Model.ModelVersion = "v2.1.0"
	settings.Model.Sensitivity = 0.7
	settings.Model.ConfidenceThreshold = 0.6
	settings.Model.SampleRate = 16000
	settings.Model.MaxDuration = 3
	settings.Capture.MaxFileSize = 50 * 1024 * 1024
	settings.Capture.AllowedTypes = []string{".mp3", ".wav", ".m4a", ".aac", ".flac"}
	settings.Realtime.ChunkSeconds = 3

	return New(settings, func() Stats {
		return Stats{TotalDetections: 42, UnreadCount: 3}
	})
}

func TestAsk_TopicRouting(t *testing.T) {
	a := testAssistant()

	tests := []struct {
		question string
		topic    Topic
	}{
		{"How does this app work?", TopicHowItWorks},
		{"what sounds can you detect", TopicDetectableSound},
		{"How accurate is it?", TopicAccuracy},
		{"is my data safe", TopicPrivacy},
		{"can I upload a file?", TopicUpload},
		{"does real time mode exist", TopicRealtime},
		{"I need help", TopicHelp},
		{"does it drain battery", TopicBattery},
		{"how do I improve accuracy", TopicImproveAccuracy},
		{"export to csv", TopicExport},
		{"tell me a joke", TopicFallback},
		{"", TopicFallback},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			reply := a.Ask(tt.question)
			require.NotNil(t, reply)
			assert.Equal(t, tt.topic, reply.Topic)
			assert.NotEmpty(t, reply.Text)
		})
	}
}

func TestAsk_FirstMatchWins(t *testing.T) {
	a := testAssistant()

	// Matches both the how-it-works and realtime rules; the earlier rule
	// in declaration order answers.
	reply := a.Ask("how does live detection work")
	assert.Equal(t, TopicHowItWorks, reply.Topic)
}

func TestAsk_AnswersUseLiveSettings(t *testing.T) {
	a := testAssistant()

	reply := a.Ask("how accurate is detection")
	assert.Contains(t, reply.Text, "0.7")
	assert.Contains(t, reply.Text, "42 detections")

	reply = a.Ask("can I upload a file")
	assert.Contains(t, reply.Text, "50 MB")
	assert.Contains(t, reply.Text, ".flac")
}

func TestAsk_NilStatsCallback(t *testing.T) {
	settings := &conf.Settings{}
	a := New(settings, nil)

	reply := a.Ask("export my history")
	require.NotNil(t, reply)
	assert.Equal(t, TopicExport, reply.Topic)
	assert.Contains(t, reply.Text, "0 entries")
}
