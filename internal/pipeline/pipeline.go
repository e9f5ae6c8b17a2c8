// Package pipeline wires the classification stages together: capture,
// normalization, backend resolution, upload and the history sink.
package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Ojas-Arora/SoundAware/internal/capture"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/datastore"
	"github.com/Ojas-Arora/SoundAware/internal/detection"
	"github.com/Ojas-Arora/SoundAware/internal/inference"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
	"github.com/Ojas-Arora/SoundAware/internal/myaudio"
	"github.com/Ojas-Arora/SoundAware/internal/observability/metrics"
)

// Pipeline runs one clip through normalize, resolve, infer and commit.
// Candidates are tried strictly sequentially; when every candidate fails the
// local mock predictor supplies a result so the caller always receives a
// detection for a valid clip.
type Pipeline struct {
	settings *conf.Settings
	client   *inference.Client
	sink     *detection.Sink
	logger   *slog.Logger
	metrics  *metrics.InferenceMetrics
}

// New creates a pipeline from its stages.
func New(settings *conf.Settings, client *inference.Client, sink *detection.Sink) *Pipeline {
	return &Pipeline{
		settings: settings,
		client:   client,
		sink:     sink,
		logger:   logging.ForService("pipeline"),
	}
}

// SetMetrics attaches Prometheus metrics. They are shared with the inference
// client so fallbacks and attempts land in one place.
func (p *Pipeline) SetMetrics(m *metrics.InferenceMetrics) {
	p.metrics = m
	p.client.SetMetrics(m)
}

// ProcessClip classifies one clip and commits the outcome. The returned
// detection is never nil on success: an unreachable backend degrades to the
// mock predictor rather than failing.
func (p *Pipeline) ProcessClip(ctx context.Context, clip *myaudio.Clip) (*datastore.Detection, error) {
	normalized := myaudio.Normalize(clip, p.settings.Model.SampleRate)
	candidates := inference.ResolveCandidates(p.settings)

	result, err := p.client.Infer(ctx, normalized, candidates)
	if err != nil {
		return nil, err
	}

	if result == nil {
		p.logger.Info("no backend reachable, using mock predictor")
		result = inference.MockInfer(normalized, p.settings.Model.Sensitivity)
		if p.metrics != nil {
			p.metrics.RecordMockFallback()
			p.metrics.RecordAttempt("mock")
		}
	}

	det := p.sink.Commit(ctx, result, clip)
	p.logger.Info("detection committed",
		"sound_type", det.SoundType,
		"confidence", det.Confidence,
		"source", det.Source)
	return det, nil
}

// ProcessFile validates and classifies an audio file from disk.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*datastore.Detection, error) {
	clip, err := capture.PickFile(path, p.settings)
	if err != nil {
		return nil, err
	}
	return p.ProcessClip(ctx, clip)
}

// RunRealtime consumes chunks from the recorder until the context is
// cancelled or the chunk channel closes. Each chunk is classified in its own
// goroutine: results are deliberately unordered with respect to later
// captures, and the history reflects completion order.
func (p *Pipeline) RunRealtime(ctx context.Context, chunks <-chan *myaudio.Clip) {
	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case clip, ok := <-chunks:
			if !ok {
				wg.Wait()
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := p.ProcessClip(ctx, clip); err != nil {
					p.logger.Warn("chunk processing failed", "error", err)
				}
			}()
		}
	}
}
