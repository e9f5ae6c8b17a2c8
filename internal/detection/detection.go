// Package detection turns inference results into canonical detection records,
// maintains the capped history list and emits user notifications.
package detection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/datastore"
	"github.com/Ojas-Arora/SoundAware/internal/inference"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
	"github.com/Ojas-Arora/SoundAware/internal/myaudio"
	"github.com/Ojas-Arora/SoundAware/internal/notification"
)

// Publisher delivers a committed detection to an external channel, such as an
// MQTT broker.
type Publisher interface {
	Publish(ctx context.Context, det *datastore.Detection) error
}

// Sink owns the detection history. It is the only place the pipeline mutates
// state: each committed result is prepended to the in-memory list, the list
// is truncated to the cap and the durable store is updated. Persistence
// failures never propagate; the in-memory history stays authoritative.
type Sink struct {
	mu        sync.RWMutex
	history   []datastore.Detection
	store     *datastore.Store
	notifier  *notification.Store
	publisher Publisher
	logger    *slog.Logger
}

// NewSink creates a sink backed by the given stores. Both store and notifier
// may be nil, which disables persistence and notifications respectively.
// Existing persisted history is loaded so the list survives restarts.
func NewSink(store *datastore.Store, notifier *notification.Store) *Sink {
	s := &Sink{
		store:    store,
		notifier: notifier,
		logger:   logging.ForService("detection"),
	}

	if store != nil {
		history, err := store.Recent(conf.HistoryLimit)
		if err != nil {
			s.logger.Warn("failed to load detection history", "error", err)
		} else {
			s.history = history
		}
	}

	return s
}

// SetPublisher attaches an external publisher for committed detections.
func (s *Sink) SetPublisher(p Publisher) {
	s.publisher = p
}

// Commit maps an inference result into a canonical detection record, stores
// it and raises a notification. The notification severity is success above
// 0.8 confidence, warning otherwise.
func (s *Sink) Commit(ctx context.Context, result *inference.Result, clip *myaudio.Clip) *datastore.Detection {
	det := datastore.Detection{
		ID:              uuid.New().String(),
		SoundType:       result.Label,
		Confidence:      result.Confidence,
		Timestamp:       time.Now(),
		DurationSeconds: clip.DurationSeconds,
		AudioURI:        clip.Path,
		Source:          result.Source,
	}

	s.mu.Lock()
	s.history = append([]datastore.Detection{det}, s.history...)
	if len(s.history) > conf.HistoryLimit {
		s.history = s.history[:conf.HistoryLimit]
	}
	s.mu.Unlock()

	s.persist(&det)
	s.notify(&det)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, &det); err != nil {
			s.logger.Warn("failed to publish detection", "error", err)
		}
	}

	return &det
}

// History returns a copy of the in-memory history, most recent first.
func (s *Sink) History() []datastore.Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]datastore.Detection, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory removes all detections from memory and the durable store.
func (s *Sink) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.DeleteAll(); err != nil {
			s.logger.Warn("failed to clear persisted history", "error", err)
		}
	}
}

// persist writes the new detection and trims the stored history to the cap.
// Errors are logged and swallowed.
func (s *Sink) persist(det *datastore.Detection) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(det); err != nil {
		s.logger.Warn("failed to persist detection", "id", det.ID, "error", err)
		return
	}
	if err := s.store.Trim(conf.HistoryLimit); err != nil {
		s.logger.Warn("failed to trim persisted history", "error", err)
	}
}

func (s *Sink) notify(det *datastore.Detection) {
	if s.notifier == nil {
		return
	}
	notifType := notification.TypeWarning
	if det.Confidence > 0.8 {
		notifType = notification.TypeSuccess
	}
	message := fmt.Sprintf("%s (%.0f%% confidence)", det.SoundType, det.Confidence*100)
	s.notifier.Add(notification.New(notifType, "Sound Detected", message))
}
