package detection

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ojas-Arora/SoundAware/internal/datastore"
	"github.com/Ojas-Arora/SoundAware/internal/inference"
	"github.com/Ojas-Arora/SoundAware/internal/myaudio"
	"github.com/Ojas-Arora/SoundAware/internal/notification"
)

func testResult(label string, confidence float64) *inference.Result {
	return &inference.Result{Label: label, Confidence: confidence, Source: "backend"}
}

func testClip() *myaudio.Clip {
	c := myaudio.NewDataClip([]byte("payload"), "audio/wav", 0)
	c.DurationSeconds = 3
	return c
}

func TestSink_CommitBuildsDetection(t *testing.T) {
	notifier := notification.NewStore("")
	sink := NewSink(nil, notifier)

	det := sink.Commit(context.Background(), testResult("doorbell", 0.92), testClip())

	require.NotNil(t, det)
	assert.NotEmpty(t, det.ID)
	assert.Equal(t, "doorbell", det.SoundType)
	assert.InDelta(t, 0.92, det.Confidence, 1e-9)
	assert.InDelta(t, 3.0, det.DurationSeconds, 1e-9)
	assert.False(t, det.Timestamp.IsZero())

	history := sink.History()
	require.Len(t, history, 1)
	assert.Equal(t, det.ID, history[0].ID)

	// Confidence above 0.8 produces a success notification.
	notifications := notifier.List()
	require.Len(t, notifications, 1)
	assert.Equal(t, notification.TypeSuccess, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "doorbell")
}

func TestSink_LowConfidenceNotificationIsWarning(t *testing.T) {
	notifier := notification.NewStore("")
	sink := NewSink(nil, notifier)

	sink.Commit(context.Background(), testResult("Footsteps", 0.61), testClip())

	notifications := notifier.List()
	require.Len(t, notifications, 1)
	assert.Equal(t, notification.TypeWarning, notifications[0].Type)
}

func TestSink_HistoryTruncatesAt100(t *testing.T) {
	sink := NewSink(nil, nil)

	for i := 0; i < 101; i++ {
		sink.Commit(context.Background(), testResult(fmt.Sprintf("sound-%d", i), 0.7), testClip())
	}

	history := sink.History()
	require.Len(t, history, 100)
	assert.Equal(t, "sound-100", history[0].SoundType, "most recent first")
	assert.Equal(t, "sound-1", history[99].SoundType, "oldest entry dropped")
}

func TestSink_PersistsAndReloads(t *testing.T) {
	store, err := datastore.Open(filepath.Join(t.TempDir(), "soundaware.db"))
	require.NoError(t, err)
	defer store.Close()

	sink := NewSink(store, nil)
	sink.Commit(context.Background(), testResult("Doorbell", 0.9), testClip())
	sink.Commit(context.Background(), testResult("Dog Bark", 0.7), testClip())

	reloaded := NewSink(store, nil)
	history := reloaded.History()
	require.Len(t, history, 2)
	assert.Equal(t, "Dog Bark", history[0].SoundType)
}

func TestSink_ClearHistory(t *testing.T) {
	store, err := datastore.Open(filepath.Join(t.TempDir(), "soundaware.db"))
	require.NoError(t, err)
	defer store.Close()

	sink := NewSink(store, nil)
	sink.Commit(context.Background(), testResult("Doorbell", 0.9), testClip())

	sink.ClearHistory()
	assert.Empty(t, sink.History())

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

type capturingPublisher struct {
	published []*datastore.Detection
}

func (p *capturingPublisher) Publish(_ context.Context, det *datastore.Detection) error {
	p.published = append(p.published, det)
	return nil
}

func TestSink_PublishesCommittedDetections(t *testing.T) {
	sink := NewSink(nil, nil)
	pub := &capturingPublisher{}
	sink.SetPublisher(pub)

	det := sink.Commit(context.Background(), testResult("Smoke Alarm", 0.95), testClip())

	require.Len(t, pub.published, 1)
	assert.Equal(t, det.ID, pub.published[0].ID)
}

func TestSink_ExportCSV(t *testing.T) {
	sink := NewSink(nil, nil)
	sink.Commit(context.Background(), testResult("Doorbell", 0.92), testClip())
	sink.Commit(context.Background(), testResult("Cat Meow", 0.55), testClip())

	var buf bytes.Buffer
	require.NoError(t, sink.ExportCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two rows")
	assert.Equal(t, "sound_type", records[0][1])
	assert.Equal(t, "Cat Meow", records[1][1])
	assert.Equal(t, "Doorbell", records[2][1])
}
