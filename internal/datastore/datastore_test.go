package datastore

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "soundaware.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func makeDetection(soundType string, ts time.Time) *Detection {
	return &Detection{
		ID:              uuid.New().String(),
		SoundType:       soundType,
		Confidence:      0.8,
		Timestamp:       ts,
		DurationSeconds: 3,
		Source:          "backend",
	}
}

func TestStore_SaveAndRecent(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, s.Save(makeDetection("Doorbell", base)))
	require.NoError(t, s.Save(makeDetection("Dog Bark", base.Add(time.Minute))))

	detections, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, detections, 2)
	assert.Equal(t, "Dog Bark", detections[0].SoundType, "most recent first")
	assert.Equal(t, "Doorbell", detections[1].SoundType)
}

func TestStore_Trim(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 10; i++ {
		det := makeDetection(fmt.Sprintf("sound-%d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.Save(det))
	}

	require.NoError(t, s.Trim(4))

	detections, err := s.Recent(100)
	require.NoError(t, err)
	require.Len(t, detections, 4)
	assert.Equal(t, "sound-9", detections[0].SoundType)
	assert.Equal(t, "sound-6", detections[3].SoundType)
}

func TestStore_DeleteAllAndCount(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save(makeDetection("Doorbell", time.Now())))
	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.DeleteAll())
	count, err = s.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
