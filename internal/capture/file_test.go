package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/errors"
)

func testSettings(maxSize int64) *conf.Settings {
	s := &conf.Settings{}
	s.Capture.MaxFileSize = maxSize
	s.Capture.AllowedTypes = []string{".mp3", ".wav", ".m4a", ".aac", ".flac"}
	return s
}

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestPickFile_AcceptsAllSupportedExtensions(t *testing.T) {
	settings := testSettings(50 * 1024 * 1024)

	for _, ext := range []string{".mp3", ".wav", ".m4a", ".aac", ".flac", ".MP3", ".Wav"} {
		path := writeTempFile(t, "clip"+ext, 128)
		clip, err := PickFile(path, settings)
		require.NoError(t, err, "extension %s", ext)
		assert.Equal(t, path, clip.Path)
	}
}

func TestPickFile_RejectsUnsupportedExtensionRegardlessOfSize(t *testing.T) {
	settings := testSettings(50 * 1024 * 1024)

	for _, name := range []string{"sound.ogg", "sound.txt", "sound"} {
		path := writeTempFile(t, name, 16)
		_, err := PickFile(path, settings)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFormatUnsupported)
	}
}

func TestPickFile_RejectsOversizedFile(t *testing.T) {
	settings := testSettings(1024)
	path := writeTempFile(t, "big.wav", 1025)

	_, err := PickFile(path, settings)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestPickFile_AcceptsFileAtSizeLimit(t *testing.T) {
	settings := testSettings(1024)
	path := writeTempFile(t, "exact.wav", 1024)

	clip, err := PickFile(path, settings)
	require.NoError(t, err)
	assert.NotNil(t, clip)
}

func TestPickFile_MissingFile(t *testing.T) {
	settings := testSettings(1024)

	_, err := PickFile(filepath.Join(t.TempDir(), "ghost.wav"), settings)
	require.Error(t, err)

	var ee *errors.EnhancedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, string(errors.CategoryFileIO), ee.GetCategory())
}

func TestPickFile_FormatCheckedBeforeSize(t *testing.T) {
	// An unsupported extension must be rejected as such even when the file
	// also exceeds the size ceiling.
	settings := testSettings(10)
	path := writeTempFile(t, "huge.ogg", 100)

	_, err := PickFile(path, settings)
	assert.ErrorIs(t, err, ErrFormatUnsupported)
}
