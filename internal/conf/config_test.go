package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := defaultSettings()

	assert.Equal(t, "SoundAware", s.Main.Name)
	assert.Equal(t, DefaultModelVersion, s.Model.ModelVersion)
	assert.InDelta(t, 0.7, s.Model.Sensitivity, 0.001)
	assert.InDelta(t, 0.6, s.Model.ConfidenceThreshold, 0.001)
	assert.Equal(t, 16000, s.Model.SampleRate)
	assert.Equal(t, 3, s.Model.MaxDuration)
	assert.Equal(t, int64(MaxUploadSize), s.Capture.MaxFileSize)
	assert.Equal(t, []string{".mp3", ".wav", ".m4a", ".aac", ".flac"}, s.Capture.AllowedTypes)

	require.NoError(t, ValidateSettings(s))
}

func TestValidateSettings_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"negative_sensitivity", func(s *Settings) { s.Model.Sensitivity = -0.1 }},
		{"sensitivity_above_one", func(s *Settings) { s.Model.Sensitivity = 1.5 }},
		{"threshold_above_one", func(s *Settings) { s.Model.ConfidenceThreshold = 2 }},
		{"zero_sample_rate", func(s *Settings) { s.Model.SampleRate = 0 }},
		{"zero_max_duration", func(s *Settings) { s.Model.MaxDuration = 0 }},
		{"zero_max_file_size", func(s *Settings) { s.Capture.MaxFileSize = 0 }},
		{"zero_chunk_seconds", func(s *Settings) { s.Realtime.ChunkSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultSettings()
			tt.mutate(s)
			assert.Error(t, ValidateSettings(s))
		})
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	original := defaultSettings()
	original.Model.Sensitivity = 0.85
	original.Backend.URL = "http://10.0.0.5:5000"
	original.Realtime.MQTT.Enabled = true

	require.NoError(t, SaveYAMLConfig(configPath, original))

	reloaded := LoadYAMLConfig(configPath)
	assert.Equal(t, original, reloaded)
}

func TestLoadYAMLConfig_MissingFileYieldsDefaults(t *testing.T) {
	s := LoadYAMLConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, defaultSettings(), s)
}

func TestLoadYAMLConfig_GarbageYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("model: [this is not a mapping]"), 0o644))

	s := LoadYAMLConfig(configPath)
	assert.Equal(t, defaultSettings(), s)
}
