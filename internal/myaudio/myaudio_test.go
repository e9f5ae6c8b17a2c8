package myaudio

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sine produces a test tone at the given rate and duration.
func sine(freq float64, rate int, seconds float64) []float32 {
	n := int(float64(rate) * seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestResampleAudio_SameRatePassthrough(t *testing.T) {
	in := sine(440, 16000, 0.5)
	out, err := ResampleAudio(in, 16000, 16000)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResampleAudio_OutputLength(t *testing.T) {
	tests := []struct {
		name     string
		inLen    int
		fromRate int
		toRate   int
	}{
		{"44k1_to_16k", 44100, 44100, 16000},
		{"48k_to_16k", 48000 * 3, 48000, 16000},
		{"8k_to_16k_upsample", 8000, 8000, 16000},
		{"odd_length", 44101, 44100, 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sine(440, tt.fromRate, float64(tt.inLen)/float64(tt.fromRate))
			in = in[:tt.inLen]
			out, err := ResampleAudio(in, tt.fromRate, tt.toRate)
			require.NoError(t, err)

			// Exactly ceil(duration * targetRate) frames: resampling must
			// neither truncate nor loop the signal.
			want := int(math.Ceil(float64(tt.inLen) * float64(tt.toRate) / float64(tt.fromRate)))
			assert.Equal(t, want, len(out))
		})
	}
}

func TestResampleAudio_VeryShortInput(t *testing.T) {
	out, err := ResampleAudio([]float32{0.1, 0.2}, 44100, 16000)
	require.NoError(t, err)
	assert.Equal(t, 1, len(out))
}

func TestDownmixToMono(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := downmixToMono(stereo, 2)
	require.Len(t, mono, 3)
	assert.InDelta(t, 0.5, mono[0], 0.001)
	assert.InDelta(t, 0.5, mono[1], 0.001)
	assert.InDelta(t, 0.0, mono[2], 0.001)
}

func TestEncodeWAV_RoundTrip(t *testing.T) {
	in := sine(440, 16000, 0.25)

	data, err := EncodeWAV(in, 16000)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, []byte("RIFF"), data[:4])

	samples, info, err := decodeWAV(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 16000, info.SampleRate)
	assert.Equal(t, 1, info.NumChannels)
	assert.Equal(t, 16, info.BitDepth)
	require.Len(t, samples, len(in))

	// 16-bit quantization error bound
	for i := range in {
		assert.InDelta(t, in[i], samples[i], 0.001)
	}
}

func TestNormalize_ResamplesWAV(t *testing.T) {
	src := sine(440, 44100, 1.0)
	wavBytes, err := EncodeWAV(src, 44100)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	require.NoError(t, os.WriteFile(path, wavBytes, 0o644))

	clip := NewFileClip(path)
	out := Normalize(clip, 16000)

	require.NotNil(t, out)
	assert.Equal(t, "audio/wav", out.MimeType)
	require.NotEmpty(t, out.Data)
	assert.InDelta(t, 1.0, out.DurationSeconds, 0.01)

	samples, info, err := decodeWAV(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 16000, info.SampleRate)
	assert.Equal(t, int(math.Ceil(44100*16000.0/44100.0)), len(samples))
}

func TestNormalize_PassthroughForUndecodableFormat(t *testing.T) {
	clip := &Clip{Path: "/tmp/ringtone.mp3", MimeType: "audio/mpeg"}
	out := Normalize(clip, 16000)
	assert.Same(t, clip, out)
}

func TestNormalize_PassthroughOnCorruptInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a wav"), 0o644))

	clip := NewFileClip(path)
	out := Normalize(clip, 16000)
	assert.Same(t, clip, out)
}

func TestClipFilename_ForcesWavExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/recording.m4a", "recording.wav"},
		{"/data/clip.WAV", "clip.wav"},
		{"/data/noext", "noext.wav"},
	}
	for _, tt := range tests {
		c := &Clip{Path: tt.path}
		assert.Equal(t, tt.want, c.Filename())
	}
}

func TestMimeForExtension(t *testing.T) {
	assert.Equal(t, "audio/wav", MimeForExtension(".wav"))
	assert.Equal(t, "audio/mpeg", MimeForExtension("mp3"))
	assert.Equal(t, "audio/mp4", MimeForExtension(".m4a"))
	assert.Equal(t, "audio/mp4", MimeForExtension(".aac"))
	assert.Equal(t, "audio/flac", MimeForExtension(".FLAC"))
	assert.Equal(t, "application/octet-stream", MimeForExtension(".ogg"))
}
