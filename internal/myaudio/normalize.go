package myaudio

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Ojas-Arora/SoundAware/internal/logging"
)

var normalizeLogger *slog.Logger

func getNormalizeLogger() *slog.Logger {
	if normalizeLogger == nil {
		if l := logging.ForService("myaudio"); l != nil {
			normalizeLogger = l
		} else {
			normalizeLogger = slog.Default().With("service", "myaudio")
		}
	}
	return normalizeLogger
}

// Normalize converts a clip into canonical mono 16-bit PCM WAV at the target
// sample rate. Conversion is best effort: formats without an in-process
// decoder (mp3, m4a, aac) and any decode failure degrade to passing the
// original clip through unmodified, never aborting the pipeline. Callers must
// treat the output format as best effort, not guaranteed canonical.
func Normalize(clip *Clip, targetRate int) *Clip {
	ext := strings.ToLower(filepath.Ext(clip.Path))
	if ext == "" {
		ext = extensionForMime(clip.MimeType)
	}

	switch ext {
	case ".wav", ".flac":
		// decodable in process
	default:
		return clip
	}

	r, closeFn, err := clip.Open()
	if err != nil {
		getNormalizeLogger().Warn("normalize: cannot open clip, passing through", "error", err)
		return clip
	}
	defer func() { _ = closeFn() }()

	var samples []float32
	var info AudioInfo
	if ext == ".wav" {
		samples, info, err = decodeWAV(r)
	} else {
		samples, info, err = decodeFLAC(r)
	}
	if err != nil {
		getNormalizeLogger().Warn("normalize: decode failed, passing through", "error", err, "ext", ext)
		return clip
	}
	if len(samples) == 0 || info.SampleRate <= 0 {
		return clip
	}

	mono := downmixToMono(samples, info.NumChannels)

	resampled, err := ResampleAudio(mono, info.SampleRate, targetRate)
	if err != nil {
		getNormalizeLogger().Warn("normalize: resample failed, passing through", "error", err)
		return clip
	}

	wavBytes, err := EncodeWAV(resampled, targetRate)
	if err != nil {
		getNormalizeLogger().Warn("normalize: encode failed, passing through", "error", err)
		return clip
	}

	duration := float64(len(resampled)) / float64(targetRate)

	return &Clip{
		Path:            clip.Path,
		Data:            wavBytes,
		MimeType:        "audio/wav",
		DurationSeconds: duration,
	}
}

func extensionForMime(mimeType string) string {
	switch mimeType {
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/flac":
		return ".flac"
	case "audio/mpeg":
		return ".mp3"
	case "audio/mp4":
		return ".m4a"
	default:
		return ""
	}
}
