// Package myaudio provides audio clip handling: decoding, downmixing,
// resampling and WAV encoding for the classification pipeline.
package myaudio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Clip is an opaque handle to one piece of captured or uploaded audio.
// It flows linearly through a single pipeline invocation: produced by
// capture, optionally rewritten by Normalize, consumed by the upload
// client, and finally referenced from the resulting detection.
type Clip struct {
	Path            string  // source file path, empty for in-memory clips
	Data            []byte  // encoded audio bytes, nil when Path is set
	MimeType        string  // best-effort content type
	DurationSeconds float64 // total duration, 0 when unknown
}

// NewFileClip creates a clip backed by a file on disk.
func NewFileClip(path string) *Clip {
	return &Clip{
		Path:     path,
		MimeType: MimeForExtension(filepath.Ext(path)),
	}
}

// NewDataClip creates an in-memory clip.
func NewDataClip(data []byte, mimeType string, duration time.Duration) *Clip {
	return &Clip{
		Data:            data,
		MimeType:        mimeType,
		DurationSeconds: duration.Seconds(),
	}
}

// Open returns a seekable reader over the clip's bytes. The caller must
// invoke the returned close function when done.
func (c *Clip) Open() (io.ReadSeeker, func() error, error) {
	if c.Data != nil {
		return bytes.NewReader(c.Data), func() error { return nil }, nil
	}
	if c.Path == "" {
		return nil, nil, fmt.Errorf("clip has neither data nor path")
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open clip: %w", err)
	}
	return f, f.Close, nil
}

// Size returns the clip's byte length, or -1 when it cannot be determined.
func (c *Clip) Size() int64 {
	if c.Data != nil {
		return int64(len(c.Data))
	}
	if c.Path != "" {
		if fi, err := os.Stat(c.Path); err == nil {
			return fi.Size()
		}
	}
	return -1
}

// Filename derives an upload filename for the clip. The extension is always
// forced to .wav for backend clarity, even when the underlying bytes were
// not converted.
func (c *Clip) Filename() string {
	base := filepath.Base(c.Path)
	if base == "." || base == "/" || base == "" {
		base = fmt.Sprintf("recording_%d.wav", time.Now().UnixMilli())
	}
	ext := filepath.Ext(base)
	if ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".wav"
}

// ContentType returns the clip's content type, falling back to a guess from
// the source file extension.
func (c *Clip) ContentType() string {
	if c.MimeType != "" {
		return c.MimeType
	}
	return MimeForExtension(filepath.Ext(c.Path))
}

// MimeForExtension maps a file extension to a best-guess audio content type.
func MimeForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav":
		return "audio/wav"
	case "mp3":
		return "audio/mpeg"
	case "m4a", "aac":
		return "audio/mp4"
	case "flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
