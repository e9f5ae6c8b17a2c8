package myaudio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// seekableBuffer extends bytes.Buffer with a Seek method, making it
// compatible with io.WriteSeeker as required by the WAV encoder.
type seekableBuffer struct {
	buf []byte
	pos int
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	if b.pos+len(p) > len(b.buf) {
		extended := make([]byte, b.pos+len(p))
		copy(extended, b.buf)
		b.buf = extended
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case io.SeekStart:
		newPos = int(offset)
	case io.SeekCurrent:
		newPos = b.pos + int(offset)
	case io.SeekEnd:
		newPos = len(b.buf) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("negative seek position: %d", newPos)
	}
	b.pos = newPos
	return int64(newPos), nil
}

// EncodeWAV encodes mono float32 samples as an uncompressed 16-bit PCM WAV
// byte slice at the given sample rate.
func EncodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	out := &seekableBuffer{}
	enc := wav.NewEncoder(out, sampleRate, 16, 1, 1)

	intSamples := make([]int, len(samples))
	for i, s := range samples {
		switch {
		case s > 1:
			s = 1
		case s < -1:
			s = -1
		}
		if s < 0 {
			intSamples[i] = int(s * 32768)
		} else {
			intSamples[i] = int(s * 32767)
		}
	}

	buf := &audio.IntBuffer{
		Data:   intSamples,
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: 1},
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write to WAV encoder: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize WAV encoder: %w", err)
	}

	return bytes.Clone(out.buf), nil
}

// EncodePCMToWAV wraps raw little-endian 16-bit PCM bytes in a WAV container.
func EncodePCMToWAV(pcmData []byte, sampleRate int) ([]byte, error) {
	samples := make([]float32, 0, len(pcmData)/2)
	for i := 0; i+1 < len(pcmData); i += 2 {
		sample := int16(uint16(pcmData[i]) | uint16(pcmData[i+1])<<8)
		samples = append(samples, float32(sample)/32768.0)
	}
	return EncodeWAV(samples, sampleRate)
}
