package myaudio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/flac"
)

// AudioInfo holds the source format of a decoded clip.
type AudioInfo struct {
	SampleRate  int
	NumChannels int
	BitDepth    int
}

// getAudioDivisor returns the divisor used to convert integer PCM samples
// into float32 values in [-1, 1].
func getAudioDivisor(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("unsupported audio bit depth: %d", bitDepth)
	}
}

// decodeWAV reads an entire WAV stream into interleaved float32 samples.
func decodeWAV(r io.ReadSeeker) ([]float32, AudioInfo, error) {
	decoder := wav.NewDecoder(r)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, AudioInfo{}, errors.New("input is not a valid WAV audio file")
	}

	info := AudioInfo{
		SampleRate:  int(decoder.SampleRate),
		NumChannels: int(decoder.NumChans),
		BitDepth:    int(decoder.BitDepth),
	}

	divisor, err := getAudioDivisor(info.BitDepth)
	if err != nil {
		return nil, AudioInfo{}, err
	}

	var samples []float32
	buf := &audio.IntBuffer{
		Data:   make([]int, 8192),
		Format: &audio.Format{SampleRate: info.SampleRate, NumChannels: info.NumChannels},
	}

	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, AudioInfo{}, err
		}
		if n == 0 {
			break
		}
		for _, sample := range buf.Data[:n] {
			samples = append(samples, float32(sample)/divisor)
		}
	}

	return samples, info, nil
}

// decodeFLAC reads an entire FLAC stream into interleaved float32 samples.
func decodeFLAC(r io.Reader) ([]float32, AudioInfo, error) {
	decoder, err := flac.NewDecoder(r)
	if err != nil {
		return nil, AudioInfo{}, err
	}

	info := AudioInfo{
		SampleRate:  decoder.SampleRate,
		NumChannels: decoder.NChannels,
		BitDepth:    decoder.BitsPerSample,
	}

	divisor, err := getAudioDivisor(info.BitDepth)
	if err != nil {
		return nil, AudioInfo{}, err
	}

	bytesPerSample := info.BitDepth / 8

	var samples []float32
	for {
		frame, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, AudioInfo{}, err
		}

		for i := 0; i+bytesPerSample <= len(frame); i += bytesPerSample {
			var sample int32
			switch info.BitDepth {
			case 16:
				sample = int32(int16(binary.LittleEndian.Uint16(frame[i:])))
			case 24:
				sample = int32(frame[i]) | int32(frame[i+1])<<8 | int32(frame[i+2])<<16
				// sign extend
				if sample&0x800000 != 0 {
					sample |= ^int32(0xFFFFFF)
				}
			case 32:
				sample = int32(binary.LittleEndian.Uint32(frame[i:]))
			}
			samples = append(samples, float32(sample)/divisor)
		}
	}

	return samples, info, nil
}
