package capture

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/smallnest/ringbuffer"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/errors"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
	"github.com/Ojas-Arora/SoundAware/internal/myaudio"
)

// Recorder captures microphone audio in fixed-length chunks. Each completed
// chunk is encoded as an in-memory WAV clip and delivered on Chunks().
// Chunk processing downstream is fire-and-forget: no ordering guarantee is
// made between one chunk's inference result and the next chunk's capture.
type Recorder struct {
	settings *conf.Settings
	logger   *slog.Logger

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	ring   *ringbuffer.RingBuffer
	chunks chan *myaudio.Clip

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder using the configured capture device and
// chunk length.
func NewRecorder(settings *conf.Settings) *Recorder {
	sampleRate := settings.Model.SampleRate
	chunkBytes := settings.Realtime.ChunkSeconds * sampleRate * 2 // 16-bit mono

	rb := ringbuffer.New(chunkBytes * 4)
	rb.SetBlocking(true)

	return &Recorder{
		settings: settings,
		logger:   logging.ForService("capture"),
		ring:     rb,
		chunks:   make(chan *myaudio.Clip, 4),
	}
}

// Chunks returns the channel on which completed capture chunks are delivered.
// The channel is closed when the recorder stops.
func (r *Recorder) Chunks() <-chan *myaudio.Clip {
	return r.chunks
}

// Start opens the capture device and begins chunked capture. Starting an
// already-running recorder is a no-op, mirroring the idempotent permission
// grant of the source platform.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running.Load() {
		return nil
	}

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return r.classifyDeviceError(err, "init_context")
	}
	r.ctx = malgoCtx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(conf.NumChannels)
	deviceConfig.SampleRate = uint32(r.settings.Model.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: r.onAudioData,
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = malgoCtx.Uninit()
		return r.classifyDeviceError(err, "init_device")
	}
	r.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = malgoCtx.Uninit()
		return r.classifyDeviceError(err, "start_device")
	}

	captureCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running.Store(true)

	r.wg.Add(1)
	go r.chunkLoop(captureCtx)

	if r.logger != nil {
		r.logger.Info("capture started",
			"sample_rate", r.settings.Model.SampleRate,
			"chunk_seconds", r.settings.Realtime.ChunkSeconds)
	}

	return nil
}

// Stop halts capture, closes the device and the chunk channel.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running.Load() {
		return
	}
	r.running.Store(false)

	if r.device != nil {
		r.device.Uninit()
		r.device = nil
	}
	if r.ctx != nil {
		_ = r.ctx.Uninit()
		r.ctx = nil
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.ring.CloseWriter()
	r.wg.Wait()
	close(r.chunks)
}

// IsRunning reports whether capture is active.
func (r *Recorder) IsRunning() bool {
	return r.running.Load()
}

// onAudioData is invoked by malgo from the device thread with raw PCM bytes.
func (r *Recorder) onAudioData(_, input []byte, _ uint32) {
	if !r.running.Load() {
		return
	}
	if _, err := r.ring.Write(input); err != nil && r.logger != nil {
		r.logger.Warn("capture ring write failed", "error", err)
	}
}

// chunkLoop assembles fixed-length chunks from the ring buffer and emits
// them as WAV clips.
func (r *Recorder) chunkLoop(ctx context.Context) {
	defer r.wg.Done()

	sampleRate := r.settings.Model.SampleRate
	chunkSeconds := r.settings.Realtime.ChunkSeconds
	chunkBytes := chunkSeconds * sampleRate * 2
	buf := make([]byte, chunkBytes)

	for {
		if ctx.Err() != nil {
			return
		}
		if _, err := io.ReadFull(r.ring, buf); err != nil {
			// writer closed, capture stopped
			return
		}

		wavBytes, err := myaudio.EncodePCMToWAV(buf, sampleRate)
		if err != nil {
			if r.logger != nil {
				r.logger.Error("failed to encode capture chunk", "error", err)
			}
			continue
		}

		clip := myaudio.NewDataClip(wavBytes, "audio/wav", time.Duration(chunkSeconds)*time.Second)

		select {
		case r.chunks <- clip:
		case <-ctx.Done():
			return
		default:
			// consumer is behind, drop the chunk rather than block capture
			if r.logger != nil {
				r.logger.Warn("chunk consumer slow, dropping capture chunk")
			}
		}
	}
}

// classifyDeviceError maps device initialization failures onto the capture
// error taxonomy. Access failures surface as permission denial, everything
// else as a device error.
func (r *Recorder) classifyDeviceError(err error, operation string) error {
	msg := strings.ToLower(err.Error())
	sentinel := ErrDeviceError
	if strings.Contains(msg, "access denied") || strings.Contains(msg, "permission") {
		sentinel = ErrPermissionDenied
	}
	return errors.New(errors.Join(sentinel, err)).
		Component("capture").
		Category(errors.CategoryCapture).
		Context("operation", operation).
		Build()
}
