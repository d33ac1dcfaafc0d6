// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"
)

// oto allows a single context per process
var (
	otoCtx      *oto.Context
	otoOnce     sync.Once
	otoErr      error
	otoRate     int
	otoChannels int
)

func initOtoContext(sampleRate, channels int, buffer time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{}
		op.SampleRate = sampleRate
		op.ChannelCount = channels
		op.Format = oto.FormatFloat32LE
		op.BufferSize = buffer

		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(op)
		if otoErr == nil {
			<-ready
			otoRate, otoChannels = sampleRate, channels
		}
	})

	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != sampleRate || otoChannels != channels {
		return nil, fmt.Errorf("context already open at %d Hz x%d", otoRate, otoChannels)
	}
	return otoCtx, nil
}

// Oto is a Stream on the host sound card via ebitengine/oto.
type Oto struct {
	sampleRate   int
	channels     int
	bufferFrames int
	log          zerolog.Logger

	mu     sync.Mutex
	player *oto.Player
	reader *renderReader
}

// NewOto prepares a float32 stream; the device is opened on Start.
// bufferFrames sets the callback size, 1024 frames when not positive.
func NewOto(sampleRate, channels, bufferFrames int, log zerolog.Logger) *Oto {
	if bufferFrames <= 0 {
		bufferFrames = 1024
	}
	return &Oto{
		sampleRate:   sampleRate,
		channels:     channels,
		bufferFrames: bufferFrames,
		log:          log.With().Str("component", "oto").Logger(),
	}
}

func (o *Oto) SampleRate() int { return o.sampleRate }
func (o *Oto) Channels() int   { return o.channels }

func (o *Oto) Start(render RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return fmt.Errorf("%w: %w", ErrDevice, ErrAlreadyStarted)
	}

	buffer := time.Duration(o.bufferFrames) * time.Second / time.Duration(o.sampleRate)
	ctx, err := initOtoContext(o.sampleRate, o.channels, buffer)
	if err != nil {
		o.log.Error().Err(err).Msg("Failed to initialize Oto audio context")
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	o.reader = newRenderReader(render, o.channels, o.bufferFrames, o.log)
	o.player = ctx.NewPlayer(o.reader)
	o.player.SetBufferSize(o.bufferFrames * o.channels * 4)
	o.player.Play()

	o.log.Debug().
		Int("sample_rate", o.sampleRate).
		Int("channels", o.channels).
		Int("buffer_frames", o.bufferFrames).
		Msg("Started output stream")
	return nil
}

func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}

	// the reader goes silent first so an in-flight pull never reaches the mixer
	o.reader.stop()
	o.player.Pause()
	perr := o.player.Err()
	cerr := o.player.Close()
	o.player, o.reader = nil, nil

	o.log.Debug().Msg("Stopped output stream")

	if perr != nil {
		return fmt.Errorf("%w: %w", ErrDevice, perr)
	}
	if cerr != nil {
		return fmt.Errorf("%w: %w", ErrDevice, cerr)
	}
	return nil
}

// renderReader adapts a RenderFunc to the io.Reader oto pulls from.
type renderReader struct {
	render   RenderFunc
	channels int
	buf      []float32
	stopped  atomic.Bool
	panicked atomic.Bool
	log      zerolog.Logger
}

func newRenderReader(render RenderFunc, channels, frames int, log zerolog.Logger) *renderReader {
	return &renderReader{
		render:   render,
		channels: channels,
		buf:      make([]float32, frames*channels),
		log:      log,
	}
}

func (r *renderReader) stop() { r.stopped.Store(true) }

// Read hands out whole float32 frames in little-endian order.
func (r *renderReader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	n := frames * r.channels
	if cap(r.buf) < n {
		r.buf = make([]float32, n)
	}
	out := r.buf[:n]
	clear(out)

	if !r.stopped.Load() {
		r.pull(out)
	}

	for i, v := range out {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

func (r *renderReader) pull(out []float32) {
	defer func() {
		if rec := recover(); rec != nil {
			clear(out)
			if !r.panicked.Swap(true) {
				r.log.Error().Interface("panic", rec).Msg("Render callback panicked, emitting silence")
			}
		}
	}()
	r.render(out)
}
