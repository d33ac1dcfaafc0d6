// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"sync"
)

// Offline is a Stream clocked by the caller. Each Pull runs the render
// function once, which makes it suitable for rendering to files and tests.
type Offline struct {
	sampleRate int
	channels   int

	mu     sync.Mutex
	render RenderFunc
	buf    []float32
}

func NewOffline(sampleRate, channels int) *Offline {
	return &Offline{sampleRate: sampleRate, channels: channels}
}

func (o *Offline) SampleRate() int { return o.sampleRate }
func (o *Offline) Channels() int   { return o.channels }

func (o *Offline) Start(render RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.render != nil {
		return fmt.Errorf("%w: %w", ErrDevice, ErrAlreadyStarted)
	}
	o.render = render
	return nil
}

func (o *Offline) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.render = nil
	return nil
}

// Pull renders frames frames. The returned slice is reused by the next Pull.
// A stopped stream yields silence.
func (o *Offline) Pull(frames int) []float32 {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := max(frames, 0) * o.channels
	if cap(o.buf) < n {
		o.buf = make([]float32, n)
	}
	o.buf = o.buf[:n]
	clear(o.buf)

	if o.render != nil {
		o.render(o.buf)
	}
	return o.buf
}
