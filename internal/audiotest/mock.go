// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// Wave returns the value of one channel at one frame.
type Wave func(frame, channel int) float32

// Signal is a finite generated source satisfying audio.Source.
type Signal struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Wave
}

// NewSignal yields frames frames of wave.
func NewSignal(rate, channels, frames int, wave Wave) *Signal {
	return &Signal{rate: rate, channels: channels, frames: frames, wave: wave}
}

func Silence(rate, channels, frames int) *Signal {
	return Constant(rate, channels, frames, 0)
}

func Constant(rate, channels, frames int, v float32) *Signal {
	return NewSignal(rate, channels, frames, func(int, int) float32 { return v })
}

// Sine is a full scale sine of freq Hz on every channel.
func Sine(rate, channels, frames int, freq float64) *Signal {
	step := 2 * math.Pi * freq / float64(rate)
	return NewSignal(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(step * float64(frame)))
	})
}

func (s *Signal) SampleRate() int { return s.rate }
func (s *Signal) Channels() int   { return s.channels }
func (s *Signal) BufSize() int    { return 4096 }
func (s *Signal) Close() error    { return nil }

// Rewind starts the signal over.
func (s *Signal) Rewind() { s.pos = 0 }

// ReadSamples fills whole frames and reports io.EOF with the last of them.
func (s *Signal) ReadSamples(dst []float32) (int, error) {
	n := min(len(dst)/s.channels, s.frames-s.pos)
	if n <= 0 {
		return 0, io.EOF
	}

	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.wave(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}
