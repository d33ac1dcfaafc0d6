// SPDX-License-Identifier: EPL-2.0

package samples

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/depthaudio/audio"
)

// Sample is decoded, memory-resident PCM ready for playback. It is immutable
// after construction and safe to read from any goroutine.
type Sample struct {
	data       []float32
	sampleRate int
	channels   int
	loop       bool
	frames     int

	monoOnce sync.Once
	mono     []float32
}

// NewSample wraps interleaved data without copying it.
func NewSample(data []float32, sampleRate, channels int, loop bool) (*Sample, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrChannels, channels)
	}
	if sampleRate <= 0 {
		return nil, audio.ErrInvalidRate
	}
	if len(data)%channels != 0 {
		return nil, audio.ErrInvalidLayout
	}

	return &Sample{
		data:       data,
		sampleRate: sampleRate,
		channels:   channels,
		loop:       loop,
		frames:     len(data) / channels,
	}, nil
}

func (s *Sample) SampleRate() int { return s.sampleRate }
func (s *Sample) Channels() int   { return s.channels }
func (s *Sample) Loop() bool      { return s.loop }
func (s *Sample) Frames() int     { return s.frames }

// Data returns the interleaved samples. Callers must not modify it.
func (s *Sample) Data() []float32 { return s.data }

func (s *Sample) Duration() time.Duration {
	return time.Duration(s.frames) * time.Second / time.Duration(s.sampleRate)
}

// ReadFrames copies len(dst)/Channels() frames beginning at frame start.
// Looping samples wrap modulo their length; others are zero-padded outside
// [0, Frames()). It returns the number of frames taken from the sample and
// never fails.
func (s *Sample) ReadFrames(dst []float32, start int) int {
	ch := s.channels
	want := len(dst) / ch
	dst = dst[:want*ch]

	if s.frames == 0 || want == 0 {
		clear(dst)
		return 0
	}

	if s.loop {
		pos := start % s.frames
		if pos < 0 {
			pos += s.frames
		}
		for written := 0; written < want; pos = 0 {
			n := min(want-written, s.frames-pos)
			copy(dst[written*ch:], s.data[pos*ch:(pos+n)*ch])
			written += n
		}
		return want
	}

	clear(dst)
	lo := max(start, 0)
	hi := min(start+want, s.frames)
	if lo >= hi {
		return 0
	}
	copy(dst[(lo-start)*ch:], s.data[lo*ch:hi*ch])
	return hi - lo
}

// Slice is ReadFrames into a new buffer of n frames.
func (s *Sample) Slice(start, n int) []float32 {
	out := make([]float32, max(n, 0)*s.channels)
	s.ReadFrames(out, start)
	return out
}

// Mono returns the sample folded to one channel. The result is computed once
// and shared.
func (s *Sample) Mono() []float32 {
	if s.channels == 1 {
		return s.data
	}

	s.monoOnce.Do(func() {
		// a memory source cannot fail mid-read
		s.mono, _ = audio.ReadAll(audio.NewMonoMixer(s.Source()), 0)
	})
	return s.mono
}

// Source streams the sample once from the beginning.
func (s *Sample) Source() audio.Source {
	return audio.NewMemorySource(s.data, s.sampleRate, s.channels)
}
