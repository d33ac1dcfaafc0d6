// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// MemorySource serves interleaved samples that are already resident in memory.
type MemorySource struct {
	data       []float32
	sampleRate int
	channels   int
	pos        int
}

// NewMemorySource wraps data without copying it.
func NewMemorySource(data []float32, sampleRate, channels int) *MemorySource {
	return &MemorySource{
		data:       data,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

func (m *MemorySource) SampleRate() int { return m.sampleRate }
func (m *MemorySource) Channels() int   { return m.channels }
func (m *MemorySource) BufSize() int    { return 4096 }
func (m *MemorySource) Close() error    { return nil }

func (m *MemorySource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}

	// Only whole frames are handed out
	want := len(dst) - len(dst)%m.channels
	n := copy(dst[:want], m.data[m.pos:])
	m.pos += n

	if m.pos >= len(m.data) {
		return n, io.EOF
	}
	return n, nil
}

// ReadAll drains src into a single interleaved buffer.
// bufSize is the chunk size used for each read; src.BufSize() is used when it is not positive.
func ReadAll(src Source, bufSize int) ([]float32, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidLayout
	}
	if bufSize <= 0 {
		bufSize = src.BufSize()
	}
	if bufSize < channels {
		bufSize = channels
	}
	bufSize -= bufSize % channels

	buf := make([]float32, bufSize)
	var out []float32

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			// A source that neither returns data nor EOF is treated as finished.
			break
		}
	}

	// Drop a trailing partial frame
	out = out[:len(out)-len(out)%channels]
	return out, nil
}
