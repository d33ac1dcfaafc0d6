// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/depthaudio/utils"
)

// readFrames is how many source frames the Resampler buffers per read.
const readFrames = 1024

// Resampler streams src at another rate using Catmull-Rom interpolation
// over a four frame window. Channel count is preserved. When downsampling
// the input passes through a one-pole low-pass first.
//
// The sample manager uses it when cubic interpolation is requested; the
// default in-memory path is ResampleLinear.
type Resampler struct {
	src      Source
	rate     int
	channels int
	step     float64 // source frames per output frame

	// win holds frames t-1, t, t+1 and t+2; live marks real frames, the
	// rest repeat the edge.
	win  [4][]float32
	live [4]bool
	pos  float64 // offset between win[1] and win[2]

	buf        []float32
	head, tail int
	eof        bool
	started    bool

	smooth []float32 // low-pass state, nil when upsampling
	primed bool
}

// NewResampler wraps src. dstRate must be positive.
func NewResampler(src Source, dstRate int) *Resampler {
	ch := src.Channels()
	r := &Resampler{
		src:      src,
		rate:     dstRate,
		channels: ch,
		step:     float64(src.SampleRate()) / float64(dstRate),
		buf:      make([]float32, readFrames*ch),
	}
	for i := range r.win {
		r.win[i] = make([]float32, ch)
	}
	if r.step > 1 {
		r.smooth = make([]float32, ch)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }
func (r *Resampler) Close() error    { return r.src.Close() }

// next copies one source frame into dst. It reports false once src is
// drained.
func (r *Resampler) next(dst []float32) (bool, error) {
	for r.head >= r.tail {
		if r.eof {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.buf)
		r.head, r.tail = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("resample: %w", err)
		}
	}

	copy(dst, r.buf[r.head:r.head+r.channels])
	r.head += r.channels

	if r.smooth != nil {
		if !r.primed {
			copy(r.smooth, dst)
			r.primed = true
		}
		for c := range dst {
			dst[c] = 0.5*dst[c] + 0.5*r.smooth[c]
			r.smooth[c] = dst[c]
		}
	}
	return true, nil
}

func (r *Resampler) load(i int) error {
	ok, err := r.next(r.win[i])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.win[i], r.win[i-1])
	}
	r.live[i] = ok
	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.next(r.win[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.win[0], r.win[1])
	r.live[0], r.live[1] = true, true

	if err := r.load(2); err != nil {
		return err
	}
	return r.load(3)
}

func (r *Resampler) shift() error {
	r.win[0], r.win[1], r.win[2], r.win[3] = r.win[1], r.win[2], r.win[3], r.win[0]
	r.live[0], r.live[1], r.live[2] = r.live[1], r.live[2], r.live[3]
	return r.load(3)
}

// ReadSamples fills dst with frames at the target rate. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.started {
		r.started = true
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	n := 0
	for n < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.shift(); err != nil {
				return n * r.channels, err
			}
		}
		if !r.live[2] {
			return n * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[n*r.channels : (n+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}

		n++
		r.pos += r.step
	}
	return n * r.channels, nil
}
