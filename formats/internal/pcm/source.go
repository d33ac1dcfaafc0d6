// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer decoders to audio.Source.
package pcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/depthaudio/utils"
)

var ErrBitDepth = errors.New("unsupported PCM bit depth")

// Reader is the part of a go-audio decoder a Source pulls from.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source normalizes integer PCM from a Reader to float32.
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	scale      float32
	offset     int
	intBuf     *goaudio.IntBuffer
}

// NewSource wraps dec. Unsigned marks 8-bit data that is centred on 128.
func NewSource(dec Reader, sampleRate, channels, bitDepth int, unsigned bool) (*Source, error) {
	scale := utils.PCMScale(bitDepth)
	if scale == 0 {
		return nil, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}

	s := &Source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		scale:      scale,
	}
	if unsigned && bitDepth == 8 {
		s.offset = 128
	}
	return s, nil
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }
func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, err
		}
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]-s.offset) / s.scale
	}

	if err == io.EOF {
		err = nil
	}
	return n, err
}
