// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/depthaudio/audio"
	"github.com/ik5/depthaudio/utils"
)

// go-mp3 always emits 16-bit little-endian stereo
const (
	channels    = 2
	frameBytes  = channels * 2
	defaultSize = 8192
)

var ErrNotMP3File = errors.New("not an MP3 stream")

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// ReadSamples fills dst with whole stereo frames. Reads are full so frame
// alignment only breaks at the end of the stream.
func (s *source) ReadSamples(dst []float32) (int, error) {
	bytesNeeded := (len(dst) / channels) * frameBytes
	if bytesNeeded == 0 {
		return 0, nil
	}
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := io.ReadFull(s.dec, s.buf)
	n -= n % frameBytes

	for i := range n / 2 {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	switch {
	case n > 0:
		return n / 2, nil
	case err == io.EOF, err == io.ErrUnexpectedEOF:
		return 0, io.EOF
	default:
		return 0, err
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, defaultSize),
	}, nil
}
