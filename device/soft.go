// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/ik5/depthaudio/utils"
	"github.com/rs/zerolog"
)

// minPitch keeps a voice advancing when asked for a zero or negative rate.
const minPitch = 1e-3

// SoftSpatial is a software 3D device mixing mono voices into a stereo
// Stream. Azimuth drives an equal-sum pan and distance a 1/d rolloff
// clamped at one unit.
type SoftSpatial struct {
	out Stream
	log zerolog.Logger

	mu      sync.Mutex
	voices  map[uuid.UUID]*softVoice
	order   []uuid.UUID
	started bool
}

var _ Spatial = (*SoftSpatial)(nil)

func NewSoftSpatial(out Stream, log zerolog.Logger) (*SoftSpatial, error) {
	if out.Channels() != 2 {
		return nil, fmt.Errorf("%w: software spatializer needs a stereo stream, got %d channels",
			ErrDevice, out.Channels())
	}
	return &SoftSpatial{
		out:    out,
		log:    log.With().Str("component", "spatial").Logger(),
		voices: make(map[uuid.UUID]*softVoice),
	}, nil
}

func (s *SoftSpatial) SampleRate() int { return s.out.SampleRate() }

func (s *SoftSpatial) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrDevice, ErrAlreadyStarted)
	}
	s.started = true
	s.mu.Unlock()

	if err := s.out.Start(s.render); err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *SoftSpatial) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	return s.out.Stop()
}

// Voices reports how many voices are allocated and not yet closed.
func (s *SoftSpatial) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.voices)
}

func (s *SoftSpatial) NewVoice(pcm []float32, loop bool) (Voice, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%w: empty voice buffer", ErrDevice)
	}

	v := &softVoice{
		id:    uuid.New(),
		dev:   s,
		pcm:   pcm,
		loop:  loop,
		gain:  1,
		pitch: 1,
	}
	v.place(0, 0, -1)

	s.mu.Lock()
	s.voices[v.id] = v
	s.order = append(s.order, v.id)
	s.mu.Unlock()

	s.log.Trace().Str("voice", v.id.String()).Int("frames", len(pcm)).Bool("loop", loop).Msg("Allocated voice")
	return v, nil
}

func (s *SoftSpatial) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.voices, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SoftSpatial) render(out []float32) {
	clear(out)

	s.mix(out)
	utils.ClipBuffer(out)
}

func (s *SoftSpatial) mix(out []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if v := s.voices[id]; v.playing && !v.broken {
			s.mixVoice(v, out)
		}
	}
}

// mixVoice contains a failing voice: it goes silent for good and the rest
// of the callback carries on.
func (s *SoftSpatial) mixVoice(v *softVoice, out []float32) {
	defer func() {
		if r := recover(); r != nil {
			v.broken = true
			v.playing = false
			s.log.Error().Str("voice", v.id.String()).Interface("panic", r).Msg("Voice failed, silencing it")
		}
	}()

	v.mix(out)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// softVoice fields are guarded by dev.mu.
type softVoice struct {
	id  uuid.UUID
	dev *SoftSpatial
	pcm []float32

	loop    bool
	playing bool
	closed  bool
	broken  bool
	cursor  float64

	gain  float64
	pitch float64
	left  float64
	right float64
	atten float64
}

// place derives pan and rolloff from a listener-relative position.
func (v *softVoice) place(x, y, z float64) {
	pan := utils.Clamp(math.Atan2(x, -z)/(math.Pi/2), -1, 1)
	v.left = (1 - pan) / 2
	v.right = (1 + pan) / 2

	dist := math.Sqrt(x*x + y*y + z*z)
	v.atten = 1 / math.Max(1, dist)
}

// SetPosition and the other setters ignore NaN and infinite values.
func (v *softVoice) SetPosition(x, y, z float64) {
	if !finite(x, y, z) {
		return
	}
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()

	v.place(x, y, z)
}

func (v *softVoice) SetGain(gain float64) {
	if !finite(gain) {
		return
	}
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()

	v.gain = math.Max(gain, 0)
}

func (v *softVoice) SetPitch(pitch float64) {
	if !finite(pitch) {
		return
	}
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()

	v.pitch = math.Max(pitch, minPitch)
}

func (v *softVoice) Play() {
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()

	if !v.closed && !v.broken {
		v.playing = true
	}
}

// Stop halts playback and rewinds.
func (v *softVoice) Stop() {
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()

	v.playing = false
	v.cursor = 0
}

func (v *softVoice) Close() error {
	v.dev.mu.Lock()
	if v.closed {
		v.dev.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrDevice, ErrVoiceClosed)
	}
	v.closed = true
	v.playing = false
	v.dev.mu.Unlock()

	v.dev.release(v.id)
	v.dev.log.Trace().Str("voice", v.id.String()).Msg("Released voice")
	return nil
}

// mix adds the voice into stereo out at the current pitch, interpolating
// linearly between source frames.
func (v *softVoice) mix(out []float32) {
	n := len(v.pcm)
	span := float64(n)
	l := float32(v.gain * v.atten * v.left)
	r := float32(v.gain * v.atten * v.right)

	for f := 0; f+1 < len(out); f += 2 {
		if v.cursor >= span {
			if !v.loop {
				v.playing = false
				v.cursor = 0
				return
			}
			v.cursor = math.Mod(v.cursor, span)
		}

		i0 := int(v.cursor)
		i1 := i0 + 1
		if i1 >= n {
			if v.loop {
				i1 = 0
			} else {
				i1 = i0
			}
		}
		s := utils.Lerp(v.pcm[i0], v.pcm[i1], float32(v.cursor-float64(i0)))

		out[f] += s * l
		out[f+1] += s * r
		v.cursor += v.pitch
	}
}
