// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"math"
	"sync"

	"github.com/ik5/depthaudio/device"
	"github.com/ik5/depthaudio/mapper"
	"github.com/ik5/depthaudio/utils"
	"github.com/rs/zerolog"
)

type toneVoice struct {
	step        float64 // phase increment in radians per frame
	phase       float64
	left, right float64
	broken      bool
}

// ToneMixer renders one sine oscillator per source into a stereo stream.
// A continuing voice keeps its phase when its pitch or pan changes.
type ToneMixer struct {
	out  device.Stream
	log  zerolog.Logger
	opts options
	rate float64

	mu   sync.Mutex
	pool pool[*toneVoice]
}

func NewToneMixer(out device.Stream, log zerolog.Logger, opts ...Option) (*ToneMixer, error) {
	if out.Channels() != 2 {
		return nil, fmt.Errorf("%w: tone mixer renders stereo, stream has %d channels", ErrLayout, out.Channels())
	}
	if out.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrLayout, out.SampleRate())
	}

	return &ToneMixer{
		out:  out,
		log:  log.With().Str("component", "tone_mixer").Logger(),
		opts: buildOptions(DefaultMaxVoices, opts),
		rate: float64(out.SampleRate()),
		pool: newPool[*toneVoice](),
	}, nil
}

func (m *ToneMixer) Start() error {
	m.mu.Lock()
	m.pool.reopen()
	m.mu.Unlock()

	if err := m.out.Start(m.Render); err != nil {
		m.log.Error().Err(err).Msg("Failed to start output")
		return deviceErr("start tone mixer", err)
	}
	m.log.Debug().Int("max_voices", m.opts.maxVoices).Msg("Tone mixer started")
	return nil
}

func (m *ToneMixer) Stop() error {
	err := m.out.Stop()

	m.mu.Lock()
	m.pool.close()
	m.mu.Unlock()

	if err != nil {
		m.log.Error().Err(err).Msg("Failed to stop output")
		return deviceErr("stop tone mixer", err)
	}
	m.log.Debug().Msg("Tone mixer stopped")
	return nil
}

func (m *ToneMixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pool.len()
}

func (m *ToneMixer) Update(srcs []mapper.Source) {
	in := pick(srcs, m.opts.maxVoices,
		func(s mapper.Source) string { return toneKey(s.Frequency, s.Azimuth) },
		toneAmplitude,
	)

	m.mu.Lock()
	defer m.mu.Unlock()

	todo := missing(&m.pool, in)
	fresh := make(map[string]*toneVoice, len(todo))
	for _, k := range todo {
		fresh[k.key] = &toneVoice{}
	}

	reconcile(&m.pool, in, fresh, func(v *toneVoice, s mapper.Source) {
		v.step = 2 * math.Pi * s.Frequency / m.rate
		v.left = s.Amplitude * (1 - s.Azimuth) / 2
		v.right = s.Amplitude * (1 + s.Azimuth) / 2
	})
}

func (m *ToneMixer) Render(out []float32) {
	clear(out)
	frames := len(out) / 2

	m.mu.Lock()
	for _, k := range m.pool.order {
		if v := m.pool.live[k]; !v.broken {
			m.mix(v, out, frames)
		}
	}
	m.mu.Unlock()

	utils.ClipBuffer(out)
}

func (m *ToneMixer) mix(v *toneVoice, out []float32, frames int) {
	defer func() {
		if r := recover(); r != nil {
			v.broken = true
			m.log.Error().Interface("panic", r).Msg("Voice failed, silencing it")
		}
	}()

	phase := v.phase
	for f := range frames {
		s := math.Sin(phase)
		out[2*f] += float32(s * v.left)
		out[2*f+1] += float32(s * v.right)
		phase += v.step
	}
	v.phase = math.Mod(phase, 2*math.Pi)
}

func toneAmplitude(s mapper.Source) float64 { return s.Amplitude }
