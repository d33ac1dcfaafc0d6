// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"sync"

	"github.com/ik5/depthaudio/device"
	"github.com/ik5/depthaudio/mapper"
	"github.com/ik5/depthaudio/samples"
	"github.com/ik5/depthaudio/utils"
	"github.com/ik5/depthaudio/zones"
	"github.com/rs/zerolog"
)

// scratchFrames sizes the per-voice read buffer before the first callback.
const scratchFrames = 2048

type zoneVoice struct {
	zoneID string
	sample *samples.Sample
	cursor int

	volume      float64 // zone base volume
	left, right float32
	broken      bool
}

func (v *zoneVoice) set(s mapper.ZoneSource) {
	g := s.Amplitude * v.volume
	v.left = float32(g * (1 - s.Azimuth) / 2)
	v.right = float32(g * (1 + s.Azimuth) / 2)
}

// ZoneMixer plays zone samples into an interleaved stereo stream, one
// looping voice per zone and azimuth bucket.
type ZoneMixer struct {
	out     device.Stream
	samples *samples.Manager
	zones   *zones.Config
	log     zerolog.Logger
	opts    options

	mu      sync.Mutex
	pool    pool[*zoneVoice]
	warned  map[string]bool
	scratch []float32
}

func NewZoneMixer(out device.Stream, mgr *samples.Manager, cfg *zones.Config, log zerolog.Logger, opts ...Option) (*ZoneMixer, error) {
	if cfg == nil {
		return nil, ErrNoZones
	}
	if out.Channels() != 2 {
		return nil, fmt.Errorf("%w: zone mixer renders stereo, stream has %d channels", ErrLayout, out.Channels())
	}
	if mgr.TargetRate() != out.SampleRate() {
		return nil, fmt.Errorf("%w: samples at %d Hz, stream at %d Hz", ErrLayout, mgr.TargetRate(), out.SampleRate())
	}

	return &ZoneMixer{
		out:     out,
		samples: mgr,
		zones:   cfg,
		log:     log.With().Str("component", "zone_mixer").Logger(),
		opts:    buildOptions(DefaultMaxVoices, opts),
		pool:    newPool[*zoneVoice](),
		warned:  make(map[string]bool),
		scratch: make([]float32, scratchFrames*2),
	}, nil
}

func (m *ZoneMixer) Start() error {
	m.mu.Lock()
	m.pool.reopen()
	m.mu.Unlock()

	if err := m.out.Start(m.Render); err != nil {
		m.log.Error().Err(err).Msg("Failed to start output")
		return deviceErr("start zone mixer", err)
	}
	m.log.Debug().Int("max_voices", m.opts.maxVoices).Msg("Zone mixer started")
	return nil
}

// Stop halts the stream and releases every voice. Updates are ignored until
// the next Start.
func (m *ZoneMixer) Stop() error {
	err := m.out.Stop()

	m.mu.Lock()
	m.pool.close()
	m.mu.Unlock()

	if err != nil {
		m.log.Error().Err(err).Msg("Failed to stop output")
		return deviceErr("stop zone mixer", err)
	}
	m.log.Debug().Msg("Zone mixer stopped")
	return nil
}

// Voices reports the live voice count.
func (m *ZoneMixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pool.len()
}

func (m *ZoneMixer) Update(srcs []mapper.ZoneSource) {
	in := pick(srcs, m.opts.maxVoices,
		func(s mapper.ZoneSource) string { return zoneKey(s.ZoneID, s.Azimuth) },
		zoneAmplitude,
	)

	m.mu.Lock()
	todo := missing(&m.pool, in)
	m.mu.Unlock()

	fresh := make(map[string]*zoneVoice, len(todo))
	for _, k := range todo {
		if v := m.newVoice(k.src.ZoneID); v != nil {
			fresh[k.key] = v
		}
	}

	m.mu.Lock()
	reconcile(&m.pool, in, fresh, (*zoneVoice).set)
	m.mu.Unlock()
}

func (m *ZoneMixer) newVoice(zoneID string) *zoneVoice {
	z, zok := m.zones.Get(zoneID)
	s, sok := m.samples.Get(zoneID)
	if !zok || !sok {
		m.warnOnce(zoneID, "Zone sample unavailable, skipping voice")
		return nil
	}
	return &zoneVoice{zoneID: zoneID, sample: s, volume: z.BaseVolume}
}

func (m *ZoneMixer) warnOnce(zoneID, msg string) {
	m.mu.Lock()
	seen := m.warned[zoneID]
	m.warned[zoneID] = true
	m.mu.Unlock()

	if !seen {
		m.log.Warn().Str("zone", zoneID).Msg(msg)
	}
}

// Render mixes every live voice into out and advances their cursors.
func (m *ZoneMixer) Render(out []float32) {
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

func (m *ZoneMixer) mix(v *zoneVoice, out []float32, frames int) {
	defer func() {
		if r := recover(); r != nil {
			v.broken = true
			m.log.Error().Str("zone", v.zoneID).Interface("panic", r).Msg("Voice failed, silencing it")
		}
	}()

	ch := v.sample.Channels()
	need := frames * ch
	if cap(m.scratch) < need {
		m.scratch = make([]float32, need)
	}
	buf := m.scratch[:need]
	v.sample.ReadFrames(buf, v.cursor)

	for f := range frames {
		l := buf[f*ch]
		r := l
		if ch > 1 {
			r = buf[f*ch+1]
		}
		out[2*f] += l * v.left
		out[2*f+1] += r * v.right
	}

	v.cursor += frames
}

func zoneAmplitude(s mapper.ZoneSource) float64 { return s.Amplitude }
