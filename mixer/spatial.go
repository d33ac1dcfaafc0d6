// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"math"
	"sync"

	"github.com/ik5/depthaudio/device"
	"github.com/ik5/depthaudio/mapper"
	"github.com/ik5/depthaudio/samples"
	"github.com/ik5/depthaudio/utils"
	"github.com/ik5/depthaudio/zones"
	"github.com/rs/zerolog"
)

// spatial keeps a pool of device voices in step with incoming sources. The
// device mixes; the pool only allocates, places and releases.
type spatial[S any] struct {
	dev  device.Spatial
	log  zerolog.Logger
	opts options

	gain   func(S) float64
	key    func(S) string
	create func(S) (device.Voice, error) // nil voice and nil error skips the source
	place  func(device.Voice, S)

	mu     sync.Mutex
	pool   pool[device.Voice]
	warned map[string]bool
}

func (m *spatial[S]) Start() error {
	m.mu.Lock()
	m.pool.reopen()
	m.mu.Unlock()

	if err := m.dev.Start(); err != nil {
		m.log.Error().Err(err).Msg("Failed to start spatial device")
		return deviceErr("start spatial mixer", err)
	}
	m.log.Debug().Int("max_voices", m.opts.maxVoices).Msg("Spatial mixer started")
	return nil
}

// Stop stops and closes every voice before stopping the device. Voices an
// in-flight Update allocates afterwards are closed rather than kept.
func (m *spatial[S]) Stop() error {
	m.mu.Lock()
	vs := m.pool.close()
	m.mu.Unlock()

	m.release(vs)

	if err := m.dev.Stop(); err != nil {
		m.log.Error().Err(err).Msg("Failed to stop spatial device")
		return deviceErr("stop spatial mixer", err)
	}
	m.log.Debug().Int("released", len(vs)).Msg("Spatial mixer stopped")
	return nil
}

func (m *spatial[S]) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pool.len()
}

func (m *spatial[S]) Update(srcs []S) {
	in := pick(srcs, m.opts.maxVoices, m.key, m.gain)

	m.mu.Lock()
	todo := missing(&m.pool, in)
	m.mu.Unlock()

	fresh := make(map[string]device.Voice, len(todo))
	for _, k := range todo {
		v, err := m.create(k.src)
		if err != nil {
			m.warnOnce("voice", "Voice allocation failed, dropping source", err)
			continue
		}
		if v == nil {
			continue
		}
		m.place(v, k.src)
		v.Play()
		fresh[k.key] = v
	}

	m.mu.Lock()
	dropped := reconcile(&m.pool, in, fresh, m.place)
	m.mu.Unlock()

	m.release(dropped)
}

func (m *spatial[S]) release(vs []device.Voice) {
	for _, v := range vs {
		v.Stop()
		if err := v.Close(); err != nil {
			m.log.Warn().Err(err).Msg("Failed to close voice")
		}
	}
}

func (m *spatial[S]) warnOnce(key, msg string, err error) {
	m.mu.Lock()
	seen := m.warned[key]
	m.warned[key] = true
	m.mu.Unlock()

	if !seen {
		m.log.Warn().Err(err).Str("key", key).Msg(msg)
	}
}

func unitGain(g float64) float64 {
	if math.IsNaN(g) {
		return 0
	}
	return utils.Clamp(g, 0, 1)
}

// SpatialZoneMixer places one looping device voice per zone and position
// bucket, fed from the zone sample folded to mono.
type SpatialZoneMixer struct {
	spatial[mapper.ZoneSource3D]

	samples *samples.Manager
	zones   *zones.Config
}

func NewSpatialZoneMixer(dev device.Spatial, mgr *samples.Manager, cfg *zones.Config, log zerolog.Logger, opts ...Option) (*SpatialZoneMixer, error) {
	if cfg == nil {
		return nil, ErrNoZones
	}
	if mgr.TargetRate() != dev.SampleRate() {
		return nil, fmt.Errorf("%w: samples at %d Hz, device at %d Hz", ErrLayout, mgr.TargetRate(), dev.SampleRate())
	}

	m := &SpatialZoneMixer{samples: mgr, zones: cfg}
	m.spatial = spatial[mapper.ZoneSource3D]{
		dev:    dev,
		log:    log.With().Str("component", "spatial_zone_mixer").Logger(),
		opts:   buildOptions(DefaultMaxSpatialVoices, opts),
		gain:   func(s mapper.ZoneSource3D) float64 { return s.Amplitude },
		key:    func(s mapper.ZoneSource3D) string { return zoneKey3D(s.ZoneID, s.X, s.Y, s.Z) },
		create: m.newVoice,
		place:  m.place,
		pool:   newPool[device.Voice](),
		warned: make(map[string]bool),
	}
	return m, nil
}

func (m *SpatialZoneMixer) newVoice(s mapper.ZoneSource3D) (device.Voice, error) {
	z, zok := m.zones.Get(s.ZoneID)
	smp, sok := m.samples.Get(s.ZoneID)
	if !zok || !sok {
		m.warnOnce(s.ZoneID, "Zone sample unavailable, skipping voice", nil)
		return nil, nil
	}
	return m.dev.NewVoice(smp.Mono(), z.Loop)
}

func (m *SpatialZoneMixer) place(v device.Voice, s mapper.ZoneSource3D) {
	vol := 1.0
	if z, ok := m.zones.Get(s.ZoneID); ok {
		vol = z.BaseVolume
	}
	v.SetPosition(s.X, s.Y, s.Z)
	v.SetGain(unitGain(s.Amplitude * vol))
}

// ToneSeconds is the length of the shared sine buffer behind 3D tones.
const ToneSeconds = 0.25

// SpatialToneMixer pitches copies of one sine buffer at the base frequency
// to every source's frequency.
type SpatialToneMixer struct {
	spatial[mapper.Source3D]

	base float64
	sine []float32
}

func NewSpatialToneMixer(dev device.Spatial, baseFreq float64, log zerolog.Logger, opts ...Option) (*SpatialToneMixer, error) {
	if !(baseFreq > 0) || dev.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: base frequency %v at %d Hz", ErrLayout, baseFreq, dev.SampleRate())
	}

	m := &SpatialToneMixer{base: baseFreq, sine: sineBuffer(dev.SampleRate(), baseFreq, ToneSeconds)}
	m.spatial = spatial[mapper.Source3D]{
		dev:  dev,
		log:  log.With().Str("component", "spatial_tone_mixer").Logger(),
		opts: buildOptions(DefaultMaxSpatialVoices, opts),
		gain: func(s mapper.Source3D) float64 { return s.Gain },
		key:  func(s mapper.Source3D) string { return toneKey3D(s.Frequency, s.X, s.Y, s.Z) },
		create: func(mapper.Source3D) (device.Voice, error) {
			return m.dev.NewVoice(m.sine, true)
		},
		place:  m.place,
		pool:   newPool[device.Voice](),
		warned: make(map[string]bool),
	}
	return m, nil
}

func (m *SpatialToneMixer) place(v device.Voice, s mapper.Source3D) {
	v.SetPosition(s.X, s.Y, s.Z)
	v.SetGain(unitGain(s.Gain))
	v.SetPitch(s.Frequency / m.base)
}

// sineBuffer holds a sine at half scale.
func sineBuffer(rate int, freq, seconds float64) []float32 {
	n := int(float64(rate) * seconds)
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return buf
}
