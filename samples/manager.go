// SPDX-License-Identifier: EPL-2.0

package samples

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ik5/depthaudio/audio"
	"github.com/ik5/depthaudio/formats/aiff"
	"github.com/ik5/depthaudio/formats/mp3"
	"github.com/ik5/depthaudio/formats/vorbis"
	"github.com/ik5/depthaudio/formats/wav"
	"github.com/ik5/depthaudio/utils"
	"github.com/ik5/depthaudio/zones"
)

// Interpolation selects how samples are brought to the target rate.
type Interpolation int

const (
	// Linear resamples the whole decoded buffer with straight-line interpolation.
	Linear Interpolation = iota
	// Cubic streams through audio.Resampler while decoding.
	Cubic
)

func (i Interpolation) String() string {
	switch i {
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// DefaultRegistry knows every bundled decoder, keyed by file extension.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	return reg
}

type Option func(*Manager)

func WithInterpolation(i Interpolation) Option {
	return func(m *Manager) { m.interp = i }
}

func WithRegistry(r *audio.Registry) Option {
	return func(m *Manager) { m.registry = r }
}

// Manager decodes zone samples to a shared rate and caches them by zone ID.
// Decoding runs outside the cache lock, so lookups are never held up by I/O.
type Manager struct {
	targetRate int
	interp     Interpolation
	registry   *audio.Registry
	log        zerolog.Logger

	mu    sync.RWMutex
	cache map[string]*Sample
}

func NewManager(targetRate int, log zerolog.Logger, opts ...Option) (*Manager, error) {
	if targetRate <= 0 {
		return nil, audio.ErrInvalidRate
	}

	m := &Manager{
		targetRate: targetRate,
		interp:     Linear,
		log:        log.With().Str("component", "samples").Logger(),
		cache:      make(map[string]*Sample),
	}
	for _, o := range opts {
		o(m)
	}
	if m.registry == nil {
		m.registry = DefaultRegistry()
	}
	return m, nil
}

func (m *Manager) TargetRate() int { return m.targetRate }

// Load returns the cached sample for zoneID, decoding path on a miss.
func (m *Manager) Load(zoneID, path string, loop bool) (*Sample, error) {
	if s, ok := m.Get(zoneID); ok {
		return s, nil
	}

	s, err := m.decode(path, loop)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// another caller may have won the race
	if cached, ok := m.cache[zoneID]; ok {
		return cached, nil
	}
	m.cache[zoneID] = s
	m.logLoaded(zoneID, path, s)
	return s, nil
}

// Reload decodes path again and replaces any cached entry.
func (m *Manager) Reload(zoneID, path string, loop bool) (*Sample, error) {
	s, err := m.decode(path, loop)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[zoneID] = s
	m.mu.Unlock()

	m.logLoaded(zoneID, path, s)
	return s, nil
}

func (m *Manager) logLoaded(zoneID, path string, s *Sample) {
	m.log.Debug().
		Str("zone", zoneID).
		Str("path", path).
		Int("frames", s.Frames()).
		Int("channels", s.Channels()).
		Dur("duration", s.Duration()).
		Msg("Loaded sample")
}

func (m *Manager) Get(zoneID string) (*Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.cache[zoneID]
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.cache)
}

// Clear drops every cached sample.
func (m *Manager) Clear() {
	m.mu.Lock()
	clear(m.cache)
	m.mu.Unlock()

	m.log.Debug().Msg("Cleared sample cache")
}

// LoadZones loads the sample of every zone in cfg. Zones that fail are logged
// and skipped; their errors are joined in the result.
func (m *Manager) LoadZones(cfg *zones.Config) error {
	var errs []error
	for _, z := range cfg.Zones() {
		if _, err := m.Load(z.ID, z.File, z.Loop); err != nil {
			m.log.Warn().Err(err).Str("zone", z.ID).Str("path", z.File).Msg("Zone sample unavailable")
			errs = append(errs, fmt.Errorf("zone %q: %w", z.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) decode(path string, loop bool) (*Sample, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	ext := filepath.Ext(path)
	dec, ok := m.registry.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unsupported format %q", ErrDecode, path, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	defer src.Close()

	if src.Channels() < 1 {
		return nil, fmt.Errorf("%w: %s: no channels", ErrDecode, path)
	}
	if src.Channels() > 2 {
		src = audio.NewMonoMixer(src)
	}

	rate := src.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: %s: sample rate %d", ErrDecode, path, rate)
	}
	if m.interp == Cubic && rate != m.targetRate {
		src = audio.NewResampler(src, m.targetRate)
		rate = m.targetRate
	}

	data, err := audio.ReadAll(src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: no audio frames", ErrDecode, path)
	}

	data, err = audio.ResampleLinear(data, src.Channels(), rate, m.targetRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: too short for %d Hz", ErrDecode, path, m.targetRate)
	}
	utils.ClipBuffer(data)

	s, err := NewSample(data, m.targetRate, src.Channels(), loop)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return s, nil
}
