// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ik5/depthaudio/mapper"
	"github.com/ik5/depthaudio/samples"
	"github.com/ik5/depthaudio/zones"
	"github.com/rs/zerolog"
)

// Output modes.
const (
	ModeZones = "zones"
	ModeTones = "tones"
)

// Log selects the console level and an optional rotating JSON log file.
type Log struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

func (l *Log) Validate() error {
	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("log level %q: %w", l.Level, err)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 {
		return fmt.Errorf("log rotation limits cannot be negative")
	}
	if l.MaxSizeMB == 0 {
		l.MaxSizeMB = 10
	}
	return nil
}

// Audio describes the output side.
type Audio struct {
	Mode          string `toml:"mode"`
	Spatial       bool   `toml:"spatial"`
	SampleRate    int    `toml:"sample_rate"`
	BufferFrames  int    `toml:"buffer_frames"`
	MaxVoices     int    `toml:"max_voices"` // 0 keeps the mixer default
	Interpolation string `toml:"interpolation"`
	SampleDir     string `toml:"sample_dir"`
}

func (a *Audio) Validate() error {
	if !slices.Contains([]string{ModeZones, ModeTones}, a.Mode) {
		return fmt.Errorf("audio mode %q must be %q or %q", a.Mode, ModeZones, ModeTones)
	}
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		return fmt.Errorf("sample rate %d out of range", a.SampleRate)
	}
	if a.BufferFrames < 0 || a.MaxVoices < 0 {
		return fmt.Errorf("buffer_frames and max_voices cannot be negative")
	}
	if a.BufferFrames == 0 {
		a.BufferFrames = 1024
	}
	if _, err := a.Interp(); err != nil {
		return err
	}
	return nil
}

// Interp parses the interpolation name.
func (a Audio) Interp() (samples.Interpolation, error) {
	switch a.Interpolation {
	case "", "linear":
		return samples.Linear, nil
	case "cubic":
		return samples.Cubic, nil
	}
	return 0, fmt.Errorf("interpolation %q must be linear or cubic", a.Interpolation)
}

// Mapper holds grid and tone parameters. A zero grid size picks 10 for
// stereo and 20 for spatial output.
type Mapper struct {
	GridSize   int     `toml:"grid_size"`
	MinDepth   float64 `toml:"min_depth"`
	MaxDepth   float64 `toml:"max_depth"`
	BaseFreq   float64 `toml:"base_freq"`
	FreqSpan   float64 `toml:"freq_span"`
	DepthScale float64 `toml:"depth_scale"`
	IntervalMs int64   `toml:"interval_ms"`
}

func (m *Mapper) Validate() error {
	if m.GridSize < 0 {
		return fmt.Errorf("grid_size cannot be negative")
	}
	if err := m.Params(false, true).Validate(); err != nil {
		return err
	}
	if !(m.BaseFreq > 0) || m.FreqSpan < 0 {
		return fmt.Errorf("base_freq %v must be positive and freq_span %v non-negative", m.BaseFreq, m.FreqSpan)
	}
	if m.DepthScale < 0 {
		return fmt.Errorf("depth_scale cannot be negative")
	}
	if m.IntervalMs <= 0 {
		return fmt.Errorf("interval_ms must be positive")
	}
	return nil
}

// Params builds grid parameters for the given output and depth convention.
func (m Mapper) Params(spatial, inverse bool) mapper.Params {
	p := mapper.DefaultParams()
	if spatial {
		p = mapper.Default3DParams()
	}
	if m.GridSize > 0 {
		p.GridSize = m.GridSize
	}
	p.MinDepth, p.MaxDepth, p.Inverse = m.MinDepth, m.MaxDepth, inverse
	return p
}

func (m Mapper) Tone() mapper.Tone {
	return mapper.Tone{BaseFreq: m.BaseFreq, FreqSpan: m.FreqSpan}
}

func (m Mapper) Interval() time.Duration {
	return time.Duration(m.IntervalMs) * time.Millisecond
}

// Config is the application configuration file.
type Config struct {
	Log    Log           `toml:"log"`
	Audio  Audio         `toml:"audio"`
	Mapper Mapper        `toml:"mapper"`
	Zones  []zones.Table `toml:"zone"`

	zoneSet *zones.Config
}

// Default is the configuration used when no file is found.
func Default() Config {
	tone := mapper.DefaultTone()
	return Config{
		Log: Log{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		Audio: Audio{
			Mode:          ModeZones,
			SampleRate:    44100,
			BufferFrames:  1024,
			Interpolation: "linear",
			SampleDir:     "sounds",
		},
		Mapper: Mapper{
			MinDepth:   0,
			MaxDepth:   1,
			BaseFreq:   tone.BaseFreq,
			FreqSpan:   tone.FreqSpan,
			DepthScale: 1,
			IntervalMs: 100,
		},
	}
}

// Load decodes path over Default. Unknown keys are rejected and a relative
// sample_dir is taken from the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}

	if !filepath.IsAbs(cfg.Audio.SampleDir) {
		cfg.Audio.SampleDir = filepath.Join(filepath.Dir(path), cfg.Audio.SampleDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section and builds the zone set.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: log: %w", ErrInvalidConfig, err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("%w: audio: %w", ErrInvalidConfig, err)
	}
	if err := c.Mapper.Validate(); err != nil {
		return fmt.Errorf("%w: mapper: %w", ErrInvalidConfig, err)
	}

	if len(c.Zones) == 0 {
		c.zoneSet = zones.Default(c.Audio.SampleDir)
		return nil
	}
	set, err := zones.FromTables(c.Audio.SampleDir, c.Zones)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.zoneSet = set
	return nil
}

// ZoneSet returns the validated zones, the default soundscape when the file
// declares none.
func (c *Config) ZoneSet() (*zones.Config, error) {
	if c.zoneSet == nil {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return c.zoneSet, nil
}
