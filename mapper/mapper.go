// SPDX-License-Identifier: EPL-2.0

package mapper

import (
	"fmt"
	"math"

	"github.com/ik5/depthaudio/zones"
)

// Mapper turns one depth frame into source descriptors. Implementations are
// pure: the same grid always yields the same slice.
type Mapper[S any] interface {
	Map(g Grid) []S
}

// Source is a stereo oscillator descriptor.
type Source struct {
	Azimuth   float64
	Amplitude float64
	Frequency float64
}

// Source3D is a positioned oscillator descriptor.
type Source3D struct {
	X, Y, Z   float64
	Gain      float64
	Frequency float64
}

// ZoneSource is a stereo descriptor for a zone sample.
type ZoneSource struct {
	Azimuth   float64
	Amplitude float64
	Closeness float64
	ZoneID    string
}

// ZoneSource3D is a positioned descriptor for a zone sample.
type ZoneSource3D struct {
	X, Y, Z   float64
	Amplitude float64
	Closeness float64
	ZoneID    string
}

// Tone maps closeness to pitch. Farther cells sound higher.
type Tone struct {
	BaseFreq float64
	FreqSpan float64
}

func DefaultTone() Tone {
	return Tone{BaseFreq: 440, FreqSpan: 880}
}

func (t Tone) Frequency(closeness float64) float64 {
	return t.BaseFreq + (1-closeness)*t.FreqSpan
}

func (t Tone) validate() error {
	if !(t.BaseFreq > 0) || t.FreqSpan < 0 || math.IsInf(t.BaseFreq+t.FreqSpan, 0) {
		return fmt.Errorf("%w: base frequency %v, span %v", ErrInvalidParams, t.BaseFreq, t.FreqSpan)
	}
	return nil
}

func validScale(depthScale float64) error {
	if depthScale < 0 || math.IsNaN(depthScale) || math.IsInf(depthScale, 0) {
		return fmt.Errorf("%w: depth scale %v", ErrInvalidParams, depthScale)
	}
	return nil
}

// collector runs the shared grid walk and lets shape decide what each
// surviving cell becomes. shape returns false to drop a cell.
type collector[S any] struct {
	params Params
	shape  func(Cell) (S, bool)
}

func (c collector[S]) Map(g Grid) []S {
	var out []S
	Walk(g, c.params, func(cell Cell) {
		if s, ok := c.shape(cell); ok {
			out = append(out, s)
		}
	})
	return out
}

func (c collector[S]) Params() Params { return c.params }

// FrequencyMapper emits stereo tones, one per surviving cell.
type FrequencyMapper struct{ collector[Source] }

func NewFrequencyMapper(p Params, t Tone) (*FrequencyMapper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, err
	}

	return &FrequencyMapper{collector[Source]{params: p, shape: func(c Cell) (Source, bool) {
		return Source{
			Azimuth:   c.Azimuth(),
			Amplitude: c.Closeness,
			Frequency: t.Frequency(c.Closeness),
		}, true
	}}}, nil
}

// Frequency3DMapper emits positioned tones with gain equal to closeness.
type Frequency3DMapper struct{ collector[Source3D] }

func NewFrequency3DMapper(p Params, t Tone, depthScale float64) (*Frequency3DMapper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	if err := validScale(depthScale); err != nil {
		return nil, err
	}

	return &Frequency3DMapper{collector[Source3D]{params: p, shape: func(c Cell) (Source3D, bool) {
		return Source3D{
			X:         c.Azimuth(),
			Y:         c.Elevation(),
			Z:         c.Distance(depthScale),
			Gain:      c.Closeness,
			Frequency: t.Frequency(c.Closeness),
		}, true
	}}}, nil
}

// primary resolves the cell's zone and the faded amplitude.
func primary(cfg *zones.Config, c Cell) (string, float64, bool) {
	m, ok := cfg.Primary(c.Closeness)
	if !ok {
		return "", 0, false
	}
	return m.Zone.ID, c.Closeness * m.Intensity, true
}

// ZoneMapper tags each cell with its primary zone. Cells in a zone gap are dropped.
type ZoneMapper struct{ collector[ZoneSource] }

func NewZoneMapper(p Params, cfg *zones.Config) (*ZoneMapper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil zone configuration", ErrInvalidParams)
	}

	return &ZoneMapper{collector[ZoneSource]{params: p, shape: func(c Cell) (ZoneSource, bool) {
		id, amp, ok := primary(cfg, c)
		return ZoneSource{
			Azimuth:   c.Azimuth(),
			Amplitude: amp,
			Closeness: c.Closeness,
			ZoneID:    id,
		}, ok
	}}}, nil
}

// Zone3DMapper is ZoneMapper with full 3D placement.
type Zone3DMapper struct{ collector[ZoneSource3D] }

func NewZone3DMapper(p Params, cfg *zones.Config, depthScale float64) (*Zone3DMapper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil zone configuration", ErrInvalidParams)
	}
	if err := validScale(depthScale); err != nil {
		return nil, err
	}

	return &Zone3DMapper{collector[ZoneSource3D]{params: p, shape: func(c Cell) (ZoneSource3D, bool) {
		id, amp, ok := primary(cfg, c)
		return ZoneSource3D{
			X:         c.Azimuth(),
			Y:         c.Elevation(),
			Z:         c.Distance(depthScale),
			Amplitude: amp,
			Closeness: c.Closeness,
			ZoneID:    id,
		}, ok
	}}}, nil
}
