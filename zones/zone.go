// SPDX-License-Identifier: EPL-2.0

package zones

import (
	"fmt"
	"math"
)

// Zone is a named band of closeness values bound to one ambient sample.
type Zone struct {
	ID           string
	MinCloseness float64
	MaxCloseness float64
	File         string
	BaseVolume   float64
	Loop         bool
	FadeDistance float64
}

// Validate reports parameters that break 0 <= min < max <= 1 or leave the unit range.
func (z Zone) Validate() error {
	switch {
	case z.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidZone)
	case !unit(z.MinCloseness):
		return fmt.Errorf("%w %q: min_closeness must be 0.0-1.0, got %v", ErrInvalidZone, z.ID, z.MinCloseness)
	case !unit(z.MaxCloseness):
		return fmt.Errorf("%w %q: max_closeness must be 0.0-1.0, got %v", ErrInvalidZone, z.ID, z.MaxCloseness)
	case z.MinCloseness >= z.MaxCloseness:
		return fmt.Errorf("%w %q: min_closeness (%v) must be < max_closeness (%v)",
			ErrInvalidZone, z.ID, z.MinCloseness, z.MaxCloseness)
	case !unit(z.BaseVolume):
		return fmt.Errorf("%w %q: base_volume must be 0.0-1.0, got %v", ErrInvalidZone, z.ID, z.BaseVolume)
	case !unit(z.FadeDistance):
		return fmt.Errorf("%w %q: fade_distance must be 0.0-1.0, got %v", ErrInvalidZone, z.ID, z.FadeDistance)
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// Contains reports whether closeness lies in the closed band.
func (z Zone) Contains(closeness float64) bool {
	return z.MinCloseness <= closeness && closeness <= z.MaxCloseness
}

// Intensity is 1 in the zone core and ramps linearly to 0 at either edge.
// The ramp on each side spans min(fade*width/2, width/2).
func (z Zone) Intensity(closeness float64) float64 {
	if !z.Contains(closeness) {
		return 0
	}
	if z.FadeDistance <= 0 {
		return 1
	}

	half := (z.MaxCloseness - z.MinCloseness) / 2
	center := z.MinCloseness + half
	dist := math.Abs(closeness - center)
	fade := math.Min(z.FadeDistance*half, half)

	if dist <= half-fade {
		return 1
	}
	return math.Max(0, math.Min(1, (half-dist)/fade))
}
