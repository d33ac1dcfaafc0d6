// SPDX-License-Identifier: EPL-2.0

package zones

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Match pairs a zone with its intensity at some closeness.
type Match struct {
	Zone      Zone
	Intensity float64
}

// Config is an ordered set of zones with unique IDs. Safe for concurrent use.
type Config struct {
	mu    sync.RWMutex
	zones []Zone
	index map[string]int
}

// New builds a configuration, validating every zone in order.
func New(zs ...Zone) (*Config, error) {
	c := &Config{index: make(map[string]int, len(zs))}
	for _, z := range zs {
		if err := c.Add(z); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends z. It fails with ErrDuplicateZone if the ID is already present.
func (c *Config) Add(z Zone) error {
	if err := z.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, ok := c.index[z.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateZone, z.ID)
	}

	c.index[z.ID] = len(c.zones)
	c.zones = append(c.zones, z)
	return nil
}

// Get returns the zone with the given id.
func (c *Config) Get(id string) (Zone, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return Zone{}, false
	}
	return c.zones[i], true
}

// Zones returns a copy of the zones in configuration order.
func (c *Config) Zones() []Zone {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]Zone(nil), c.zones...)
}

func (c *Config) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.zones)
}

// Active lists every zone with non-zero intensity at closeness, in order.
func (c *Config) Active(closeness float64) []Match {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Match
	for _, z := range c.zones {
		if in := z.Intensity(closeness); in > 0 {
			out = append(out, Match{Zone: z, Intensity: in})
		}
	}
	return out
}

// Primary returns the most intense zone at closeness. Earlier zones win ties.
// A closeness that no zone covers reports false.
func (c *Config) Primary(closeness float64) (Match, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		best  Match
		found bool
	)
	for _, z := range c.zones {
		in := z.Intensity(closeness)
		if in > 0 && (!found || in > best.Intensity) {
			best = Match{Zone: z, Intensity: in}
			found = true
		}
	}
	return best, found
}

// Default returns the far/medium/close soundscape with samples under dir.
// The bands overlap so neighbouring ambiences cross-fade.
func Default(dir string) *Config {
	c, err := New(
		Zone{ID: "far", MinCloseness: 0.0, MaxCloseness: 0.3, File: filepath.Join(dir, "far.wav"),
			BaseVolume: 0.8, Loop: true, FadeDistance: 0.2},
		Zone{ID: "medium", MinCloseness: 0.2, MaxCloseness: 0.7, File: filepath.Join(dir, "medium.wav"),
			BaseVolume: 0.6, Loop: true, FadeDistance: 0.3},
		Zone{ID: "close", MinCloseness: 0.6, MaxCloseness: 1.0, File: filepath.Join(dir, "close.wav"),
			BaseVolume: 1.0, Loop: true, FadeDistance: 0.2},
	)
	if err != nil {
		panic(err) // static table
	}
	return c
}
