// SPDX-License-Identifier: EPL-2.0

package zones

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Table is the TOML shape of one [[zone]] entry. Unset optional keys take
// base_volume = 1, loop = true, fade_distance = 0.1.
type Table struct {
	ID           string   `toml:"id"`
	MinCloseness float64  `toml:"min_closeness"`
	MaxCloseness float64  `toml:"max_closeness"`
	File         string   `toml:"file"`
	BaseVolume   *float64 `toml:"base_volume"`
	Loop         *bool    `toml:"loop"`
	FadeDistance *float64 `toml:"fade_distance"`
}

// Zone applies defaults and resolves a relative file against dir.
func (t Table) Zone(dir string) Zone {
	z := Zone{
		ID:           t.ID,
		MinCloseness: t.MinCloseness,
		MaxCloseness: t.MaxCloseness,
		File:         t.File,
		BaseVolume:   1.0,
		Loop:         true,
		FadeDistance: 0.1,
	}
	if t.BaseVolume != nil {
		z.BaseVolume = *t.BaseVolume
	}
	if t.Loop != nil {
		z.Loop = *t.Loop
	}
	if t.FadeDistance != nil {
		z.FadeDistance = *t.FadeDistance
	}
	if z.File != "" && !filepath.IsAbs(z.File) && dir != "" {
		z.File = filepath.Join(dir, z.File)
	}
	return z
}

// FromTables builds a configuration from decoded tables, keeping file order.
func FromTables(dir string, tables []Table) (*Config, error) {
	zs := make([]Zone, 0, len(tables))
	for _, t := range tables {
		zs = append(zs, t.Zone(dir))
	}
	return New(zs...)
}

// Load reads a TOML file holding [[zone]] tables.
func Load(path string) (*Config, error) {
	var doc struct {
		Zone []Table `toml:"zone"`
	}

	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrConfiguration, undecoded)
	}

	return FromTables(filepath.Dir(path), doc.Zone)
}
