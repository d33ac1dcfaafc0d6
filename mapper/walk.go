// SPDX-License-Identifier: EPL-2.0

package mapper

import (
	"fmt"
	"math"
)

// MinCloseness is the faintest closeness that still produces a source.
// The comparison is strict: exactly MinCloseness is kept.
const MinCloseness = 0.05

// Params controls how a grid is partitioned and normalized.
type Params struct {
	GridSize int
	MinDepth float64
	MaxDepth float64
	// Inverse marks depth maps where larger values are nearer.
	Inverse bool
}

// DefaultParams matches the 2D mappers: a 10x10 grid over inverse depth in [0, 1].
func DefaultParams() Params {
	return Params{GridSize: 10, MinDepth: 0, MaxDepth: 1, Inverse: true}
}

// Default3DParams uses the finer 20x20 grid of the 3D mappers.
func Default3DParams() Params {
	p := DefaultParams()
	p.GridSize = 20
	return p
}

func (p Params) Validate() error {
	if p.GridSize < 1 {
		return fmt.Errorf("%w: grid size %d", ErrInvalidParams, p.GridSize)
	}
	if math.IsNaN(p.MinDepth) || math.IsNaN(p.MaxDepth) || math.IsInf(p.MinDepth, 0) || math.IsInf(p.MaxDepth, 0) {
		return fmt.Errorf("%w: depth range must be finite", ErrInvalidParams)
	}
	if p.MaxDepth <= p.MinDepth {
		return fmt.Errorf("%w: max depth %v must exceed min depth %v", ErrInvalidParams, p.MaxDepth, p.MinDepth)
	}
	return nil
}

// Cell is one surviving grid cell.
type Cell struct {
	X, Y      int
	GridSize  int
	Closeness float64
}

// Azimuth of the cell centre, -1 full left to +1 full right.
func (c Cell) Azimuth() float64 {
	return (float64(c.X)+0.5)/float64(c.GridSize)*2 - 1
}

// Elevation of the cell centre; row 0 is up.
func (c Cell) Elevation() float64 {
	return 1 - (float64(c.Y)+0.5)/float64(c.GridSize)*2
}

// Distance is the z coordinate in front of a listener facing -Z.
// The nearest objects sit at -1 and the farthest at -1-depthScale.
func (c Cell) Distance(depthScale float64) float64 {
	return -1 - (1-c.Closeness)*depthScale
}

// Walk partitions g into p.GridSize² cells and calls fn, row-major, for every
// cell whose extremal pixel is in range and not too faint. Cells are
// max(1, H/n) by max(1, W/n) pixels; trailing pixels are never visited.
// Malformed grids produce nothing.
func Walk(g Grid, p Params, fn func(Cell)) {
	n := p.GridSize
	if n < 1 || g.Width <= 0 || g.Height <= 0 || len(g.Data) < g.Width*g.Height {
		return
	}
	cellH := max(1, g.Height/n)
	cellW := max(1, g.Width/n)
	span := p.MaxDepth - p.MinDepth

	for gy := range n {
		y0 := gy * cellH
		if y0 >= g.Height {
			break
		}
		y1 := min(y0+cellH, g.Height)

		for gx := range n {
			x0 := gx * cellW
			if x0 >= g.Width {
				break
			}
			x1 := min(x0+cellW, g.Width)

			closest, ok := extremum(g, x0, x1, y0, y1, p.Inverse)
			if !ok || closest < p.MinDepth || closest > p.MaxDepth {
				continue
			}

			var closeness float64
			if p.Inverse {
				closeness = (closest - p.MinDepth) / span
			} else {
				closeness = (p.MaxDepth - closest) / span
			}
			if closeness < MinCloseness {
				continue
			}

			fn(Cell{X: gx, Y: gy, GridSize: n, Closeness: closeness})
		}
	}
}

// extremum returns the nearest pixel in the block, ignoring NaNs.
func extremum(g Grid, x0, x1, y0, y1 int, inverse bool) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for y := y0; y < y1; y++ {
		row := g.Data[y*g.Width+x0 : y*g.Width+x1]
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if !found || (inverse && v > best) || (!inverse && v < best) {
				best, found = v, true
			}
		}
	}
	return best, found
}
