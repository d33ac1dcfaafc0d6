// SPDX-License-Identifier: EPL-2.0

package depth

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/ik5/depthaudio/mapper"
)

// Blob is a soft round object drifting on an elliptical path. Coordinates
// are fractions of the frame; Peak is its inverse depth at the center.
type Blob struct {
	CenterX, CenterY float64
	SwingX, SwingY   float64
	Rate             float64 // radians per second
	Phase            float64
	Radius           float64
	Peak             float64
}

func (b Blob) at(t float64) (x, y float64) {
	a := b.Rate*t + b.Phase
	return b.CenterX + b.SwingX*math.Sin(a), b.CenterY + b.SwingY*math.Cos(a)
}

// DefaultScene is three objects at different distances crossing the view.
func DefaultScene() []Blob {
	return []Blob{
		{CenterX: 0.5, CenterY: 0.55, SwingX: 0.35, SwingY: 0.05, Rate: 0.6, Radius: 0.12, Peak: 0.95},
		{CenterX: 0.3, CenterY: 0.4, SwingX: 0.2, SwingY: 0.2, Rate: 0.35, Phase: 2, Radius: 0.18, Peak: 0.55},
		{CenterX: 0.7, CenterY: 0.3, SwingX: 0.15, SwingY: 0.1, Rate: 0.9, Phase: 4, Radius: 0.1, Peak: 0.3},
	}
}

// Synthetic renders an inverse depth map of moving blobs over a flat far
// background. Each Depth call advances the scene clock by Step, so output
// is reproducible regardless of wall time.
type Synthetic struct {
	width, height int
	background    float64
	step          time.Duration
	blobs         []Blob

	mu sync.Mutex
	t  time.Duration
}

// NewSynthetic builds a scene; with no blobs it uses DefaultScene. A
// non-positive step defaults to 100ms.
func NewSynthetic(width, height int, step time.Duration, blobs ...Blob) *Synthetic {
	if len(blobs) == 0 {
		blobs = DefaultScene()
	}
	if step <= 0 {
		step = 100 * time.Millisecond
	}
	return &Synthetic{
		width:      max(width, 1),
		height:     max(height, 1),
		background: 0.02,
		step:       step,
		blobs:      blobs,
	}
}

func (s *Synthetic) Inverse() bool { return true }

func (s *Synthetic) Depth(ctx context.Context) (mapper.Grid, error) {
	if err := ctx.Err(); err != nil {
		return mapper.Grid{}, err
	}

	s.mu.Lock()
	t := s.t.Seconds()
	s.t += s.step
	s.mu.Unlock()

	return s.render(t), nil
}

func (s *Synthetic) render(t float64) mapper.Grid {
	type placed struct{ x, y, r2, peak float64 }
	ps := make([]placed, len(s.blobs))
	for i, b := range s.blobs {
		x, y := b.at(t)
		ps[i] = placed{x: x, y: y, r2: 2 * b.Radius * b.Radius, peak: b.Peak}
	}

	data := make([]float64, s.width*s.height)
	for row := range s.height {
		fy := (float64(row) + 0.5) / float64(s.height)
		for col := range s.width {
			fx := (float64(col) + 0.5) / float64(s.width)

			v := s.background
			for _, p := range ps {
				if p.r2 <= 0 {
					continue
				}
				dx, dy := fx-p.x, fy-p.y
				v = max(v, p.peak*math.Exp(-(dx*dx+dy*dy)/p.r2))
			}
			data[row*s.width+col] = min(v, 1)
		}
	}

	return mapper.Grid{Width: s.width, Height: s.height, Data: data}
}
