// SPDX-License-Identifier: EPL-2.0

package mapper

import "fmt"

// Grid is a row-major depth map. Units are whatever the provider emits.
type Grid struct {
	Width  int
	Height int
	Data   []float64
}

// NewGrid wraps data, which must hold exactly width*height values.
func NewGrid(width, height int, data []float64) (Grid, error) {
	if width < 0 || height < 0 || len(data) != width*height {
		return Grid{}, fmt.Errorf("%w: %dx%d with %d values", ErrGridShape, width, height, len(data))
	}
	return Grid{Width: width, Height: height, Data: data}, nil
}

// GridFromRows copies a rectangular slice of rows.
func GridFromRows(rows [][]float64) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, nil
	}

	w := len(rows[0])
	data := make([]float64, 0, w*len(rows))
	for i, r := range rows {
		if len(r) != w {
			return Grid{}, fmt.Errorf("%w: row %d has %d values, want %d", ErrGridShape, i, len(r), w)
		}
		data = append(data, r...)
	}
	return Grid{Width: w, Height: len(rows), Data: data}, nil
}

func (g Grid) At(x, y int) float64 {
	return g.Data[y*g.Width+x]
}

func (g Grid) Set(x, y int, v float64) {
	g.Data[y*g.Width+x] = v
}
