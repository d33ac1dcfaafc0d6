// SPDX-License-Identifier: EPL-2.0

package depth

import (
	"context"
	"errors"

	"github.com/ik5/depthaudio/mapper"
)

var ErrExhausted = errors.New("depth source exhausted")

// Provider yields depth frames. Inverse reports whether larger values are
// nearer, which decides how the mapper picks each cell's closest pixel.
type Provider interface {
	Depth(ctx context.Context) (mapper.Grid, error)
	Inverse() bool
}

// Static returns the same frame on every call.
type Static struct {
	Grid         mapper.Grid
	InverseDepth bool
}

func (s Static) Depth(ctx context.Context) (mapper.Grid, error) {
	if err := ctx.Err(); err != nil {
		return mapper.Grid{}, err
	}
	return s.Grid, nil
}

func (s Static) Inverse() bool { return s.InverseDepth }

// Sequence plays a fixed list of frames once, then reports ErrExhausted.
type Sequence struct {
	frames  []mapper.Grid
	inverse bool
	next    int
}

func NewSequence(inverse bool, frames ...mapper.Grid) *Sequence {
	return &Sequence{frames: frames, inverse: inverse}
}

func (s *Sequence) Depth(ctx context.Context) (mapper.Grid, error) {
	if err := ctx.Err(); err != nil {
		return mapper.Grid{}, err
	}
	if s.next >= len(s.frames) {
		return mapper.Grid{}, ErrExhausted
	}
	g := s.frames[s.next]
	s.next++
	return g, nil
}

func (s *Sequence) Inverse() bool { return s.inverse }
