// SPDX-License-Identifier: EPL-2.0

package depthaudio

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ik5/depthaudio/depth"
	"github.com/ik5/depthaudio/mapper"
	"github.com/rs/zerolog"
)

type recordingSink[S any] struct {
	mu      sync.Mutex
	updates [][]S
}

func (r *recordingSink[S]) Update(srcs []S) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates = append(r.updates, srcs)
}

func (r *recordingSink[S]) all() [][]S {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([][]S(nil), r.updates...)
}

// flaky fails the first n calls.
type flaky struct {
	depth.Static
	mu    sync.Mutex
	fails int
}

func (f *flaky) Depth(ctx context.Context) (mapper.Grid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fails > 0 {
		f.fails--
		return mapper.Grid{}, errors.New("camera busy")
	}
	return f.Static.Depth(ctx)
}

func scenarioGrid(t *testing.T) mapper.Grid {
	t.Helper()

	g, err := mapper.GridFromRows([][]float64{{0.0, 0.3}, {0.6, 0.9}})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func frequencyMapper(t *testing.T, inverse bool) *mapper.FrequencyMapper {
	t.Helper()

	m, err := mapper.NewFrequencyMapper(mapper.Params{GridSize: 2, MinDepth: 0, MaxDepth: 1, Inverse: inverse}, mapper.DefaultTone())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPipeline_Step(t *testing.T) {
	t.Parallel()

	sink := &recordingSink[mapper.Source]{}
	p := NewPipeline[mapper.Source](depth.Static{Grid: scenarioGrid(t)}, frequencyMapper(t, false), sink, 0, zerolog.Nop())

	srcs, err := p.Step(context.Background())
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	wantAmp := []float64{1, 0.7, 0.4, 0.1}
	wantFreq := []float64{440, 704, 968, 1232}
	wantAz := []float64{-0.5, 0.5, -0.5, 0.5}
	if len(srcs) != 4 {
		t.Fatalf("Step() = %d sources, want 4", len(srcs))
	}
	for i, s := range srcs {
		if math.Abs(s.Amplitude-wantAmp[i]) > 1e-9 || math.Abs(s.Frequency-wantFreq[i]) > 1e-6 || s.Azimuth != wantAz[i] {
			t.Errorf("source %d = %+v, want amp %v freq %v az %v", i, s, wantAmp[i], wantFreq[i], wantAz[i])
		}
	}

	if got := sink.all(); len(got) != 1 || len(got[0]) != 4 {
		t.Errorf("sink saw %d updates, want the 4 sources once", len(got))
	}
}

func TestPipeline_RunUntilExhausted(t *testing.T) {
	t.Parallel()

	g := scenarioGrid(t)
	sink := &recordingSink[mapper.Source]{}
	var seen []int
	p := NewPipeline[mapper.Source](depth.NewSequence(false, g, g, g), frequencyMapper(t, false), sink, time.Millisecond, zerolog.Nop(),
		WithObserver(func(seq int, srcs []mapper.Source) { seen = append(seen, seq) }))

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := sink.all()
	if len(got) != 4 {
		t.Fatalf("sink saw %d updates, want 3 frames and a final silence", len(got))
	}
	if got[3] != nil {
		t.Errorf("final update = %v, want nil", got[3])
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("observer saw %v, want [1 2 3]", seen)
	}
}

func TestPipeline_RunCanceled(t *testing.T) {
	t.Parallel()

	sink := &recordingSink[mapper.Source]{}
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPipeline[mapper.Source](depth.Static{Grid: scenarioGrid(t)}, frequencyMapper(t, false), sink, time.Millisecond, zerolog.Nop(),
		WithObserver(func(seq int, _ []mapper.Source) {
			if seq == 5 {
				cancel()
			}
		}))

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	got := sink.all()
	if len(got) < 6 || got[len(got)-1] != nil {
		t.Errorf("sink saw %d updates ending in %v, want at least 5 frames then nil", len(got), got[len(got)-1])
	}
}

func TestPipeline_SkipsFailedFrames(t *testing.T) {
	t.Parallel()

	sink := &recordingSink[mapper.Source]{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &flaky{Static: depth.Static{Grid: scenarioGrid(t)}, fails: 2}
	p := NewPipeline[mapper.Source](provider, frequencyMapper(t, false), sink, time.Millisecond, zerolog.Nop(),
		WithObserver(func(seq int, _ []mapper.Source) { cancel() }))

	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := sink.all(); len(got) != 2 || len(got[0]) != 4 {
		t.Errorf("sink saw %d updates, want one frame after the failures and a final silence", len(got))
	}
}

func TestPipeline_TooManyFailures(t *testing.T) {
	t.Parallel()

	provider := &flaky{fails: 100}
	p := NewPipeline[mapper.Source](provider, frequencyMapper(t, true), &recordingSink[mapper.Source]{}, time.Millisecond, zerolog.Nop(),
		WithMaxFailures[mapper.Source](3))

	err := p.Run(context.Background())
	if err == nil || provider.fails != 97 {
		t.Errorf("Run() error = %v after %d calls, want failure after 3", err, 100-provider.fails)
	}
}

func TestNewPipeline_DefaultInterval(t *testing.T) {
	t.Parallel()

	p := NewPipeline[mapper.Source](depth.Static{}, frequencyMapper(t, true), &recordingSink[mapper.Source]{}, -1, zerolog.Nop())
	if p.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", p.interval, DefaultInterval)
	}
}
