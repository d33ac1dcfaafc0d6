// SPDX-License-Identifier: EPL-2.0

package depthaudio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/depthaudio/depth"
	"github.com/ik5/depthaudio/mapper"
	"github.com/rs/zerolog"
)

// DefaultInterval paces the producer at about 10 frames per second.
const DefaultInterval = 100 * time.Millisecond

// Sink receives the sources of every frame. Mixers satisfy it.
type Sink[S any] interface {
	Update(srcs []S)
}

// Pipeline pulls depth frames, maps them and feeds the sink on a fixed tick.
type Pipeline[S any] struct {
	provider depth.Provider
	mapper   mapper.Mapper[S]
	sink     Sink[S]
	interval time.Duration
	log      zerolog.Logger

	observe     func(seq int, srcs []S)
	maxFailures int
}

type PipelineOption[S any] func(*Pipeline[S])

// WithObserver is called after every delivered frame, for debug overlays.
func WithObserver[S any](fn func(seq int, srcs []S)) PipelineOption[S] {
	return func(p *Pipeline[S]) { p.observe = fn }
}

// WithMaxFailures ends Run after n consecutive provider errors; 0 never does.
func WithMaxFailures[S any](n int) PipelineOption[S] {
	return func(p *Pipeline[S]) { p.maxFailures = max(n, 0) }
}

func NewPipeline[S any](provider depth.Provider, m mapper.Mapper[S], sink Sink[S], interval time.Duration, log zerolog.Logger, opts ...PipelineOption[S]) *Pipeline[S] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Pipeline[S]{
		provider:    provider,
		mapper:      m,
		sink:        sink,
		interval:    interval,
		log:         log.With().Str("component", "pipeline").Logger(),
		maxFailures: 10,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Step runs one frame: depth, mapping, then delivery to the sink.
func (p *Pipeline[S]) Step(ctx context.Context) ([]S, error) {
	g, err := p.provider.Depth(ctx)
	if err != nil {
		return nil, err
	}
	srcs := p.mapper.Map(g)
	p.sink.Update(srcs)
	return srcs, nil
}

// Run steps until ctx is done or the provider is exhausted, then silences
// the sink. Provider errors skip the frame; too many in a row end the run.
func (p *Pipeline[S]) Run(ctx context.Context) error {
	log := p.log.With().Str("run", uuid.NewString()).Logger()
	log.Info().Dur("interval", p.interval).Msg("Pipeline started")

	defer p.sink.Update(nil)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var frames, failures int
	for {
		srcs, err := p.Step(ctx)
		switch {
		case err == nil:
			failures = 0
			frames++
			if p.observe != nil {
				p.observe(frames, srcs)
			}
			log.Trace().Int("frame", frames).Int("sources", len(srcs)).Msg("Frame delivered")

		case errors.Is(err, depth.ErrExhausted):
			log.Info().Int("frames", frames).Msg("Depth source exhausted")
			return nil

		case ctx.Err() != nil:
			log.Info().Int("frames", frames).Msg("Pipeline stopped")
			return nil

		default:
			failures++
			log.Warn().Err(err).Int("consecutive", failures).Msg("Depth frame failed, skipping")
			if p.maxFailures > 0 && failures >= p.maxFailures {
				return fmt.Errorf("depth provider failed %d times in a row: %w", failures, err)
			}
		}

		select {
		case <-ctx.Done():
			log.Info().Int("frames", frames).Msg("Pipeline stopped")
			return nil
		case <-ticker.C:
		}
	}
}
