// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/depthaudio"
	"github.com/ik5/depthaudio/config"
	"github.com/ik5/depthaudio/depth"
	"github.com/ik5/depthaudio/device"
	"github.com/ik5/depthaudio/formats/wav"
	"github.com/ik5/depthaudio/mapper"
	"github.com/ik5/depthaudio/mixer"
	"github.com/ik5/depthaudio/samples"
	"github.com/ik5/depthaudio/utils"
)

// output is what every mixer offers the session.
type output[S any] interface {
	Start() error
	Stop() error
	Update(srcs []S)
}

// runner hides the source type chosen by the configuration.
type runner interface {
	start() error
	stop() error
	step(ctx context.Context) error
	run(ctx context.Context) error
}

type pipelineRunner[S any] struct {
	out      output[S]
	pipeline *depthaudio.Pipeline[S]
}

func (r pipelineRunner[S]) start() error { return r.out.Start() }
func (r pipelineRunner[S]) stop() error  { return r.out.Stop() }

func (r pipelineRunner[S]) step(ctx context.Context) error {
	_, err := r.pipeline.Step(ctx)
	return err
}

func (r pipelineRunner[S]) run(ctx context.Context) error { return r.pipeline.Run(ctx) }

func newRunner[S any](provider depth.Provider, m mapper.Mapper[S], out output[S], cfg *config.Config, log zerolog.Logger) runner {
	return pipelineRunner[S]{
		out:      out,
		pipeline: depthaudio.NewPipeline(provider, m, out, cfg.Mapper.Interval(), log),
	}
}

type session struct {
	cfg     *config.Config
	log     zerolog.Logger
	offline *device.Offline
	runner  runner
}

// newSession wires stream, mixer and mapper for the configured mode. An
// offline session renders through a caller-clocked stream.
func newSession(cfg *config.Config, provider depth.Provider, offline bool, log zerolog.Logger) (*session, error) {
	s := &session{cfg: cfg, log: log}
	rate := cfg.Audio.SampleRate

	var stream device.Stream
	if offline {
		s.offline = device.NewOffline(rate, 2)
		stream = s.offline
	} else {
		stream = device.NewOto(rate, 2, cfg.Audio.BufferFrames, log)
	}

	params := cfg.Mapper.Params(cfg.Audio.Spatial, provider.Inverse())
	mopts := []mixer.Option{mixer.WithMaxVoices(cfg.Audio.MaxVoices)}

	var spatial device.Spatial
	if cfg.Audio.Spatial {
		soft, err := device.NewSoftSpatial(stream, log)
		if err != nil {
			return nil, err
		}
		spatial = soft
	}

	var err error
	switch cfg.Audio.Mode {
	case config.ModeTones:
		s.runner, err = toneRunner(cfg, provider, params, stream, spatial, mopts, log)
	default:
		s.runner, err = zoneRunner(cfg, provider, params, stream, spatial, mopts, log)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func toneRunner(cfg *config.Config, provider depth.Provider, params mapper.Params, stream device.Stream,
	spatial device.Spatial, mopts []mixer.Option, log zerolog.Logger,
) (runner, error) {
	tone := cfg.Mapper.Tone()

	if spatial != nil {
		m, err := mapper.NewFrequency3DMapper(params, tone, cfg.Mapper.DepthScale)
		if err != nil {
			return nil, err
		}
		mix, err := mixer.NewSpatialToneMixer(spatial, tone.BaseFreq, log, mopts...)
		if err != nil {
			return nil, err
		}
		return newRunner[mapper.Source3D](provider, m, mix, cfg, log), nil
	}

	m, err := mapper.NewFrequencyMapper(params, tone)
	if err != nil {
		return nil, err
	}
	mix, err := mixer.NewToneMixer(stream, log, mopts...)
	if err != nil {
		return nil, err
	}
	return newRunner[mapper.Source](provider, m, mix, cfg, log), nil
}

func zoneRunner(cfg *config.Config, provider depth.Provider, params mapper.Params, stream device.Stream,
	spatial device.Spatial, mopts []mixer.Option, log zerolog.Logger,
) (runner, error) {
	zs, err := cfg.ZoneSet()
	if err != nil {
		return nil, err
	}

	interp, err := cfg.Audio.Interp()
	if err != nil {
		return nil, err
	}
	mgr, err := samples.NewManager(cfg.Audio.SampleRate, log, samples.WithInterpolation(interp))
	if err != nil {
		return nil, err
	}
	if err := mgr.LoadZones(zs); err != nil {
		if mgr.Len() == 0 {
			return nil, fmt.Errorf("no zone sample could be loaded: %w", err)
		}
		log.Warn().Int("loaded", mgr.Len()).Int("zones", zs.Len()).Msg("Some zones are silent")
	}

	if spatial != nil {
		m, err := mapper.NewZone3DMapper(params, zs, cfg.Mapper.DepthScale)
		if err != nil {
			return nil, err
		}
		mix, err := mixer.NewSpatialZoneMixer(spatial, mgr, zs, log, mopts...)
		if err != nil {
			return nil, err
		}
		return newRunner[mapper.ZoneSource3D](provider, m, mix, cfg, log), nil
	}

	m, err := mapper.NewZoneMapper(params, zs)
	if err != nil {
		return nil, err
	}
	mix, err := mixer.NewZoneMixer(stream, mgr, zs, log, mopts...)
	if err != nil {
		return nil, err
	}
	return newRunner[mapper.ZoneSource](provider, m, mix, cfg, log), nil
}

// play runs live until interrupted.
func (s *session) play(ctx context.Context) (err error) {
	if err := s.runner.start(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.runner.stop())
	}()

	s.log.Info().
		Str("mode", s.cfg.Audio.Mode).
		Bool("spatial", s.cfg.Audio.Spatial).
		Int("sample_rate", s.cfg.Audio.SampleRate).
		Msg("Playing, press Ctrl+C to stop")
	return s.runner.run(ctx)
}

// render steps the pipeline once per interval and pulls exactly one
// interval of audio after each frame, so the file is independent of wall
// time.
func (s *session) render(ctx context.Context, path string, duration time.Duration) (err error) {
	if s.offline == nil {
		return fmt.Errorf("session is not offline")
	}
	if err := s.runner.start(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.runner.stop())
	}()

	rate := s.cfg.Audio.SampleRate
	interval := s.cfg.Mapper.Interval()
	perFrame := max(int(int64(rate)*interval.Nanoseconds()/int64(time.Second)), 1)
	frames := max(int(duration/interval), 1)

	pcm := make([]int16, 0, frames*perFrame*2)
	for i := range frames {
		if err := ctx.Err(); err != nil {
			s.log.Warn().Int("frame", i).Msg("Render interrupted, writing what was rendered")
			break
		}
		if err := s.runner.step(ctx); err != nil {
			if errors.Is(err, depth.ErrExhausted) {
				break
			}
			s.log.Warn().Err(err).Int("frame", i).Msg("Depth frame failed, keeping previous sources")
		}
		for _, v := range s.offline.Pull(perFrame) {
			pcm = append(pcm, utils.Float32ToInt16(v))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := wav.WriteWAV16(f, rate, 2, pcm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	s.log.Info().
		Str("path", path).
		Dur("duration", time.Duration(len(pcm)/2)*time.Second/time.Duration(rate)).
		Msg("Render complete")
	return nil
}
