// SPDX-License-Identifier: EPL-2.0

// Command depthaudio plays a synthetic depth scene as a spatial soundscape,
// live on the sound card or rendered offline to a stereo WAV file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/ik5/depthaudio/config"
	"github.com/ik5/depthaudio/depth"
)

type options struct {
	configPath string
	mode       string
	spatial    bool
	level      string
	render     string
	duration   time.Duration
	width      int
	height     int
}

func parseFlags(args []string) (options, error) {
	var o options
	flags := flag.NewFlagSet("depthaudio", flag.ContinueOnError)
	flags.StringVar(&o.configPath, "config", "", "configuration file (default: ./depthaudio.toml, then the XDG config dir)")
	flags.StringVar(&o.mode, "mode", "", `output mode override: "zones" or "tones"`)
	flags.BoolVar(&o.spatial, "spatial", false, "force 3D output through the software spatializer")
	flags.StringVar(&o.level, "log-level", "", "console log level override")
	flags.StringVar(&o.render, "render", "", "render offline to this WAV file instead of playing")
	flags.DurationVar(&o.duration, "duration", 10*time.Second, "length of an offline render")
	flags.IntVar(&o.width, "width", 160, "synthetic depth frame width")
	flags.IntVar(&o.height, "height", 120, "synthetic depth frame height")
	err := flags.Parse(args)
	return o, err
}

// findConfig returns the first existing file among the flag value,
// ./depthaudio.toml and the XDG location. An empty result means defaults.
func findConfig(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}

	candidates := []string{"depthaudio.toml"}
	if p, err := xdg.ConfigFile("depthaudio/depthaudio.toml"); err == nil {
		candidates = append(candidates, p)
	}

	for _, c := range candidates {
		_, err := os.Stat(c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("check config %s: %w", c, err)
		}
	}
	return "", nil
}

func loadConfig(o options) (*config.Config, string, error) {
	path, err := findConfig(o.configPath)
	if err != nil {
		return nil, "", err
	}

	var cfg *config.Config
	if path == "" {
		d := config.Default()
		cfg = &d
	} else if cfg, err = config.Load(path); err != nil {
		return nil, path, err
	}

	if o.mode != "" {
		cfg.Audio.Mode = o.mode
	}
	if o.spatial {
		cfg.Audio.Spatial = true
	}
	if o.level != "" {
		cfg.Log.Level = o.level
	}
	return cfg, path, cfg.Validate()
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, path, err := loadConfig(o)
	if err != nil {
		return err
	}

	log, cleanup, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	if path == "" {
		log.Info().Msg("No configuration file found, using defaults")
	} else {
		log.Info().Str("path", path).Msg("Loaded configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := depth.NewSynthetic(o.width, o.height, cfg.Mapper.Interval())
	s, err := newSession(cfg, provider, o.render != "", log)
	if err != nil {
		return err
	}

	if o.render != "" {
		return s.render(ctx, o.render, o.duration)
	}
	return s.play(ctx)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Error().Err(err).Msg("depthaudio failed")
		os.Exit(1)
	}
}
