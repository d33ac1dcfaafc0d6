// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the application logger. Console output is human
// readable at the configured level. When File is set, every record from
// debug up is also written as JSON to a rotating log file. The returned
// cleanup closes that file.
func NewLogger(l Log, console io.Writer) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("%w: log level %q: %w", ErrInvalidConfig, l.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	cw := zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly}
	consoleOut := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: cw},
		Level:  level,
	}

	if l.File == "" {
		log := zerolog.New(cw).Level(level).With().Timestamp().Logger()
		return log, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    max(l.MaxSizeMB, 1),
		MaxBackups: l.MaxBackups,
		LocalTime:  true,
	}

	out := zerolog.MultiLevelWriter(consoleOut, lj)
	log := zerolog.New(out).Level(min(level, zerolog.DebugLevel)).With().Timestamp().Logger()

	cleanup := func() {
		if err := lj.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close log file")
		}
	}
	return log, cleanup, nil
}
