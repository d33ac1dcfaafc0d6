// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/depthaudio/mapper"
	"github.com/ik5/depthaudio/samples"
	"github.com/ik5/depthaudio/zones"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "depthaudio.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault_Valid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	set, err := cfg.ZoneSet()
	if err != nil {
		t.Fatalf("ZoneSet() error = %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("default zones = %d, want 3", set.Len())
	}
	if z, _ := set.Get("close"); z.File != filepath.Join("sounds", "close.wav") {
		t.Errorf("close zone file = %q, want sounds/close.wav", z.File)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[log]
level = "debug"

[audio]
mode = "tones"
spatial = true
sample_rate = 48000
interpolation = "cubic"
sample_dir = "ambience"

[mapper]
max_depth = 10
depth_scale = 5
interval_ms = 50

[[zone]]
id = "quiet"
min_closeness = 0
max_closeness = 0.5
file = "quiet.ogg"

[[zone]]
id = "loud"
min_closeness = 0.5
max_closeness = 1
file = "/abs/loud.wav"
base_volume = 0.7
loop = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audio.Mode != ModeTones || !cfg.Audio.Spatial || cfg.Audio.SampleRate != 48000 {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	if cfg.Audio.BufferFrames != 1024 {
		t.Errorf("buffer_frames = %d, want the 1024 default", cfg.Audio.BufferFrames)
	}
	if interp, _ := cfg.Audio.Interp(); interp != samples.Cubic {
		t.Errorf("Interp() = %v, want cubic", interp)
	}

	dir := filepath.Dir(path)
	if cfg.Audio.SampleDir != filepath.Join(dir, "ambience") {
		t.Errorf("sample_dir = %q, want it next to the config file", cfg.Audio.SampleDir)
	}
	if cfg.Mapper.BaseFreq != 440 || cfg.Mapper.MaxDepth != 10 || cfg.Mapper.Interval().Milliseconds() != 50 {
		t.Errorf("mapper = %+v", cfg.Mapper)
	}

	p := cfg.Mapper.Params(cfg.Audio.Spatial, false)
	want := mapper.Params{GridSize: 20, MinDepth: 0, MaxDepth: 10, Inverse: false}
	if p != want {
		t.Errorf("Params() = %+v, want %+v", p, want)
	}

	set, err := cfg.ZoneSet()
	if err != nil {
		t.Fatalf("ZoneSet() error = %v", err)
	}
	quiet, _ := set.Get("quiet")
	if quiet.File != filepath.Join(dir, "ambience", "quiet.ogg") || quiet.BaseVolume != 1 || !quiet.Loop {
		t.Errorf("quiet = %+v", quiet)
	}
	loud, _ := set.Get("loud")
	if loud.File != "/abs/loud.wav" || loud.BaseVolume != 0.7 || loud.Loop {
		t.Errorf("loud = %+v", loud)
	}
}

func TestLoad_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		also error
	}{
		{name: "syntax", body: "[audio\nmode = 1"},
		{name: "unknown key", body: "[audio]\nvolume = 3"},
		{name: "mode", body: "[audio]\nmode = \"radio\""},
		{name: "sample rate", body: "[audio]\nsample_rate = 100"},
		{name: "interpolation", body: "[audio]\ninterpolation = \"sinc\""},
		{name: "log level", body: "[log]\nlevel = \"loud\""},
		{name: "depth range", body: "[mapper]\nmin_depth = 2\nmax_depth = 1", also: mapper.ErrInvalidParams},
		{name: "interval", body: "[mapper]\ninterval_ms = 0"},
		{name: "base freq", body: "[mapper]\nbase_freq = 0"},
		{
			name: "duplicate zone",
			body: "[[zone]]\nid = \"a\"\nmax_closeness = 1\nfile = \"a.wav\"\n[[zone]]\nid = \"a\"\nmax_closeness = 1\nfile = \"b.wav\"",
			also: zones.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
			if tt.also != nil && !errors.Is(err, tt.also) {
				t.Errorf("Load() error = %v, want it to wrap %v", err, tt.also)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestMapper_Params(t *testing.T) {
	t.Parallel()

	m := Default().Mapper
	if got := m.Params(false, true).GridSize; got != 10 {
		t.Errorf("stereo grid = %d, want 10", got)
	}
	if got := m.Params(true, true).GridSize; got != 20 {
		t.Errorf("spatial grid = %d, want 20", got)
	}
	m.GridSize = 4
	if got := m.Params(true, true).GridSize; got != 4 {
		t.Errorf("explicit grid = %d, want 4", got)
	}
	if tone := m.Tone(); tone != mapper.DefaultTone() {
		t.Errorf("Tone() = %+v, want the default", tone)
	}
}
