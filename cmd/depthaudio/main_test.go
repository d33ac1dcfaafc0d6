// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/depthaudio/audio"
	"github.com/ik5/depthaudio/config"
	"github.com/ik5/depthaudio/formats/wav"
	"github.com/ik5/depthaudio/internal/audiotest"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	o, err := parseFlags([]string{"-mode", "tones", "-spatial", "-render", "out.wav", "-duration", "2s"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if o.mode != "tones" || !o.spatial || o.render != "out.wav" || o.duration != 2*time.Second {
		t.Errorf("options = %+v", o)
	}
	if o.width != 160 || o.height != 120 {
		t.Errorf("frame = %dx%d, want 160x120", o.width, o.height)
	}

	if _, err := parseFlags([]string{"-bogus"}); err == nil {
		t.Error("parseFlags(-bogus) succeeded")
	}
	if _, err := parseFlags([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("parseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[audio]\nsample_rate = 22050\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, used, err := loadConfig(options{configPath: path, mode: "tones", spatial: true, level: "debug"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if used != path {
		t.Errorf("config path = %q, want %q", used, path)
	}
	if cfg.Audio.SampleRate != 22050 || cfg.Audio.Mode != config.ModeTones || !cfg.Audio.Spatial || cfg.Log.Level != "debug" {
		t.Errorf("config = %+v", cfg)
	}

	if _, _, err := loadConfig(options{configPath: path, mode: "noise"}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("loadConfig(bad mode) error = %v, want ErrInvalidConfig", err)
	}
}

func decodeRender(t *testing.T, path string) (audio.Source, []float32) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read render: %v", err)
	}
	src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode render: %v", err)
	}
	pcm, err := audio.ReadAll(src, 0)
	if err != nil {
		t.Fatalf("read render samples: %v", err)
	}
	return src, pcm
}

func audible(pcm []float32) bool {
	for _, v := range pcm {
		if v != 0 {
			return true
		}
	}
	return false
}

func TestRun_RenderTones(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "depthaudio.toml")
	if err := os.WriteFile(cfgPath, []byte("[log]\nlevel = \"error\"\n[audio]\nmode = \"tones\"\nsample_rate = 8000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, spatial := range []bool{false, true} {
		out := filepath.Join(dir, "tones.wav")
		if spatial {
			out = filepath.Join(dir, "tones3d.wav")
		}
		args := []string{"-config", cfgPath, "-render", out, "-duration", "500ms", "-width", "40", "-height", "30"}
		if spatial {
			args = append(args, "-spatial")
		}

		if err := run(args); err != nil {
			t.Fatalf("run(spatial=%v) error = %v", spatial, err)
		}

		src, pcm := decodeRender(t, out)
		if src.SampleRate() != 8000 || src.Channels() != 2 {
			t.Errorf("render layout = %d Hz x%d, want 8000 Hz x2", src.SampleRate(), src.Channels())
		}
		// five 100ms frames of 800 stereo samples
		if len(pcm) != 5*800*2 {
			t.Errorf("render holds %d samples, want %d", len(pcm), 5*800*2)
		}
		if !audible(pcm) {
			t.Errorf("render (spatial=%v) is silent", spatial)
		}
	}
}

func TestRun_RenderZones(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sounds := filepath.Join(dir, "sounds")
	if err := os.MkdirAll(sounds, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"far.wav", "medium.wav", "close.wav"} {
		if err := os.WriteFile(filepath.Join(sounds, name), audiotest.Tone16(8000, 400, 0.3), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath := filepath.Join(dir, "depthaudio.toml")
	body := "[log]\nlevel = \"error\"\n[audio]\nsample_rate = 8000\nsample_dir = \"sounds\"\n[mapper]\ninterval_ms = 50\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "zones.wav")
	if err := run([]string{"-config", cfgPath, "-render", out, "-duration", "200ms", "-width", "40", "-height", "30"}); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	_, pcm := decodeRender(t, out)
	if len(pcm) != 4*400*2 {
		t.Errorf("render holds %d samples, want %d", len(pcm), 4*400*2)
	}
	if !audible(pcm) {
		t.Error("zone render is silent")
	}
}

func TestRun_NoSamples(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "depthaudio.toml")
	if err := os.WriteFile(cfgPath, []byte("[log]\nlevel = \"error\"\n[audio]\nsample_dir = \"missing\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run([]string{"-config", cfgPath, "-render", filepath.Join(dir, "x.wav")})
	if err == nil {
		t.Fatal("run() succeeded without any zone samples")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "x.wav")); statErr == nil {
		t.Error("render file written despite the failure")
	}
}
