// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/depthaudio/internal/audiotest"
	"github.com/ik5/depthaudio/samples"
	"github.com/ik5/depthaudio/zones"
	"github.com/rs/zerolog"
)

const testRate = 8000

// testZones writes constant-level samples for "near" (full volume, level
// 0.5) and "far" (half volume, level 0.5). "gone" points at no file.
func testZones(t testing.TB) (*samples.Manager, *zones.Config) {
	t.Helper()

	dir := t.TempDir()
	for _, name := range []string{"near.wav", "far.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), audiotest.Tone16(testRate, 64, 0.5), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := zones.New(
		zones.Zone{ID: "far", MinCloseness: 0, MaxCloseness: 0.5, File: filepath.Join(dir, "far.wav"), BaseVolume: 0.5, Loop: true},
		zones.Zone{ID: "near", MinCloseness: 0.5, MaxCloseness: 1, File: filepath.Join(dir, "near.wav"), BaseVolume: 1, Loop: true},
		zones.Zone{ID: "gone", MinCloseness: 0.2, MaxCloseness: 0.3, File: filepath.Join(dir, "gone.wav"), BaseVolume: 1, Loop: true},
	)
	if err != nil {
		t.Fatalf("zones.New() error = %v", err)
	}

	mgr, err := samples.NewManager(testRate, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	// "gone" is expected to fail
	_ = mgr.LoadZones(cfg)
	return mgr, cfg
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}
