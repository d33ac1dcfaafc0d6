// SPDX-License-Identifier: EPL-2.0

package mapper

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ik5/depthaudio/zones"
)

var (
	_ Mapper[Source]       = (*FrequencyMapper)(nil)
	_ Mapper[Source3D]     = (*Frequency3DMapper)(nil)
	_ Mapper[ZoneSource]   = (*ZoneMapper)(nil)
	_ Mapper[ZoneSource3D] = (*Zone3DMapper)(nil)
)

func scenario(t *testing.T) Grid {
	t.Helper()
	return mustRows(t, [][]float64{{0.0, 0.3}, {0.6, 0.9}})
}

func TestFrequencyMapper_Scenario(t *testing.T) {
	t.Parallel()

	m, err := NewFrequencyMapper(Params{GridSize: 2, MinDepth: 0, MaxDepth: 1}, DefaultTone())
	if err != nil {
		t.Fatalf("NewFrequencyMapper() error = %v", err)
	}

	got := m.Map(scenario(t))
	want := []Source{
		{Azimuth: -0.5, Amplitude: 1.0, Frequency: 440},
		{Azimuth: 0.5, Amplitude: 0.7, Frequency: 704},
		{Azimuth: -0.5, Amplitude: 0.4, Frequency: 968},
		{Azimuth: 0.5, Amplitude: 0.1, Frequency: 1232},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d sources, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if !near(g.Azimuth, w.Azimuth) || !near(g.Amplitude, w.Amplitude) || !near(g.Frequency, w.Frequency) {
			t.Errorf("source %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestFrequencyMapper_NarrowRange(t *testing.T) {
	t.Parallel()

	m, _ := NewFrequencyMapper(Params{GridSize: 2, MinDepth: 0.1, MaxDepth: 0.8}, DefaultTone())
	got := m.Map(scenario(t))

	if len(got) != 2 {
		t.Fatalf("got %d sources, want 2", len(got))
	}
	if !near(got[0].Amplitude, 0.5/0.7) || !near(got[1].Amplitude, 0.2/0.7) {
		t.Errorf("amplitudes = %v, %v, want ~0.714, ~0.286", got[0].Amplitude, got[1].Amplitude)
	}
}

func TestFrequencyMapper_Pure(t *testing.T) {
	t.Parallel()

	g, _ := NewGrid(40, 30, make([]float64, 1200))
	for i := range g.Data {
		g.Data[i] = float64(i%97) / 96
	}

	m, _ := NewFrequencyMapper(DefaultParams(), DefaultTone())
	a, b := m.Map(g), m.Map(g)

	if !reflect.DeepEqual(a, b) {
		t.Error("Map() is not deterministic")
	}
	if len(a) > 100 {
		t.Errorf("got %d sources, want at most grid² = 100", len(a))
	}
	if m.Params() != DefaultParams() {
		t.Errorf("Params() = %+v", m.Params())
	}
}

func TestFrequency3DMapper(t *testing.T) {
	t.Parallel()

	m, err := NewFrequency3DMapper(Params{GridSize: 2, MaxDepth: 1}, DefaultTone(), 3)
	if err != nil {
		t.Fatalf("NewFrequency3DMapper() error = %v", err)
	}

	got := m.Map(scenario(t))
	if len(got) != 4 {
		t.Fatalf("got %d sources, want 4", len(got))
	}

	// 0.6 metric sits at closeness 0.4, bottom-left
	s := got[2]
	if !near(s.X, -0.5) || !near(s.Y, -0.5) || !near(s.Z, -1-0.6*3) || !near(s.Gain, 0.4) || !near(s.Frequency, 968) {
		t.Errorf("source 2 = %+v", s)
	}
	if !near(got[0].Y, 0.5) || got[0].Z != -1 {
		t.Errorf("source 0 = %+v, want top row at z=-1", got[0])
	}
}

func testZones(t *testing.T) *zones.Config {
	t.Helper()

	cfg, err := zones.New(
		zones.Zone{ID: "far", MinCloseness: 0, MaxCloseness: 0.33, BaseVolume: 1},
		zones.Zone{ID: "medium", MinCloseness: 0.34, MaxCloseness: 0.66, BaseVolume: 1},
		zones.Zone{ID: "close", MinCloseness: 0.67, MaxCloseness: 1, BaseVolume: 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestZoneMapper(t *testing.T) {
	t.Parallel()

	m, err := NewZoneMapper(Params{GridSize: 2, MaxDepth: 1}, testZones(t))
	if err != nil {
		t.Fatalf("NewZoneMapper() error = %v", err)
	}

	got := m.Map(scenario(t))
	if len(got) != 4 {
		t.Fatalf("got %d sources, want 4: %+v", len(got), got)
	}

	wantIDs := []string{"close", "close", "medium", "far"}
	wantCloseness := []float64{1.0, 0.7, 0.4, 0.1}
	for i, s := range got {
		if s.ZoneID != wantIDs[i] || !near(s.Closeness, wantCloseness[i]) {
			t.Errorf("source %d = %+v, want %s at %v", i, s, wantIDs[i], wantCloseness[i])
		}
	}

	for i, s := range got {
		if !near(s.Amplitude, wantCloseness[i]) {
			t.Errorf("source %d amplitude = %v, want %v without fade", i, s.Amplitude, wantCloseness[i])
		}
	}
}

func TestZoneMapper_FadeBakedIntoAmplitude(t *testing.T) {
	t.Parallel()

	cfg, _ := zones.New(zones.Zone{ID: "tri", MinCloseness: 0, MaxCloseness: 1, BaseVolume: 1, FadeDistance: 1})
	m, _ := NewZoneMapper(Params{GridSize: 3, MaxDepth: 1, Inverse: true}, cfg)

	got := m.Map(mustRows(t, [][]float64{{0.75, 1.0, 0.5}}))
	if len(got) != 2 {
		t.Fatalf("got %+v, want the zone edge at 1.0 dropped", got)
	}
	if got[0].Amplitude != 0.375 || got[0].Closeness != 0.75 {
		t.Errorf("source 0 = %+v, want amplitude 0.75×0.5", got[0])
	}
	if got[1].Amplitude != 0.5 || !near(got[1].Azimuth, 2.0/3) {
		t.Errorf("source 1 = %+v, want centre at full intensity", got[1])
	}
}

func TestZoneMapper_Gap(t *testing.T) {
	t.Parallel()

	m, _ := NewZoneMapper(Params{GridSize: 1, MaxDepth: 1, Inverse: true}, testZones(t))
	if got := m.Map(mustRows(t, [][]float64{{0.335}})); len(got) != 0 {
		t.Errorf("gap closeness produced %+v", got)
	}
}

func TestZone3DMapper(t *testing.T) {
	t.Parallel()

	m, err := NewZone3DMapper(Params{GridSize: 2, MaxDepth: 1}, testZones(t), 1)
	if err != nil {
		t.Fatalf("NewZone3DMapper() error = %v", err)
	}

	got := m.Map(scenario(t))
	if len(got) != 4 {
		t.Fatalf("got %d sources, want 4", len(got))
	}

	s := got[2]
	if s.ZoneID != "medium" || !near(s.X, -0.5) || !near(s.Y, -0.5) || !near(s.Z, -1.6) || !near(s.Amplitude, 0.4) {
		t.Errorf("source 2 = %+v", s)
	}
}

func TestConstructors_Reject(t *testing.T) {
	t.Parallel()

	bad := Params{GridSize: 0, MaxDepth: 1}
	good := DefaultParams()
	cfg := testZones(t)

	errs := map[string]error{}
	_, errs["frequency params"] = NewFrequencyMapper(bad, DefaultTone())
	_, errs["frequency tone"] = NewFrequencyMapper(good, Tone{BaseFreq: 0, FreqSpan: 1})
	_, errs["3d params"] = NewFrequency3DMapper(bad, DefaultTone(), 1)
	_, errs["3d tone"] = NewFrequency3DMapper(good, Tone{BaseFreq: 440, FreqSpan: -1}, 1)
	_, errs["3d scale"] = NewFrequency3DMapper(good, DefaultTone(), -1)
	_, errs["zone params"] = NewZoneMapper(bad, cfg)
	_, errs["zone nil"] = NewZoneMapper(good, nil)
	_, errs["zone3d params"] = NewZone3DMapper(bad, cfg, 1)
	_, errs["zone3d nil"] = NewZone3DMapper(good, nil, 1)
	_, errs["zone3d scale"] = NewZone3DMapper(good, cfg, -2)

	for name, err := range errs {
		if !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%s: error = %v, want ErrInvalidParams", name, err)
		}
	}
}

func BenchmarkFrequencyMapper_Map(b *testing.B) {
	g, _ := NewGrid(640, 480, make([]float64, 640*480))
	for i := range g.Data {
		g.Data[i] = float64(i%1000) / 1000
	}
	m, _ := NewFrequencyMapper(Default3DParams(), DefaultTone())

	b.ReportAllocs()

	for b.Loop() {
		_ = m.Map(g)
	}
}
