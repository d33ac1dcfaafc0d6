// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"

	"github.com/ik5/depthaudio/device"
)

// ErrInjected is returned by fakes configured to fail.
var ErrInjected = errors.New("injected failure")

// FlakyStream wraps a Stream and fails Start or Stop on request.
type FlakyStream struct {
	device.Stream
	FailStart bool
	FailStop  bool
}

func (f *FlakyStream) Start(render device.RenderFunc) error {
	if f.FailStart {
		return errors.Join(device.ErrDevice, ErrInjected)
	}
	return f.Stream.Start(render)
}

func (f *FlakyStream) Stop() error {
	if f.FailStop {
		return errors.Join(device.ErrDevice, ErrInjected)
	}
	return f.Stream.Stop()
}

// FakeSpatial records every voice it hands out without producing sound.
type FakeSpatial struct {
	Rate      int
	FailVoice bool // NewVoice fails when set

	mu      sync.Mutex
	started bool
	voices  []*FakeVoice
}

var _ device.Spatial = (*FakeSpatial)(nil)

func NewFakeSpatial(sampleRate int) *FakeSpatial {
	return &FakeSpatial{Rate: sampleRate}
}

func (f *FakeSpatial) SampleRate() int { return f.Rate }

func (f *FakeSpatial) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.started = true
	return nil
}

func (f *FakeSpatial) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.started = false
	return nil
}

func (f *FakeSpatial) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.started
}

func (f *FakeSpatial) NewVoice(pcm []float32, loop bool) (device.Voice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailVoice {
		return nil, errors.Join(device.ErrDevice, ErrInjected)
	}
	v := &FakeVoice{PCM: pcm, Loop: loop, Gain: 1, Pitch: 1}
	f.voices = append(f.voices, v)
	return v, nil
}

// Voices returns every voice ever allocated, closed ones included.
func (f *FakeSpatial) Voices() []*FakeVoice {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*FakeVoice(nil), f.voices...)
}

// Open returns the voices not yet closed.
func (f *FakeSpatial) Open() []*FakeVoice {
	f.mu.Lock()
	defer f.mu.Unlock()

	var open []*FakeVoice
	for _, v := range f.voices {
		if !v.IsClosed() {
			open = append(open, v)
		}
	}
	return open
}

// FakeVoice keeps the last value of every setter.
type FakeVoice struct {
	PCM  []float32
	Loop bool

	mu       sync.Mutex
	X, Y, Z  float64
	Gain     float64
	Pitch    float64
	Playing  bool
	Closed   bool
	Closings int
}

func (v *FakeVoice) SetPosition(x, y, z float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.X, v.Y, v.Z = x, y, z
}

func (v *FakeVoice) SetGain(gain float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Gain = gain
}

func (v *FakeVoice) SetPitch(pitch float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Pitch = pitch
}

func (v *FakeVoice) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Playing = true
}

func (v *FakeVoice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Playing = false
}

func (v *FakeVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Closings++
	if v.Closed {
		return device.ErrVoiceClosed
	}
	v.Closed = true
	v.Playing = false
	return nil
}

func (v *FakeVoice) IsClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.Closed
}

// Snapshot returns position, gain and pitch under the voice lock.
func (v *FakeVoice) Snapshot() (x, y, z, gain, pitch float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.X, v.Y, v.Z, v.Gain, v.Pitch
}
