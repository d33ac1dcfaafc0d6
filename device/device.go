// SPDX-License-Identifier: EPL-2.0

package device

// RenderFunc fills out with interleaved float32 frames. It runs on the audio
// clock and must not block.
type RenderFunc func(out []float32)

// Stream is a callback-driven output. Start registers the render function and
// begins pulling; Stop must be safe while a callback is in flight.
type Stream interface {
	Start(render RenderFunc) error
	Stop() error
	SampleRate() int
	Channels() int
}

// Voice is one positioned, independently controlled playback of a buffer.
// The listener sits at the origin facing -Z.
type Voice interface {
	SetPosition(x, y, z float64)
	SetGain(gain float64)
	SetPitch(pitch float64)
	Play()
	Stop()
	Close() error
}

// Spatial is a 3D backend that owns its voices' mixing.
type Spatial interface {
	Start() error
	Stop() error
	// NewVoice copies nothing: pcm is mono at SampleRate and must stay unmodified.
	NewVoice(pcm []float32, loop bool) (Voice, error)
	SampleRate() int
}
