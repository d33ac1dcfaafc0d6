// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives every decoder and mixer
// builds on.
//
// A Source yields interleaved float32 samples:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Resampler converts rate with cubic interpolation while streaming, and
// ResampleLinear does the same for a whole buffer with straight-line
// interpolation. MonoMixer averages channels down to one. MemorySource and
// ReadAll move between sources and plain slices.
//
// Decoders register with a Registry keyed by file extension:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	src, err := reg.Decode("wav", f)
package audio
