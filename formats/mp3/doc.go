// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III streams with github.com/hajimehoshi/go-mp3.
//
// The decoder always produces interleaved stereo float32 in [-1, 1) at the
// stream's native rate. Use audio.NewMonoMixer or the samples package to
// reshape it:
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if errors.Is(err, mp3.ErrNotMP3File) {
//	    // no MPEG frame sync found
//	}
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 44100))
package mp3
