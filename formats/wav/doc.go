// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes RIFF/WAVE files.
//
// Decoding is done with github.com/go-audio/wav and accepts integer PCM at
// 8 (unsigned), 16, 24 and 32 bits with any channel count and sample rate.
// IEEE float WAV files are rejected with ErrUnsupportedEncoding.
//
//	source, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not RIFF/WAVE
//	}
//
// Samples come out interleaved as float32 in [-1, 1).
//
// WriteWAV16 writes interleaved 16-bit PCM with a canonical 44 byte header.
// It is used to render soundscapes to disk:
//
//	err := wav.WriteWAV16(out, 44100, 2, pcm)
package wav
