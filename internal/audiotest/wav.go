// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// WAVFormatFloat is the RIFF format tag for IEEE float data.
const WAVFormatFloat = 3

// WAV builds an in-memory integer PCM WAV file. samples holds raw interleaved
// values as they appear on disk: unsigned 0..255 for 8-bit, signed otherwise.
func WAV(sampleRate, channels, bitDepth int, samples []int) []byte {
	return WAVWithFormat(1, sampleRate, channels, bitDepth, samples)
}

// WAVWithFormat is WAV with an explicit format tag.
func WAVWithFormat(formatTag uint16, sampleRate, channels, bitDepth int, samples []int) []byte {
	width := bitDepth / 8
	dataSize := len(samples) * width

	buf := new(bytes.Buffer)
	le := binary.LittleEndian

	buf.WriteString("RIFF")
	_ = binary.Write(buf, le, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, le, uint32(16))
	_ = binary.Write(buf, le, formatTag)
	_ = binary.Write(buf, le, uint16(channels))
	_ = binary.Write(buf, le, uint32(sampleRate))
	_ = binary.Write(buf, le, uint32(sampleRate*channels*width))
	_ = binary.Write(buf, le, uint16(channels*width))
	_ = binary.Write(buf, le, uint16(bitDepth))

	buf.WriteString("data")
	_ = binary.Write(buf, le, uint32(dataSize))

	for _, s := range samples {
		switch width {
		case 1:
			buf.WriteByte(byte(s))
		case 2:
			_ = binary.Write(buf, le, int16(s))
		case 3:
			buf.Write([]byte{byte(s), byte(s >> 8), byte(s >> 16)})
		case 4:
			_ = binary.Write(buf, le, int32(s))
		}
	}

	return buf.Bytes()
}

// Tone16 returns a mono 16-bit WAV holding frames of a constant level in [-1, 1].
// Levels are scaled by 32768 so that 0.5 decodes exactly.
func Tone16(sampleRate, frames int, level float64) []byte {
	v := min(max(int(math.Round(level*32768)), -32768), 32767)
	samples := make([]int, frames)
	for i := range samples {
		samples[i] = v
	}
	return WAV(sampleRate, 1, 16, samples)
}
