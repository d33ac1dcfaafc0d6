// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math/bits"
)

// AIFF builds an in-memory big-endian AIFF file from signed interleaved samples.
func AIFF(sampleRate, channels, bitDepth int, samples []int) []byte {
	width := bitDepth / 8
	dataSize := len(samples) * width
	be := binary.BigEndian

	comm := new(bytes.Buffer)
	_ = binary.Write(comm, be, uint16(channels))
	_ = binary.Write(comm, be, uint32(len(samples)/max(channels, 1)))
	_ = binary.Write(comm, be, uint16(bitDepth))
	comm.Write(extended(uint64(sampleRate)))

	buf := new(bytes.Buffer)
	buf.WriteString("FORM")
	_ = binary.Write(buf, be, uint32(4+8+comm.Len()+8+8+dataSize))
	buf.WriteString("AIFF")

	buf.WriteString("COMM")
	_ = binary.Write(buf, be, uint32(comm.Len()))
	buf.Write(comm.Bytes())

	buf.WriteString("SSND")
	_ = binary.Write(buf, be, uint32(8+dataSize))
	_ = binary.Write(buf, be, uint32(0)) // offset
	_ = binary.Write(buf, be, uint32(0)) // block size

	for _, s := range samples {
		switch width {
		case 1:
			buf.WriteByte(byte(int8(s)))
		case 2:
			_ = binary.Write(buf, be, int16(s))
		case 3:
			buf.Write([]byte{byte(s >> 16), byte(s >> 8), byte(s)})
		case 4:
			_ = binary.Write(buf, be, int32(s))
		}
	}

	return buf.Bytes()
}

// extended encodes a positive integer as an 80-bit IEEE 754 extended float.
func extended(v uint64) []byte {
	out := make([]byte, 10)
	if v == 0 {
		return out
	}

	exp := 63 - bits.LeadingZeros64(v)
	binary.BigEndian.PutUint16(out, uint16(16383+exp))
	binary.BigEndian.PutUint64(out[2:], v<<(63-exp))
	return out
}
