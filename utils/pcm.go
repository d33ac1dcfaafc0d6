// SPDX-License-Identifier: EPL-2.0

package utils

// PCMScale returns the divisor that maps signed integer PCM of bitDepth to [-1, 1).
// Zero is returned for depths that are not 8, 16, 24 or 32.
func PCMScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	}
	return 0
}
