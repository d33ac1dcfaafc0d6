// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a normalized sample to 16-bit PCM.
// Values outside [-1, 1] are clamped first.
func Float32ToInt16(x float32) int16 {
	if x >= 1 {
		return 32767
	}
	if x <= -1 {
		return -32768
	}

	if x < 0 {
		return int16(x * 32768.0)
	}
	return int16(x * 32767.0)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 for the 16-bit range.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}
