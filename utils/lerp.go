// SPDX-License-Identifier: EPL-2.0

package utils

// Lerp linearly interpolates between a and b.
// x is the fractional position (0 <= x <= 1).
func Lerp(a, b, x float32) float32 {
	return a + (b-a)*x
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClipBuffer clamps every sample of buf to [-1, 1] in place.
func ClipBuffer(buf []float32) {
	for i, s := range buf {
		if s > 1 {
			buf[i] = 1
		} else if s < -1 {
			buf[i] = -1
		}
	}
}
