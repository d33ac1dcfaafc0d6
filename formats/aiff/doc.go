// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes Audio Interchange File Format files using
// github.com/go-audio/aiff.
//
// Signed integer PCM at 8, 16, 24 and 32 bits is supported with any channel
// count. Samples are returned interleaved as float32 in [-1, 1).
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not FORM/AIFF
//	}
//
// The go-audio decoder seeks between chunks, so readers that are not
// io.ReadSeeker are buffered in memory first.
package aiff
