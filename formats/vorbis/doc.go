// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// Output keeps the stream's channel layout and rate, interleaved as float32.
// Reads always return whole frames.
package vorbis
