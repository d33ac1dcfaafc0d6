// SPDX-License-Identifier: EPL-2.0

// Package mixer keeps a pool of playing voices in step with the source
// descriptors produced for every depth frame.
//
// Each update derives a stable identity per source from its zone (or tone
// band) and a quantized position. A known identity has its gain and placement
// updated in place, so its playback cursor or oscillator phase carries on. A
// new identity gets a fresh voice, and identities that disappear are released.
// When more sources arrive than the voice cap allows, only the loudest are
// kept for that frame.
//
// [ZoneMixer] and [ToneMixer] render stereo into a [device.Stream] callback.
// [SpatialZoneMixer] and [SpatialToneMixer] drive voices of a
// [device.Spatial] backend instead and leave mixing to it.
//
// Rendering holds the pool lock only while accumulating. Decoding, sorting and
// voice allocation happen on the caller's goroutine outside it.
package mixer
