// SPDX-License-Identifier: EPL-2.0

// Package zones maps closeness values onto named ambient sound bands.
//
// A Zone covers a closed closeness interval and fades linearly toward its
// edges. Zones may overlap; Config.Primary picks the one that is loudest at a
// given closeness and Config.Active lists all of them, which is what a mixer
// needs for cross-fading. Closeness 1 is the nearest object.
//
// Zone sets are either built in code, taken from Default, or read from TOML:
//
//	[[zone]]
//	id = "ocean"
//	min_closeness = 0.0
//	max_closeness = 0.3
//	file = "ocean.wav"
//	base_volume = 0.8
//	fade_distance = 0.2
package zones
