// SPDX-License-Identifier: EPL-2.0

// Package config loads the depthaudio TOML file.
//
//	[log]
//	level = "info"
//	file = "depthaudio.log"   # optional rotating JSON log
//
//	[audio]
//	mode = "zones"            # or "tones"
//	spatial = false
//	sample_rate = 44100
//	sample_dir = "sounds"
//
//	[mapper]
//	grid_size = 10
//	interval_ms = 100
//
//	[[zone]]
//	id = "far"
//	min_closeness = 0.0
//	max_closeness = 0.3
//	file = "far.wav"
//
// Missing keys keep the values of [Default]; unknown keys are an error.
package config
