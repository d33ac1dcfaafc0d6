// SPDX-License-Identifier: EPL-2.0

// Package samples loads zone audio into memory for real-time playback.
//
// A Manager decodes a file by extension through an audio.Registry, folds
// anything wider than stereo down to mono, converts it to the output rate and
// caches the resulting Sample under its zone ID. All work happens at load
// time; the render path only calls Sample.ReadFrames, which never allocates
// and never fails.
//
//	m, _ := samples.NewManager(44100, log)
//	if err := m.LoadZones(cfg); err != nil {
//	    log.Warn().Err(err).Msg("some zones will be silent")
//	}
package samples
