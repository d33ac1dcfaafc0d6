// SPDX-License-Identifier: EPL-2.0

// Package mapper converts depth frames into sound source descriptors.
//
// A Grid is split into GridSize² cells. Each cell is represented by its
// nearest pixel (the maximum for inverse depth, the minimum for metric depth),
// normalized to a closeness in [0, 1] where 1 is nearest. Out-of-range or
// fainter-than-MinCloseness cells are dropped. Walk implements this once and
// the four mappers only decide what a surviving cell becomes:
//
//	FrequencyMapper    azimuth, amplitude, frequency
//	Frequency3DMapper  x, y, z, gain, frequency
//	ZoneMapper         azimuth, amplitude, closeness, zone
//	Zone3DMapper       x, y, z, amplitude, closeness, zone
//
// Output is row-major and mapping is pure, so a mapper can be shared between
// goroutines. No voice cap is applied here; that belongs to the mixer.
package mapper
