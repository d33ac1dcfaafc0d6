// SPDX-License-Identifier: EPL-2.0

// Package depthaudio turns depth maps into a live spatial soundscape.
//
// A depth frame is cut into a grid and each cell's nearest object becomes a
// sound source: a tone whose pitch follows distance, or an ambient sample
// chosen by closeness zone. Sources are placed by stereo pan or in 3D and
// mixed continuously, with stable voices that survive small movements
// between frames.
//
// # Packages
//
//   - mapper: depth grid to source descriptors
//   - zones: closeness bands and their fades
//   - samples: decoded, resampled zone samples
//   - mixer: voice pools rendering the sources
//   - device: output streams and the software 3D device
//   - depth: depth providers
//   - config: TOML configuration and logging
//   - formats: WAV, AIFF, MP3 and Ogg Vorbis decoders
//
// # Pipeline
//
// [Pipeline] wires a depth provider, a mapper and a mixer together and runs
// them on a ticker:
//
//	zs := zones.Default("sounds")
//	mgr, _ := samples.NewManager(44100, log)
//	_ = mgr.LoadZones(zs)
//
//	out := device.NewOto(44100, 2, 1024, log)
//	mix, _ := mixer.NewZoneMixer(out, mgr, zs, log)
//	_ = mix.Start()
//	defer mix.Stop()
//
//	src := depth.NewSynthetic(160, 120, 0)
//	params := mapper.DefaultParams()
//	params.Inverse = src.Inverse()
//	m, _ := mapper.NewZoneMapper(params, zs)
//
//	p := depthaudio.NewPipeline[mapper.ZoneSource](src, m, mix, depthaudio.DefaultInterval, log)
//	err := p.Run(ctx)
//
// The mapper is pure and runs on the pipeline goroutine. Only voice pool
// reconciliation and sample accumulation share a lock with the audio
// callback.
package depthaudio
