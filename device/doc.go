// SPDX-License-Identifier: EPL-2.0

// Package device holds the audio output contracts and their backends.
//
// A [Stream] is a callback clock: the backend pulls interleaved float32
// frames from a [RenderFunc]. [Oto] drives the host sound card through
// ebitengine/oto and [Offline] is pulled by the caller, which lets the same
// mixers render to a file or to a test buffer.
//
// A [Spatial] owns positioned voices. [SoftSpatial] implements it in
// software on top of any stereo Stream, so 3D playback works wherever a
// plain stream does.
package device
