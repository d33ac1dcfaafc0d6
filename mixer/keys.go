// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"math"
)

// Identity buckets. A source that drifts inside one bucket between frames
// keeps its voice.
const (
	azimuthSteps = 10 // 0.1
	lateralSteps = 5  // 0.2 on x and y
	depthSteps   = 2  // 0.5 on z
	toneBucketHz = 25
)

func quantize(v, steps float64) int {
	return int(math.Round(v * steps))
}

func zoneKey(zoneID string, azimuth float64) string {
	return fmt.Sprintf("%s_%+03d", zoneID, quantize(azimuth, azimuthSteps))
}

func zoneKey3D(zoneID string, x, y, z float64) string {
	return fmt.Sprintf("%s_%+03d_%+03d_%+03d", zoneID,
		quantize(x, lateralSteps), quantize(y, lateralSteps), quantize(z, depthSteps))
}

func toneBand(freq float64) string {
	return fmt.Sprintf("tone%d", quantize(freq, 1.0/toneBucketHz))
}

func toneKey(freq, azimuth float64) string {
	return zoneKey(toneBand(freq), azimuth)
}

func toneKey3D(freq, x, y, z float64) string {
	return zoneKey3D(toneBand(freq), x, y, z)
}
