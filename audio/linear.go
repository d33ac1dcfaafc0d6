// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/depthaudio/utils"

// ResampleLinear converts interleaved data from fromRate to toRate using linear interpolation.
//
// The output holds int(frames * toRate / fromRate) frames. The first and last output
// frames line up with the first and last input frames, so a looped sample keeps its
// boundaries. Data is returned unchanged when both rates match.
func ResampleLinear(data []float32, channels, fromRate, toRate int) ([]float32, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, ErrInvalidRate
	}
	if channels <= 0 || len(data)%channels != 0 {
		return nil, ErrInvalidLayout
	}
	if fromRate == toRate {
		return data, nil
	}

	oldFrames := len(data) / channels
	newFrames := int(float64(oldFrames) * float64(toRate) / float64(fromRate))
	out := make([]float32, newFrames*channels)
	if newFrames == 0 || oldFrames == 0 {
		return out, nil
	}

	// Output frame i sits at source position i*(oldFrames-1)/(newFrames-1)
	step := 0.0
	if newFrames > 1 {
		step = float64(oldFrames-1) / float64(newFrames-1)
	}

	for i := range newFrames {
		pos := float64(i) * step
		i0 := int(pos)
		if i0 >= oldFrames-1 {
			i0 = oldFrames - 1
		}
		i1 := i0 + 1
		if i1 >= oldFrames {
			i1 = oldFrames - 1
		}
		frac := float32(pos - float64(i0))

		for c := range channels {
			out[i*channels+c] = utils.Lerp(data[i0*channels+c], data[i1*channels+c], frac)
		}
	}

	return out, nil
}
