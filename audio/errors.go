// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrInvalidLayout  = errors.New("sample data is not aligned to channel count")
	ErrUnknownFormat  = errors.New("no decoder registered for format")
)
