// SPDX-License-Identifier: EPL-2.0

package samples

import "errors"

var (
	ErrNotFound = errors.New("sample file not found")
	ErrDecode   = errors.New("sample decode failed")
	ErrChannels = errors.New("sample channel count must be 1 or 2")
)
