// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	// ErrDevice wraps every backend start, stop or voice allocation failure.
	ErrDevice = errors.New("audio device error")

	ErrAlreadyStarted = errors.New("device already started")
	ErrVoiceClosed    = errors.New("voice closed")
)
