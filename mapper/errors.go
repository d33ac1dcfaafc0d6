// SPDX-License-Identifier: EPL-2.0

package mapper

import "errors"

var (
	ErrInvalidParams = errors.New("invalid mapper parameters")
	ErrGridShape     = errors.New("depth grid data does not match its dimensions")
)
