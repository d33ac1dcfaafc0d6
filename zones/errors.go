// SPDX-License-Identifier: EPL-2.0

package zones

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the root of every zone configuration failure.
var ErrConfiguration = errors.New("zone configuration error")

var (
	ErrDuplicateZone = fmt.Errorf("%w: duplicate zone id", ErrConfiguration)
	ErrInvalidZone   = fmt.Errorf("%w: invalid zone", ErrConfiguration)
)
