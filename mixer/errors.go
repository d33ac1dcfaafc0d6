// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"

	"github.com/ik5/depthaudio/device"
)

var (
	// ErrLayout reports a stream or sample rate a mixer cannot render into.
	ErrLayout  = errors.New("incompatible output layout")
	ErrNoZones = errors.New("no zone configuration")
)

// deviceErr makes sure a backend failure always matches device.ErrDevice.
func deviceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, device.ErrDevice) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, device.ErrDevice, err)
}
