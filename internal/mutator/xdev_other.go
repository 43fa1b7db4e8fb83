//go:build !unix

package mutator

import (
	"errors"
	"syscall"
)

// errNotSameDevice is ERROR_NOT_SAME_DEVICE on Windows.
const errNotSameDevice = syscall.Errno(17)

func isCrossDevice(err error) bool {
	return errors.Is(err, errNotSameDevice)
}
