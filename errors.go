package serial

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound      = errors.New("serial device not found")
	ErrPermissionDenied    = errors.New("permission denied accessing serial device")
	ErrDeviceInUse         = errors.New("serial device already in use")
	ErrInvalidBaudRate     = errors.New("invalid baud rate")
	ErrInvalidConfig       = errors.New("invalid serial configuration")
	ErrInvalidKey          = errors.New("invalid port key")
	ErrPortClosed          = errors.New("serial port is closed")
	ErrWriteTimeout        = errors.New("write operation timed out")
	ErrReadTimeout         = errors.New("read operation timed out")
	ErrUnsupportedPlatform = errors.New("serial ports are not supported on this platform")

	// USB-related errors
	ErrUSBInfoNotAvailable  = errors.New("USB device information not available")
	ErrUSBResetNotAvailable = errors.New("usbreset utility not available")
)

// OpError reports a failed OS call together with the port it was made for.
// Err is usually the platform errno, reachable through errors.As.
type OpError struct {
	Op  string
	Key PortKey
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("serial %s: failed to %s: %v", e.Key, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Is maps platform error codes onto the package sentinels, so
// errors.Is(err, ErrDeviceInUse) works on every backend.
func (e *OpError) Is(target error) bool {
	return errnoIs(e.Err, target)
}
