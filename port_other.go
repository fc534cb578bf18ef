//go:build !linux && !windows

package serial

import "errors"

// PortKey is a device path
type PortKey string

func (k PortKey) String() string { return string(k) }

// ParseKey converts user input into a PortKey
func ParseKey(s string) (PortKey, error) {
	if s == "" {
		return "", ErrInvalidKey
	}
	return PortKey(s), nil
}

func devicePath(key PortKey) string {
	return string(key)
}

func supportedBaudRate(rate uint32) bool {
	return rate > 0
}

func listPorts() ([]SerialID, error) {
	return nil, ErrUnsupportedPlatform
}

func openPort(key PortKey, config Config) (Port, error) {
	return nil, &OpError{Op: "open", Key: key, Err: ErrUnsupportedPlatform}
}

func errnoIs(err error, target error) bool {
	return errors.Is(err, target)
}

// WatchDir returns the directory whose changes signal hot-plug events, or
// "" when the platform has none.
func WatchDir() string {
	return ""
}
