package serial

import (
	"io"
	"time"
)

// SerialID describes a port found by List.
type SerialID struct {
	Key     PortKey
	Comment string
}

// Port is an open, exclusively owned serial device.
//
// Read blocks until at least one byte arrives or the configured timeout
// expires. A timeout with nothing received returns 0 and ErrReadTimeout;
// an OS failure returns 0 and an *OpError. Both mean "no data", so callers
// that do not care about the cause can simply test err != nil.
//
// Read and Write may run concurrently with each other. Close waits for
// in-flight transfers and releases the device exactly once.
type Port interface {
	io.ReadWriteCloser

	// Key returns the key the port was opened with
	Key() PortKey

	// Flush discards unread input and unwritten output
	Flush() error
}

// List returns the serial devices currently present, in enumeration order.
// Enumeration failures yield an empty slice.
func List() []SerialID {
	ids, err := listPorts()
	if err != nil {
		return []SerialID{}
	}
	return ids
}

// Open acquires exclusive access to the device named by key and configures
// it for raw 8-bit transfers at baud, with timeout milliseconds as the
// per-read wait. On failure nothing is left open.
func Open(key PortKey, baud, timeout uint32) (Port, error) {
	return openPort(key, Config{
		BaudRate: baud,
		Timeout:  time.Duration(timeout) * time.Millisecond,
	})
}

// OpenConfig is Open driven by functional options on top of DefaultConfig.
func OpenConfig(key PortKey, opts ...Option) (Port, error) {
	config, err := configFromOptions(opts)
	if err != nil {
		return nil, err
	}
	return openPort(key, config)
}
