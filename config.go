package serial

import (
	"math"
	"time"
)

// Config holds the line configuration applied when a port is opened
type Config struct {
	BaudRate uint32
	// Timeout is the maximum time a Read waits for the next chunk of data,
	// not a deadline for the whole transfer. Millisecond resolution.
	Timeout time.Duration
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate: 115200,
		Timeout:  time.Second,
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate uint32) Option {
	return func(c *Config) error {
		if !supportedBaudRate(rate) {
			return ErrInvalidBaudRate
		}
		c.BaudRate = rate
		return nil
	}
}

// WithTimeout sets the per-read timeout. It must fit in 32 bits of milliseconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 || timeout.Milliseconds() > math.MaxUint32 {
			return ErrInvalidConfig
		}
		c.Timeout = timeout
		return nil
	}
}

// timeoutMillis returns the timeout in the unit both backends program
func (c Config) timeoutMillis() uint32 {
	ms := c.Timeout.Milliseconds()
	switch {
	case ms < 0:
		return 0
	case ms > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(ms)
}

func configFromOptions(opts []Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}
