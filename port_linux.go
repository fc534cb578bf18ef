package serial

import (
	"errors"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
)

// PortKey is the file name of an entry in the by-path directory, or an
// absolute device path
type PortKey string

func (k PortKey) String() string { return string(k) }

// ParseKey converts user input into a PortKey
func ParseKey(s string) (PortKey, error) {
	if s == "" {
		return "", ErrInvalidKey
	}
	return PortKey(s), nil
}

// serialByPathDir is where udev publishes stable per-connector links
var serialByPathDir = "/dev/serial/by-path"

// devicePath resolves a key to the path handed to open(2)
func devicePath(key PortKey) string {
	if filepath.IsAbs(string(key)) {
		return string(key)
	}
	return filepath.Join(serialByPathDir, string(key))
}

// ttyPort is the Linux implementation of the Port interface
type ttyPort struct {
	mu     sync.RWMutex
	fd     int
	key    PortKey
	config Config
	closed bool
}

// Ensure ttyPort implements Port interface at compile time
var _ Port = (*ttyPort)(nil)

// getBaudRate converts a baud rate to the termios speed constant.
// Only the rates every supported adapter handles are accepted.
func getBaudRate(rate uint32) (uint32, error) {
	switch rate {
	case 9600:
		return unix.B9600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	default:
		return 0, ErrInvalidBaudRate
	}
}

func supportedBaudRate(rate uint32) bool {
	_, err := getBaudRate(rate)
	return err == nil
}

// vtimeFromMillis encodes a millisecond timeout as VTIME deciseconds,
// saturating at the largest value the field holds
func vtimeFromMillis(ms uint32) uint8 {
	ds := ms / 100
	if ds > 255 {
		return 255
	}
	return uint8(ds)
}

func openPort(key PortKey, config Config) (Port, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	// O_NONBLOCK keeps open from waiting on carrier detect; it is cleared
	// once CLOCAL is in effect
	fd, err := unix.Open(devicePath(key), unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, &OpError{Op: "open", Key: key, Err: err}
	}

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		return nil, &OpError{Op: "flock", Key: key, Err: err}
	}

	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	if err == nil {
		_, err = unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags|unix.FD_CLOEXEC)
	}
	if err != nil {
		unix.Close(fd)
		return nil, &OpError{Op: "fcntl", Key: key, Err: err}
	}

	if err := configurePort(fd, key, config); err != nil {
		unix.Close(fd)
		return nil, err
	}

	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, &OpError{Op: "fcntl", Key: key, Err: err}
	}

	p := &ttyPort{
		fd:     fd,
		key:    key,
		config: config,
	}
	runtime.SetFinalizer(p, (*ttyPort).Close)
	return p, nil
}

// configurePort puts the line in raw 8-bit mode with the requested speed and
// read timeout. Pending data is discarded when the settings are applied.
func configurePort(fd int, key PortKey, config Config) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return &OpError{Op: "tcgetattr", Key: key, Err: err}
	}

	termios.Iflag = 0
	termios.Oflag = 0
	termios.Cflag = 0
	termios.Lflag = 0

	speed, err := getBaudRate(config.BaudRate)
	if err != nil {
		return &OpError{Op: "cfsetspeed", Key: key, Err: err}
	}
	termios.Cflag |= speed
	termios.Ispeed = speed
	termios.Ospeed = speed

	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	// VMIN=0: a read returns after one byte or when VTIME expires
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = vtimeFromMillis(config.timeoutMillis())

	if err := unix.IoctlSetTermios(fd, unix.TCSETSF, termios); err != nil {
		return &OpError{Op: "tcsetattr", Key: key, Err: err}
	}
	return nil
}

// Key returns the key the port was opened with
func (p *ttyPort) Key() PortKey {
	return p.key
}

// Close closes the serial port, releasing the advisory lock with it
func (p *ttyPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	p.closed = true
	runtime.SetFinalizer(p, nil)

	if err := unix.Close(p.fd); err != nil {
		return &OpError{Op: "close", Key: p.key, Err: err}
	}
	return nil
}

// Read reads data from the serial port
func (p *ttyPort) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := ignoringEINTR(func() (int, error) { return unix.Read(p.fd, buf) })
	if err != nil {
		return 0, &OpError{Op: "read", Key: p.key, Err: err}
	}
	if n == 0 {
		return 0, ErrReadTimeout
	}
	return n, nil
}

// Write writes data to the serial port
func (p *ttyPort) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}
	if len(data) == 0 {
		return 0, nil
	}

	n, err := ignoringEINTR(func() (int, error) { return unix.Write(p.fd, data) })
	if err != nil {
		return 0, &OpError{Op: "write", Key: p.key, Err: err}
	}
	if n == 0 {
		return 0, ErrWriteTimeout
	}
	return n, nil
}

// Flush discards any unread input and unwritten output
func (p *ttyPort) Flush() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	if err := unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIOFLUSH); err != nil {
		return &OpError{Op: "tcflush", Key: p.key, Err: err}
	}
	return nil
}

func ignoringEINTR(fn func() (int, error)) (int, error) {
	for {
		n, err := fn()
		if !errors.Is(err, unix.EINTR) {
			return n, err
		}
	}
}

// errnoIs reports whether a backend error corresponds to a package sentinel
func errnoIs(err error, target error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch target {
	case ErrDeviceNotFound:
		return errno == unix.ENOENT || errno == unix.ENODEV || errno == unix.ENXIO
	case ErrDeviceInUse:
		return errno == unix.EWOULDBLOCK || errno == unix.EBUSY
	case ErrPermissionDenied:
		return errno == unix.EACCES || errno == unix.EPERM
	}
	return false
}
