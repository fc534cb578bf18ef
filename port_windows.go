package serial

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// PortKey is a COM port index: 7 names \\.\COM7
type PortKey uint8

func (k PortKey) String() string { return "COM" + strconv.Itoa(int(k)) }

// ParseKey accepts "COM7", "com7" or "7"
func ParseKey(s string) (PortKey, error) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "COM")
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return PortKey(n), nil
}

// devicePath builds the extended-length device name, required for COM10+
func devicePath(key PortKey) string {
	return `\\.\COM` + strconv.Itoa(int(key))
}

// dcb mirrors the Win32 DCB structure.
type dcb struct {
	DCBLength uint32
	BaudRate  uint32
	Flags     uint32
	_         uint16 // wReserved
	XonLim    uint16
	XoffLim   uint16
	ByteSize  byte
	Parity    byte
	StopBits  byte
	XonChar   byte
	XoffChar  byte
	ErrorChar byte
	EOFChar   byte
	EvtChar   byte
	_         uint16 // wReserved1
}

// commTimeouts mirrors the Win32 COMMTIMEOUTS structure.
type commTimeouts struct {
	ReadIntervalTimeout         uint32
	ReadTotalTimeoutMultiplier  uint32
	ReadTotalTimeoutConstant    uint32
	WriteTotalTimeoutMultiplier uint32
	WriteTotalTimeoutConstant   uint32
}

const (
	dcbBinary = 0x00000001

	// readIntervalTimeout is the gap in ms that ends a read once data flows
	readIntervalTimeout = 5

	purgeTxClear = 0x0004
	purgeRxClear = 0x0008
)

var (
	kernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procSetCommState    = kernel32.NewProc("SetCommState")
	procSetCommTimeouts = kernel32.NewProc("SetCommTimeouts")
	procPurgeComm       = kernel32.NewProc("PurgeComm")
)

// comPort is the Windows implementation of the Port interface
type comPort struct {
	mu     sync.RWMutex
	handle windows.Handle
	key    PortKey
	config Config
	closed bool
}

// Ensure comPort implements Port interface at compile time
var _ Port = (*comPort)(nil)

// The DCB takes any rate; the driver rejects what the UART cannot do
func supportedBaudRate(rate uint32) bool {
	return rate > 0
}

func openPort(key PortKey, config Config) (Port, error) {
	path, err := windows.UTF16PtrFromString(devicePath(key))
	if err != nil {
		return nil, &OpError{Op: "CreateFile", Key: key, Err: err}
	}

	// Share mode 0 gives exclusive access
	handle, err := windows.CreateFile(
		path,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_OVERLAPPED,
		0,
	)
	if err != nil {
		return nil, &OpError{Op: "CreateFile", Key: key, Err: err}
	}

	if err := configurePort(handle, key, config); err != nil {
		windows.CloseHandle(handle)
		return nil, err
	}

	p := &comPort{
		handle: handle,
		key:    key,
		config: config,
	}
	runtime.SetFinalizer(p, (*comPort).Close)
	return p, nil
}

// configurePort applies the line settings and the read timeouts
func configurePort(handle windows.Handle, key PortKey, config Config) error {
	if config.BaudRate == 0 {
		return &OpError{Op: "SetCommState", Key: key, Err: ErrInvalidBaudRate}
	}

	// NOPARITY and ONESTOPBIT are both zero
	d := dcb{
		BaudRate: config.BaudRate,
		Flags:    dcbBinary,
		ByteSize: 8,
	}
	d.DCBLength = uint32(unsafe.Sizeof(d))
	if r, _, err := procSetCommState.Call(uintptr(handle), uintptr(unsafe.Pointer(&d))); r == 0 {
		return &OpError{Op: "SetCommState", Key: key, Err: err}
	}

	timeouts := commTimeouts{
		ReadIntervalTimeout:      readIntervalTimeout,
		ReadTotalTimeoutConstant: config.timeoutMillis(),
	}
	if r, _, err := procSetCommTimeouts.Call(uintptr(handle), uintptr(unsafe.Pointer(&timeouts))); r == 0 {
		return &OpError{Op: "SetCommTimeouts", Key: key, Err: err}
	}
	return nil
}

// Key returns the key the port was opened with
func (p *comPort) Key() PortKey {
	return p.key
}

// Close closes the communication handle
func (p *comPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	p.closed = true
	runtime.SetFinalizer(p, nil)

	if err := windows.CloseHandle(p.handle); err != nil {
		return &OpError{Op: "CloseHandle", Key: p.key, Err: err}
	}
	return nil
}

// Read reads data from the serial port
func (p *comPort) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := p.transfer("ReadFile", func(done *uint32, ov *windows.Overlapped) error {
		return windows.ReadFile(p.handle, buf, done, ov)
	})
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrReadTimeout
	}
	return n, nil
}

// Write writes data to the serial port
func (p *comPort) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}
	if len(data) == 0 {
		return 0, nil
	}

	n, err := p.transfer("WriteFile", func(done *uint32, ov *windows.Overlapped) error {
		return windows.WriteFile(p.handle, data, done, ov)
	})
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrWriteTimeout
	}
	return n, nil
}

// transfer runs one overlapped operation to completion. Each call gets its
// own event so concurrent Read and Write never share completion state.
func (p *comPort) transfer(op string, issue func(*uint32, *windows.Overlapped) error) (int, error) {
	event, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return 0, &OpError{Op: "CreateEvent", Key: p.key, Err: err}
	}
	defer windows.CloseHandle(event)

	ov := windows.Overlapped{HEvent: event}
	var done uint32

	err = issue(&done, &ov)
	if err == nil {
		return int(done), nil
	}
	if !errors.Is(err, windows.ERROR_IO_PENDING) {
		return 0, &OpError{Op: op, Key: p.key, Err: err}
	}

	ret, err := windows.WaitForSingleObject(event, windows.INFINITE)
	if err != nil {
		return 0, &OpError{Op: "WaitForSingleObject", Key: p.key, Err: err}
	}
	if ret != windows.WAIT_OBJECT_0 {
		return 0, &OpError{Op: "WaitForSingleObject", Key: p.key, Err: fmt.Errorf("unexpected wait result %#x", ret)}
	}

	if err := windows.GetOverlappedResult(p.handle, &ov, &done, false); err != nil {
		return 0, &OpError{Op: "GetOverlappedResult", Key: p.key, Err: err}
	}
	return int(done), nil
}

// Flush discards any unread input and unwritten output
func (p *comPort) Flush() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	if r, _, err := procPurgeComm.Call(uintptr(p.handle), purgeRxClear|purgeTxClear); r == 0 {
		return &OpError{Op: "PurgeComm", Key: p.key, Err: err}
	}
	return nil
}

// errnoIs reports whether a backend error corresponds to a package sentinel
func errnoIs(err error, target error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch target {
	case ErrDeviceNotFound:
		return errno == windows.ERROR_FILE_NOT_FOUND || errno == windows.ERROR_PATH_NOT_FOUND
	case ErrDeviceInUse:
		return errno == windows.ERROR_ACCESS_DENIED || errno == windows.ERROR_SHARING_VIOLATION
	}
	return false
}
