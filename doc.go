// Package serial provides discovery, exclusive opening and blocking byte I/O
// for serial (UART/COM) devices on Linux and Windows behind one API.
//
// The Linux backend drives termios on character devices and identifies ports
// by their /dev/serial/by-path link name. The Windows backend drives COM
// handles with overlapped I/O and identifies ports by COM index. The backend
// is selected at build time.
//
// # Basic Usage
//
// Find a port and open it at 115200 baud with a 500ms read timeout:
//
//	for _, id := range serial.List() {
//	    fmt.Printf("%s\t%s\n", id.Key, id.Comment)
//	}
//
//	port, err := serial.Open(key, 115200, 500)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	n, err := port.Write([]byte("Hello"))
//	buffer := make([]byte, 256)
//	n, err = port.Read(buffer)
//
// # Configuration Options
//
// Use functional options on top of DefaultConfig:
//
//	port, err := serial.OpenConfig(key,
//	    serial.WithBaudRate(9600),
//	    serial.WithTimeout(2*time.Second),
//	)
//
// Every port is raw 8N1 without flow control. On Linux only 9600, 115200,
// 230400 and 460800 baud are accepted; the timeout is programmed in tenths
// of a second (VTIME) and capped at 25.5s. On Windows any non-zero rate is
// handed to the driver and the timeout is the per-read total constant.
//
// # Timeouts
//
// Read waits for the next chunk of data, not for the buffer to fill. When
// the timeout passes with nothing received Read returns 0 and
// ErrReadTimeout. An OS failure returns 0 and an *OpError. Both mean "no
// data"; use errors.Is to tell a quiet line from a dead one:
//
//	n, err := port.Read(buffer)
//	switch {
//	case errors.Is(err, serial.ErrReadTimeout):
//	    // nothing arrived
//	case err != nil:
//	    // device gone or I/O error
//	}
//
// # Exclusive Access
//
// Open takes an exclusive advisory lock (Linux) or opens without sharing
// (Windows). A second Open of the same device fails until the first Port is
// closed:
//
//	if errors.Is(err, serial.ErrDeviceInUse) {
//	    // someone else holds the port
//	}
//
// Open failures are *OpError values naming the failing call; errors.As
// exposes the OS error code.
//
// # Port Discovery
//
// List never fails: when there is nothing to enumerate it returns an empty
// slice. On Linux GetPortInfo adds USB metadata from sysfs and
// ResetUSBDevice power-cycles a hung adapter through the usbreset utility.
package serial
