package serial

import (
	"fmt"
	"os/exec"
	"time"
)

// reenumerationDelay is how long a reset device usually needs to come back
var reenumerationDelay = 2 * time.Second

// ResetUSBDevice performs a USB-level reset of the device behind key.
// This can recover hardware that is in a hung/unresponsive state.
//
// Requirements:
// - usbreset utility must be installed (from usbutils package)
// - Requires appropriate permissions (typically root/sudo)
//
// Any open Port on the device is invalid afterwards.
func ResetUSBDevice(key PortKey) error {
	info, err := GetPortInfo(key)
	if err != nil {
		return fmt.Errorf("failed to get port info: %w", err)
	}

	if info.BusNumber == "" || info.DeviceNumber == "" {
		return ErrUSBInfoNotAvailable
	}

	if !IsUSBResetAvailable() {
		return ErrUSBResetNotAvailable
	}

	cmd := exec.Command("usbreset", usbDevicePath(info.BusNumber, info.DeviceNumber))
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("usbreset failed: %w (output: %s)", err, string(output))
	}

	time.Sleep(reenumerationDelay)
	return nil
}

// ResetUSBDeviceBySerial resets the listed device whose USB serial number
// matches. Useful when by-path keys change between boots.
func ResetUSBDeviceBySerial(serialNumber string) error {
	for _, id := range List() {
		info, err := GetPortInfo(id.Key)
		if err != nil {
			continue
		}
		if info.SerialNumber == serialNumber {
			return ResetUSBDevice(id.Key)
		}
	}
	return fmt.Errorf("device with serial %s not found: %w", serialNumber, ErrDeviceNotFound)
}

// IsUSBResetAvailable checks if usbreset utility is available in PATH
func IsUSBResetAvailable() bool {
	_, err := exec.LookPath("usbreset")
	return err == nil
}

// usbDevicePath formats bus and device numbers the way usbreset expects (BBB/DDD)
func usbDevicePath(bus, device string) string {
	return zeroPad(bus) + "/" + zeroPad(device)
}

func zeroPad(s string) string {
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
