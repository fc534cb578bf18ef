//go:build !linux

package serial

// PortInfo holds details about the device behind a port key
type PortInfo struct {
	Key         PortKey
	Name        string
	Path        string
	Description string

	VendorID        string
	ProductID       string
	SerialNumber    string
	InterfaceNumber string
	BusNumber       string
	DeviceNumber    string
	Manufacturer    string
	Product         string
}

// GetPortInfo is only backed by sysfs; elsewhere it reports the key alone
func GetPortInfo(key PortKey) (*PortInfo, error) {
	return &PortInfo{
		Key:         key,
		Name:        key.String(),
		Path:        devicePath(key),
		Description: "Serial Port",
	}, nil
}

// ResetUSBDevice needs the Linux usbreset utility
func ResetUSBDevice(key PortKey) error {
	return ErrUSBResetNotAvailable
}

// ResetUSBDeviceBySerial needs the Linux usbreset utility
func ResetUSBDeviceBySerial(serialNumber string) error {
	return ErrUSBResetNotAvailable
}

// IsUSBResetAvailable reports false outside Linux
func IsUSBResetAvailable() bool {
	return false
}
