package serial

import (
	"os"
	"path/filepath"
	"strings"
)

// sysfsRoot is the mount point of sysfs
var sysfsRoot = "/sys"

// PortInfo holds details about the device behind a port key
type PortInfo struct {
	Key         PortKey
	Name        string // kernel device name, e.g. ttyUSB0
	Path        string // resolved device node
	Description string

	// USB metadata, empty for non-USB devices
	VendorID        string
	ProductID       string
	SerialNumber    string
	InterfaceNumber string
	BusNumber       string
	DeviceNumber    string
	Manufacturer    string
	Product         string
}

// GetPortInfo resolves a key to its device node and collects USB metadata
// from sysfs where the device has any
func GetPortInfo(key PortKey) (*PortInfo, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	path, err := filepath.EvalSymlinks(devicePath(key))
	if err != nil || !isCharacterDevice(path) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(path)
	info := &PortInfo{
		Key:         key,
		Name:        name,
		Path:        path,
		Description: getPortDescription(name),
	}

	enrichUSBInfo(info)
	return info, nil
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// enrichUSBInfo fills the USB fields from sysfs. The tty's device link points
// at the USB interface; its parent is the USB device carrying the IDs.
// Missing files leave fields empty.
func enrichUSBInfo(info *PortInfo) {
	deviceLink := filepath.Join(sysfsRoot, "class", "tty", info.Name, "device")
	resolved, err := filepath.EvalSymlinks(deviceLink)
	if err != nil {
		return
	}

	// usb-serial drivers add a ttyUSBn node below the interface, CDC/ACM
	// links the interface directly
	interfacePath := resolved
	if readSysfsFile(filepath.Join(interfacePath, "bInterfaceNumber")) == "" {
		interfacePath = filepath.Dir(resolved)
	}
	info.InterfaceNumber = readSysfsFile(filepath.Join(interfacePath, "bInterfaceNumber"))

	usbDevicePath := filepath.Dir(interfacePath)
	info.VendorID = readSysfsFile(filepath.Join(usbDevicePath, "idVendor"))
	info.ProductID = readSysfsFile(filepath.Join(usbDevicePath, "idProduct"))
	info.SerialNumber = readSysfsFile(filepath.Join(usbDevicePath, "serial"))
	info.Manufacturer = readSysfsFile(filepath.Join(usbDevicePath, "manufacturer"))
	info.Product = readSysfsFile(filepath.Join(usbDevicePath, "product"))
	info.BusNumber = readSysfsFile(filepath.Join(usbDevicePath, "busnum"))
	info.DeviceNumber = readSysfsFile(filepath.Join(usbDevicePath, "devnum"))
}

// readSysfsFile returns the trimmed file content, or "" if unreadable
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
