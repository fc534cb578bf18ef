//go:build !linux && !windows

package serial

const testKey PortKey = "/dev/cu.usbserial"
