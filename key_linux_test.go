package serial

const testKey PortKey = "pci-0000:00:14.0-usb-0:1:1.0-port0"
