package serial

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

// guidDevinterfaceComport is GUID_DEVINTERFACE_COMPORT
var guidDevinterfaceComport = windows.GUID{
	Data1: 0x86e0d1e0,
	Data2: 0x8089,
	Data3: 0x11d0,
	Data4: [8]byte{0x9c, 0xe4, 0x08, 0x00, 0x3e, 0x30, 0x1f, 0x73},
}

// friendlyNameSize bounds the ANSI friendly name read from the registry
const friendlyNameSize = 256

var (
	setupapi                              = windows.NewLazySystemDLL("setupapi.dll")
	procSetupDiGetDeviceRegistryPropertyA = setupapi.NewProc("SetupDiGetDeviceRegistryPropertyA")
)

// listPorts walks the present COM port interfaces. Devices whose friendly
// name carries no COM index are skipped.
func listPorts() ([]SerialID, error) {
	set, err := windows.SetupDiGetClassDevsEx(
		&guidDevinterfaceComport,
		"",
		0,
		windows.DIGCF_PRESENT|windows.DIGCF_DEVICEINTERFACE,
		0,
		"",
	)
	if err != nil {
		return nil, err
	}
	defer set.Close()

	ports := []SerialID{}
	for i := 0; ; i++ {
		data, err := set.EnumDeviceInfo(i)
		if errors.Is(err, windows.ERROR_NO_MORE_ITEMS) {
			break
		}
		if err != nil {
			// a member that cannot be read leaves a gap; later indices still enumerate
			continue
		}

		raw, err := friendlyNameBytes(set, data)
		if err != nil {
			continue
		}

		index, comment, ok := parseFriendlyName(decodeFriendlyName(raw))
		if !ok {
			continue
		}
		ports = append(ports, SerialID{
			Key:     PortKey(index),
			Comment: comment,
		})
	}
	return ports, nil
}

// friendlyNameBytes reads SPDRP_FRIENDLYNAME through the ANSI entry point so
// the caller sees the code page bytes the device was registered with
func friendlyNameBytes(set windows.DevInfo, data *windows.DevInfoData) ([]byte, error) {
	buf := make([]byte, friendlyNameSize)
	r, _, err := procSetupDiGetDeviceRegistryPropertyA.Call(
		uintptr(set),
		uintptr(unsafe.Pointer(data)),
		uintptr(windows.SPDRP_FRIENDLYNAME),
		0,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		0,
	)
	if r == 0 {
		return nil, err
	}
	return buf, nil
}

// WatchDir returns the directory whose changes signal hot-plug events, or
// "" when the platform has none.
func WatchDir() string {
	return ""
}
