package serial

import (
	"os"
)

// listPorts scans the by-path directory. Each link name doubles as key and
// comment; there is no friendlier label available without udev.
func listPorts() ([]SerialID, error) {
	entries, err := os.ReadDir(serialByPathDir)
	if err != nil {
		return nil, err
	}

	ports := make([]SerialID, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		ports = append(ports, SerialID{
			Key:     PortKey(name),
			Comment: name,
		})
	}
	return ports, nil
}

// WatchDir returns the directory whose changes signal hot-plug events, or
// "" when the platform has none.
func WatchDir() string {
	return serialByPathDir
}
