package cmd

import (
	"fmt"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display the device behind a port key, including USB metadata.

Examples:
  serialport info pci-0000:00:14.0-usb-0:1:1.0-port0
  serialport info COM3

On Linux USB vendor/product IDs, serial numbers, interface numbers and
bus addresses are read from sysfs.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key, err := serial.ParseKey(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("port", args[0]).Msg("invalid port")
		}

		info, err := serial.GetPortInfo(key)
		if err != nil {
			log.Fatal().Err(err).Str("port", key.String()).Msg("getting port info")
		}

		fmt.Printf("Port Information: %s\n\n", styles.PortKeyStyle.Render(key.String()))
		fmt.Printf("  Device:      %s\n", info.Path)
		fmt.Printf("  Name:        %s\n", info.Name)
		fmt.Printf("  Description: %s\n", info.Description)

		if info.VendorID == "" && info.ProductID == "" {
			return
		}

		fmt.Println("\nUSB Device Information:")
		fields := []struct {
			label string
			value string
		}{
			{"Vendor ID:   ", info.VendorID},
			{"Product ID:  ", info.ProductID},
			{"Serial:      ", info.SerialNumber},
			{"Interface:   ", info.InterfaceNumber},
			{"Bus:         ", info.BusNumber},
			{"Device:      ", info.DeviceNumber},
			{"Manufacturer:", info.Manufacturer},
			{"Product:     ", info.Product},
		}
		for _, f := range fields {
			if f.value != "" {
				fmt.Printf("  %s %s\n", f.label, f.value)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
