package cmd

import (
	"errors"
	"fmt"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset <port> | --serial <serial>",
	Short: "Reset a USB serial device",
	Long: `Perform a USB-level reset on a serial device. This can recover devices
that are hung or unresponsive without physically unplugging them.

The device re-enumerates after the reset. by-path keys follow the USB
connector, so the key normally stays the same; use --serial when the
adapter may move between connectors.

Requirements:
- Linux with the usbreset utility (from the usbutils package)
- Root/sudo permissions for USB operations

Examples:
  sudo serialport reset pci-0000:00:14.0-usb-0:1:1.0-port0
  sudo serialport reset --serial NC7ILXW1`,
	Args: func(cmd *cobra.Command, args []string) error {
		serialFlag, _ := cmd.Flags().GetString("serial")
		if serialFlag == "" && len(args) != 1 {
			return errors.New("requires either a port argument or --serial flag")
		}
		if serialFlag != "" && len(args) > 0 {
			return errors.New("cannot specify both port and --serial flag")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if !serial.IsUSBResetAvailable() {
			log.Fatal().Err(serial.ErrUSBResetNotAvailable).Msg("install with: sudo apt-get install usbutils")
		}

		serialFlag, _ := cmd.Flags().GetString("serial")

		var err error
		if serialFlag != "" {
			log.Info().Str("serial", serialFlag).Msg("resetting USB device")
			err = serial.ResetUSBDeviceBySerial(serialFlag)
		} else {
			key, perr := serial.ParseKey(args[0])
			if perr != nil {
				log.Fatal().Err(perr).Str("port", args[0]).Msg("invalid port")
			}
			log.Info().Str("port", key.String()).Msg("resetting USB device")
			err = serial.ResetUSBDevice(key)
		}

		if errors.Is(err, serial.ErrUSBInfoNotAvailable) {
			log.Fatal().Err(err).Msg("this device does not appear to be a USB device")
		}
		if err != nil {
			log.Fatal().Err(err).Msg("reset failed")
		}

		fmt.Println(styles.SuccessStyle.Render("✓") + " USB device reset successfully")
		fmt.Println("Use 'serialport list --table' to see the updated device list")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().StringP("serial", "s", "", "Reset device by USB serial number")
}
