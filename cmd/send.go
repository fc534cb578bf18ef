package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] <port>",
	Short: "Send data to a serial port",
	Long: `Send data to a serial port and optionally wait for a reply.

Data can be provided as:
- Command line argument: serialport send "AT" COM3
- From stdin (pipe): echo "test data" | serialport send COM3
- Interactive prompt: serialport send COM3

Example usage:
  serialport send "AT+GMR" COM3 --newline --reply 2s
  serialport send "48 65 6c 6c 6f" COM3 --hex`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var data []byte
		portArg := args[len(args)-1]

		addNewline, _ := cmd.Flags().GetBool("newline")
		hexMode, _ := cmd.Flags().GetBool("hex")
		reply, _ := cmd.Flags().GetDuration("reply")

		var input string
		if len(args) == 2 {
			input = args[0]
		} else if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			input = promptForData()
		} else {
			stdinData, err := io.ReadAll(os.Stdin)
			if err != nil {
				log.Fatal().Err(err).Msg("reading stdin")
			}
			input = strings.TrimRight(string(stdinData), "\r\n")
		}

		if hexMode {
			var err error
			if data, err = components.ParseHex(input); err != nil {
				log.Fatal().Err(err).Msg("invalid hex data")
			}
		} else {
			if addNewline {
				input += "\n"
			}
			data = []byte(input)
		}

		if err := sendData(portArg, data, reply); err != nil {
			log.Fatal().Err(err).Str("port", portArg).Msg("send failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
	sendCmd.Flags().DurationP("reply", "r", 0, "Print data received within this long after sending")
}

func promptForData() string {
	fmt.Print(styles.InfoStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

func sendData(portArg string, data []byte, reply time.Duration) error {
	port, err := openPort(portArg)
	if err != nil {
		return err
	}
	defer port.Close()

	n, err := writeAll(port, data)
	if err != nil {
		return fmt.Errorf("sent %d of %d bytes: %w", n, len(data), err)
	}
	fmt.Printf("%s Sent %d bytes: %s\n", styles.SuccessStyle.Render("✓"), n, preview(data))

	if reply <= 0 {
		return nil
	}

	deadline := time.Now().Add(reply)
	buffer := make([]byte, 4096)
	for time.Now().Before(deadline) {
		n, err := port.Read(buffer)
		if errors.Is(err, serial.ErrReadTimeout) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", styles.InfoStyle.Render("↙"), preview(buffer[:n]))
	}
	return nil
}

// writeAll writes data in full, stopping at the first error
func writeAll(port serial.Port, data []byte) (int, error) {
	written := 0
	for written < len(data) {
		n, err := port.Write(data[written:])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// preview shows up to 64 bytes with non-printable bytes masked
func preview(data []byte) string {
	const limit = 64
	if len(data) > limit {
		return components.PrintableASCII(data[:limit]) + "..."
	}
	return components.PrintableASCII(data)
}
