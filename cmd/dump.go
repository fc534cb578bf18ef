package cmd

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <port> [output-file]",
	Short: "Hex dump received data, optionally capturing it to a file",
	Long: `Print incoming serial data as a hex dump until interrupted (Ctrl+C).

When an output file is given the raw bytes are also appended to it, so a
capture can be resumed without overwriting earlier data. Output is coloured
when stdout is a terminal.

Example usage:
  serialport dump COM3
  serialport dump pci-0000:00:14.0-usb-0:1:1.0-port0 capture.bin --baud 9600`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var capture io.Writer
		if len(args) == 2 {
			file, err := os.OpenFile(args[1], os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open output file: %w", err)
			}
			defer file.Close()
			capture = file
		}

		colour := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runDump(ctx, args[0], os.Stdout, capture, colour)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(ctx context.Context, portArg string, out, capture io.Writer, colour bool) error {
	port, err := openPort(portArg)
	if err != nil {
		return err
	}
	defer port.Close()

	return dumpPort(ctx, port, out, capture, colour)
}

// dumpPort dumps port until ctx ends or a read fails. The final partial
// line is flushed on every exit path.
func dumpPort(ctx context.Context, port serial.Port, out, capture io.Writer, colour bool) error {
	if colour {
		out = &dumpColourizer{out: out}
	}
	dumper := hex.Dumper(out)
	defer dumper.Close()

	log.Info().Str("port", port.Key().String()).Msg("dumping, press Ctrl+C to stop")

	buffer := make([]byte, 4096)
	total := 0
	start := time.Now()
	for ctx.Err() == nil {
		n, err := port.Read(buffer)
		if errors.Is(err, serial.ErrReadTimeout) {
			continue
		}
		if err != nil {
			return err
		}

		if capture != nil {
			if _, err := capture.Write(buffer[:n]); err != nil {
				return err
			}
		}
		if _, err := dumper.Write(buffer[:n]); err != nil {
			return err
		}
		total += n
	}

	log.Info().Int("bytes", total).Dur("elapsed", time.Since(start).Round(time.Millisecond)).Msg("dump complete")
	return nil
}

// dumpColourizer styles the offset, hex and ASCII columns of hex.Dump
// output. It buffers partial lines until their newline arrives.
type dumpColourizer struct {
	out     io.Writer
	pending []byte
}

func (c *dumpColourizer) Write(p []byte) (int, error) {
	c.pending = append(c.pending, p...)
	for {
		i := bytes.IndexByte(c.pending, '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(c.pending[:i])
		c.pending = c.pending[i+1:]
		if _, err := io.WriteString(c.out, colourDumpLine(line)+"\n"); err != nil {
			return len(p), err
		}
	}
}

// colourDumpLine splits "00000000  48 65 ...  |He..|" into its columns
func colourDumpLine(line string) string {
	const offsetWidth = 8
	if len(line) <= offsetWidth {
		return line
	}

	offset, rest := line[:offsetWidth], line[offsetWidth:]
	ascii := ""
	if i := strings.IndexByte(rest, '|'); i >= 0 {
		rest, ascii = rest[:i], rest[i:]
	}
	return styles.OffsetStyle.Render(offset) + styles.HexStyle.Render(rest) + styles.ASCIIStyle.Render(ascii)
}
