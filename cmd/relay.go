package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/go-serialport"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// relayCmd represents the relay command
var relayCmd = &cobra.Command{
	Use:   "relay <port>",
	Short: "Connect stdin and stdout to a serial port",
	Long: `Copy stdin to the serial port and everything received to stdout, until
interrupted or the port fails. End of input stops sending but keeps
receiving.

Example usage:
  serialport relay COM3
  echo "AT" | serialport relay pci-0000:00:14.0-usb-0:1:1.0-port0 > reply.txt`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		port, err := openPort(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("port", args[0]).Msg("failed to open port")
		}

		err = relay(ctx, port, os.Stdin, os.Stdout)
		port.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("relay stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(relayCmd)
}

// relay pumps in to port and port to out until ctx ends or either side
// fails. Reading in is never waited on, since stdin cannot be interrupted.
func relay(ctx context.Context, port serial.Port, in io.Reader, out io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)

	chunks := make(chan []byte)
	go func() {
		defer close(chunks)
		buf := make([]byte, 1024)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Debug().Err(err).Msg("reading input")
				}
				return
			}
		}
	}()

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case chunk, ok := <-chunks:
				if !ok {
					log.Debug().Msg("end of input")
					return nil
				}
				if _, err := writeAll(port, chunk); err != nil {
					return err
				}
			}
		}
	})

	g.Go(func() error {
		buf := make([]byte, 4096)
		for ctx.Err() == nil {
			n, err := port.Read(buf)
			if errors.Is(err, serial.ErrReadTimeout) {
				continue
			}
			if err != nil {
				return err
			}
			if _, err := out.Write(buf[:n]); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}
