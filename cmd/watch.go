package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/hotplug"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report serial ports as they are plugged in and removed",
	Long: `Print the current ports, then one line per port that appears or
disappears, until interrupted (Ctrl+C).

On Linux changes to /dev/serial/by-path are picked up immediately; the
listing is also re-checked every --interval.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		initial, events, err := hotplug.New(hotplug.WithInterval(interval)).Watch(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("starting watcher")
		}

		for _, id := range initial {
			printPortEvent(" ", styles.PortKeyStyle, id)
		}
		log.Debug().Str("dir", serial.WatchDir()).Dur("interval", interval).Msg("watching")

		for ev := range events {
			switch ev.Kind {
			case hotplug.Added:
				printPortEvent("+", styles.AddedStyle, ev.ID)
			case hotplug.Removed:
				printPortEvent("-", styles.RemovedStyle, ev.ID)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("interval", 2*time.Second, "Polling interval")
}

func printPortEvent(marker string, style lipgloss.Style, id serial.SerialID) {
	fmt.Printf("%s %s %s\t%s\n",
		time.Now().Format(time.TimeOnly),
		style.Render(marker),
		styles.PortKeyStyle.Render(id.Key.String()),
		id.Comment)
}
