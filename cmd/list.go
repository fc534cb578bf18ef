package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List the serial ports currently attached to the system.

Each line shows the port key, which is what the other commands take as
their <port> argument, followed by the port comment.

Examples:
  serialport list
  serialport list --table --filter usb
  serialport list --format yaml`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")
		format, _ := cmd.Flags().GetString("format")

		entries := filterPorts(collectPorts(serial.List()), filterType)
		log.Debug().Int("count", len(entries)).Str("filter", filterType).Msg("listed ports")

		var err error
		switch {
		case format == "yaml":
			err = renderYAML(os.Stdout, entries)
		case format != "text":
			err = fmt.Errorf("unknown format %q (valid: text, yaml)", format)
		case len(entries) == 0:
			fmt.Println("No serial ports found")
		case tableFormat:
			renderTable(entries)
		default:
			renderSimple(entries)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("listing ports")
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().Bool("table", false, "Display output in a styled table format")
	listCmd.Flags().String("format", "text", "Output format: text, yaml")
}

// portEntry is a listed port joined with whatever detail the platform offers
type portEntry struct {
	Key         string `yaml:"key"`
	Comment     string `yaml:"comment"`
	Device      string `yaml:"device,omitempty"`
	Description string `yaml:"description,omitempty"`
	VendorID    string `yaml:"vendor_id,omitempty"`
	ProductID   string `yaml:"product_id,omitempty"`
	Serial      string `yaml:"serial,omitempty"`
}

func collectPorts(ids []serial.SerialID) []portEntry {
	entries := make([]portEntry, 0, len(ids))
	for _, id := range ids {
		entry := portEntry{
			Key:     id.Key.String(),
			Comment: id.Comment,
		}
		if info, err := serial.GetPortInfo(id.Key); err == nil {
			entry.Device = info.Name
			entry.Description = info.Description
			entry.VendorID = info.VendorID
			entry.ProductID = info.ProductID
			entry.Serial = info.SerialNumber
		} else {
			log.Debug().Err(err).Str("port", entry.Key).Msg("no port info")
		}
		entries = append(entries, entry)
	}
	return entries
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(entries []portEntry, filterType string) []portEntry {
	if filterType == "" || filterType == "all" {
		return entries
	}

	filtered := make([]portEntry, 0, len(entries))
	for _, entry := range entries {
		name := strings.ToLower(entry.Device)
		switch strings.ToLower(filterType) {
		case "usb":
			if entry.VendorID != "" || strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, entry)
			}
		case "standard":
			if strings.HasPrefix(name, "ttys") {
				filtered = append(filtered, entry)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, entry)
			}
		}
	}
	return filtered
}

const (
	columnKeyPort        = "port"
	columnKeyDevice      = "device"
	columnKeyDescription = "description"
	columnKeyUSB         = "usb"
)

// renderTable renders the port list as a static bubble-table
func renderTable(entries []portEntry) {
	fmt.Printf("Found %d serial port(s):\n\n", len(entries))

	portWidth := len("Port")
	for _, entry := range entries {
		portWidth = max(portWidth, lipgloss.Width(entry.Key))
	}

	columns := []table.Column{
		table.NewColumn(columnKeyPort, "Port", portWidth+2),
		table.NewColumn(columnKeyDevice, "Device", 12),
		table.NewColumn(columnKeyDescription, "Description", 24),
		table.NewColumn(columnKeyUSB, "USB", 24),
	}

	rows := make([]table.Row, 0, len(entries))
	for _, entry := range entries {
		usb := ""
		if entry.VendorID != "" {
			usb = entry.VendorID + ":" + entry.ProductID
			if entry.Serial != "" {
				usb += " " + entry.Serial
			}
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPort:        entry.Key,
			columnKeyDevice:      entry.Device,
			columnKeyDescription: entry.Description,
			columnKeyUSB:         usb,
		}))
	}

	t := table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(styles.TableHeaderStyle).
		WithBaseStyle(styles.TableBaseStyle)

	fmt.Println(t.View())
}

// renderSimple renders the port list in simple text format
func renderSimple(entries []portEntry) {
	keyStyle := styles.PortKeyStyle
	for _, entry := range entries {
		if entry.Comment == entry.Key {
			fmt.Println(keyStyle.Render(entry.Key))
			continue
		}
		fmt.Printf("%s\t%s\n", keyStyle.Render(entry.Key), entry.Comment)
	}
}

func renderYAML(w io.Writer, entries []portEntry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(map[string][]portEntry{"ports": entries})
}
