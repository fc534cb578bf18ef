package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Direction tells which way a chunk of data travelled
type Direction int

const (
	RX Direction = iota
	TX
)

// DataMsg carries one chunk read from or written to the port
type DataMsg struct {
	Timestamp time.Time
	Data      []byte
	Direction Direction
	Err       error // TX only: the write failed
}

// DisplayMode selects which renderings of the data are shown
type DisplayMode struct {
	ShowHex        bool
	ShowASCII      bool
	ShowTimestamps bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(mode DisplayMode) *DataFormatter {
	return &DataFormatter{mode: mode}
}

func (df *DataFormatter) DisplayMode() DisplayMode {
	return df.mode
}

func (df *DataFormatter) FormatMessage(msg DataMsg) string {
	var parts []string

	if df.mode.ShowTimestamps {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			Render("["+msg.Timestamp.Format("15:04:05.000")+"]"))
	}

	parts = append(parts, indicator(msg))

	var body []string
	if df.mode.ShowHex {
		body = append(body, fmt.Sprintf("HEX: % X", msg.Data))
	}
	if df.mode.ShowASCII {
		body = append(body, "ASCII: "+PrintableASCII(msg.Data))
	}
	if len(body) == 0 {
		body = append(body, fmt.Sprintf("BYTES: %d", len(msg.Data)))
	}
	if msg.Err != nil {
		body = append(body, styles.ErrorStyle.Render(msg.Err.Error()))
	}

	return strings.Join(parts, " ") + " " + strings.Join(body, "  ")
}

func indicator(msg DataMsg) string {
	if msg.Direction == RX {
		return lipgloss.NewStyle().Foreground(styles.Sky).Bold(true).Render("↙ RX")
	}
	if msg.Err != nil {
		return lipgloss.NewStyle().Foreground(styles.Red).Bold(true).Render("↗ TX ✗")
	}
	return lipgloss.NewStyle().Foreground(styles.Peach).Bold(true).Render("↗ TX")
}

func (df *DataFormatter) FormatMessages(messages []DataMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

func (df *DataFormatter) ToggleTimestamps() {
	df.mode.ShowTimestamps = !df.mode.ShowTimestamps
}

// PrintableASCII replaces everything outside the printable ASCII range with
// '.', so received bytes can never inject terminal control sequences
func PrintableASCII(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
