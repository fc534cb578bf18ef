// Package styles holds the lipgloss styles shared by the CLI and the monitor
// TUI, built on the Catppuccin Mocha palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Sky    = lipgloss.Color("#89dceb")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	PortKeyStyle = lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(Mauve).
				Bold(true)

	TableBaseStyle = lipgloss.NewStyle().
			Foreground(Text).
			BorderForeground(Surface2).
			Align(lipgloss.Left)

	// Hex dump
	OffsetStyle = lipgloss.NewStyle().Foreground(Overlay0)
	HexStyle    = lipgloss.NewStyle().Foreground(Sky)
	ASCIIStyle  = lipgloss.NewStyle().Foreground(Green)

	// CLI feedback
	InfoStyle = lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	AddedStyle   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	RemovedStyle = lipgloss.NewStyle().Foreground(Red).Bold(true)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Surface1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Padding(1, 2).
			Margin(1, 0)
)

// StatusType is the connection state shown in the status bar
type StatusType int

const (
	StatusConnecting StatusType = iota
	StatusConnected
	StatusDisconnected
)

// StatusIndicator returns the single-character indicator for a status
func StatusIndicator(status StatusType) string {
	switch status {
	case StatusConnected:
		return lipgloss.NewStyle().Foreground(Green).Render("●")
	case StatusConnecting:
		return lipgloss.NewStyle().Foreground(Yellow).Render("○")
	default:
		return lipgloss.NewStyle().Foreground(Red).Render("✗")
	}
}
