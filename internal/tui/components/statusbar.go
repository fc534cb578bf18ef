package components

import (
	"fmt"
	"time"

	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// ConnectionInfo is the line configuration shown on the right of the bar
type ConnectionInfo struct {
	BaudRate uint32
	Timeout  time.Duration
}

type StatusBar struct {
	port     string
	status   styles.StatusType
	err      error
	width    int
	info     ConnectionInfo
	rxBytes  int
	txBytes  int
	sendMode SendingMode
}

func NewStatusBar(port string, info ConnectionInfo) *StatusBar {
	return &StatusBar{
		port:   port,
		status: styles.StatusConnecting,
		info:   info,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetConnected() {
	sb.status = styles.StatusConnected
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	sb.status = styles.StatusDisconnected
	sb.err = err
}

func (sb *StatusBar) Status() styles.StatusType {
	return sb.status
}

func (sb *StatusBar) Err() error {
	return sb.err
}

// AddTraffic accumulates the byte counters
func (sb *StatusBar) AddTraffic(msg DataMsg) {
	if msg.Err != nil {
		return
	}
	if msg.Direction == RX {
		sb.rxBytes += len(msg.Data)
	} else {
		sb.txBytes += len(msg.Data)
	}
}

func (sb *StatusBar) SetSendingMode(mode SendingMode) {
	sb.sendMode = mode
}

// View renders the bar: mode, port and state on the left; traffic, line
// settings and clock on the right
func (sb *StatusBar) View(insertMode, following bool, now time.Time) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	modeStyle := lipgloss.NewStyle().
		Foreground(styles.Base).
		Background(styles.Blue).
		Bold(true).
		Padding(0, 1)
	modeText := "NORMAL"
	if insertMode {
		modeStyle = modeStyle.Background(styles.Green)
		modeText = "INSERT"
	}

	portView := lipgloss.NewStyle().
		Foreground(styles.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.port)

	divider := lipgloss.NewStyle().
		Foreground(styles.Surface2).
		Padding(0, 1).
		Render("│")

	left := []string{modeStyle.Render(modeText), portView, styles.StatusIndicator(sb.status)}
	if insertMode {
		left = append(left, lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sb.sendMode)))
	}
	if sb.err != nil {
		left = append(left, lipgloss.NewStyle().
			Foreground(styles.Red).
			Padding(0, 1).
			Render(sb.err.Error()))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	scroll := "FOLLOW"
	if !following {
		scroll = "SCROLL"
	}
	detail := lipgloss.NewStyle().Foreground(styles.Subtext0).Padding(0, 1)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left,
		detail.Render(fmt.Sprintf("RX %d TX %d", sb.rxBytes, sb.txBytes)),
		divider,
		detail.Render(fmt.Sprintf("⚡ %d baud 8N1 %s", sb.info.BaudRate, sb.info.Timeout)),
		divider,
		detail.Render(scroll),
		divider,
		lipgloss.NewStyle().Foreground(styles.Subtext1).Padding(0, 1).Render(now.Format("15:04:05")),
	)

	spacerWidth := max(width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 1)
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
