package cmd

import (
	"fmt"
	"time"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	"github.com/allbin/go-serialport/internal/tui/keys"
	"github.com/allbin/go-serialport/internal/tui/models"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Interactive terminal for a serial port",
	Long: `Open a serial port in a terminal user interface.

Incoming data is shown as it arrives with timestamps, in hex and ASCII.
Press 'i' to type data to send; Tab switches between ASCII and hex input.

Example usage:
  serialport monitor pci-0000:00:14.0-usb-0:1:1.0-port0
  serialport monitor COM3 --baud 9600 --line-ending crlf
  serialport monitor COM3 --no-timestamps --no-hex`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		noTimestamps, _ := cmd.Flags().GetBool("no-timestamps")
		noHex, _ := cmd.Flags().GetBool("no-hex")
		lineEnding, _ := cmd.Flags().GetString("line-ending")

		ending, err := parseLineEnding(lineEnding)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid flag")
		}

		mode := components.DisplayMode{
			ShowHex:        !noHex,
			ShowASCII:      true,
			ShowTimestamps: !noTimestamps,
		}
		if err := runMonitorTUI(args[0], mode, ending); err != nil {
			log.Fatal().Err(err).Msg("monitor")
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().Bool("no-timestamps", false, "Hide timestamps")
	monitorCmd.Flags().Bool("no-hex", false, "Hide the hex column")
	monitorCmd.Flags().String("line-ending", "lf", "Appended to ASCII input: none, lf, cr, crlf")
}

func parseLineEnding(name string) (string, error) {
	switch name {
	case "none":
		return "", nil
	case "lf":
		return "\n", nil
	case "cr":
		return "\r", nil
	case "crlf":
		return "\r\n", nil
	}
	return "", fmt.Errorf("unknown line ending %q (valid: none, lf, cr, crlf)", name)
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// monitorModel is the Bubble Tea model for the monitor command
type monitorModel struct {
	session   *models.Session
	terminal  *components.Terminal
	input     *components.Input
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.MonitorKeys

	insertMode bool
	ready      bool
	now        time.Time
}

func runMonitorTUI(arg string, mode components.DisplayMode, lineEnding string) error {
	key, err := serial.ParseKey(arg)
	if err != nil {
		return err
	}

	info := components.ConnectionInfo{
		BaudRate: viper.GetUint32("baud"),
		Timeout:  viper.GetDuration("timeout"),
	}

	m := &monitorModel{
		session:   models.NewSession(func() (serial.Port, error) { return openPort(arg) }),
		terminal:  components.NewTerminal(80, 20, mode),
		input:     components.NewInput(lineEnding),
		statusBar: components.NewStatusBar(key.String(), info),
		help:      help.New(),
		keys:      keys.NewMonitorKeys(),
		now:       time.Now(),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	go m.session.Run(p.Send)

	_, err = p.Run()
	m.session.Cleanup()
	return err
}

func (m *monitorModel) Init() tea.Cmd {
	return tick()
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.statusBar.SetWidth(msg.Width)
		m.input.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.resize(msg.Width, msg.Height)
		cmds = append(cmds, m.terminal.Update(msg))

	case tickMsg:
		m.now = time.Time(msg)
		cmds = append(cmds, tick())

	case models.ConnectionStatusMsg:
		if msg.Connected {
			m.statusBar.SetConnected()
		} else {
			m.statusBar.SetDisconnected(msg.Error)
		}

	case components.DataMsg:
		m.statusBar.AddTraffic(msg)
		m.terminal.AddMessage(msg)

	case tea.KeyMsg:
		if m.insertMode {
			cmds = append(cmds, m.updateInsert(msg))
		} else if quit := m.updateNormal(msg); quit {
			return m, tea.Quit
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *monitorModel) updateInsert(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.insertMode = false
		m.input.Blur()
	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleSendingMode()
		m.statusBar.SetSendingMode(m.input.SendingMode())
	case key.Matches(msg, m.keys.Send):
		return m.send()
	case msg.Type == tea.KeyUp:
		m.input.HistoryUp()
	case msg.Type == tea.KeyDown:
		m.input.HistoryDown()
	case msg.Type == tea.KeyCtrlC:
		m.insertMode = false
		m.input.Blur()
	default:
		return m.input.Update(msg)
	}
	return nil
}

func (m *monitorModel) updateNormal(msg tea.KeyMsg) (quit bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return true
	case key.Matches(msg, m.keys.InsertMode):
		m.insertMode = true
		m.input.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Clear):
		m.terminal.Clear()
	case key.Matches(msg, m.keys.ToggleHex):
		m.terminal.ToggleHex()
	case key.Matches(msg, m.keys.ToggleASCII):
		m.terminal.ToggleASCII()
	case key.Matches(msg, m.keys.ToggleTimestamps):
		m.terminal.ToggleTimestamps()
	case key.Matches(msg, m.keys.Up):
		m.terminal.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.terminal.ScrollDown()
	case key.Matches(msg, m.keys.GotoTop):
		m.terminal.GotoTop()
	case key.Matches(msg, m.keys.GotoBottom):
		m.terminal.GotoBottom()
	}
	return false
}

// send writes the input off the UI goroutine and reports the result as a
// TX message
func (m *monitorModel) send() tea.Cmd {
	value := m.input.Value()
	data, err := m.input.Bytes()
	if err != nil {
		m.terminal.AddMessage(components.DataMsg{
			Timestamp: time.Now(),
			Direction: components.TX,
			Err:       err,
		})
		return nil
	}
	m.input.AddToHistory(value)
	m.input.Reset()

	session := m.session
	return func() tea.Msg {
		return session.Write(data)
	}
}

func (m *monitorModel) resize(width, height int) {
	// status bar plus the bordered input line and the content border
	m.terminal.SetSize(width, max(height-1-3-1, 1))
}

func (m *monitorModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	parts := []string{
		styles.ContentBorderStyle.Render(m.terminal.View()),
		m.input.View(m.insertMode),
	}
	if m.help.ShowAll {
		parts = append(parts, styles.HelpStyle.Render(m.help.View(m.keys)))
	}
	parts = append(parts, m.statusBar.View(m.insertMode, m.terminal.Following(), m.now))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
