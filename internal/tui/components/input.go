package components

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type SendingMode int

const (
	SendingModeASCII SendingMode = iota
	SendingModeHex
)

func (s SendingMode) String() string {
	switch s {
	case SendingModeHex:
		return "HEX"
	default:
		return "ASCII"
	}
}

// maxHistory bounds the number of remembered inputs
const maxHistory = 100

// Input is the line editor used to compose data for the port
type Input struct {
	textInput    textinput.Model
	sendingMode  SendingMode
	lineEnding   string
	history      []string
	historyIndex int
	currentInput string // saved while navigating history
	width        int
}

// NewInput creates an input in ASCII mode. lineEnding is appended to ASCII
// sends.
func NewInput(lineEnding string) *Input {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Prompt = ""

	i := &Input{
		textInput:    ti,
		sendingMode:  SendingModeHex,
		lineEnding:   lineEnding,
		historyIndex: -1,
	}
	i.ToggleSendingMode()
	return i
}

func (i *Input) SetWidth(width int) {
	i.width = width
	// border(2) + padding(2) + prompt(2)
	i.textInput.Width = max(width-6, 20)
}

func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

func (i *Input) Blur() {
	i.textInput.Blur()
}

func (i *Input) Value() string {
	return i.textInput.Value()
}

func (i *Input) Reset() {
	i.textInput.Reset()
}

func (i *Input) ToggleSendingMode() {
	switch i.sendingMode {
	case SendingModeASCII:
		i.sendingMode = SendingModeHex
		i.textInput.Placeholder = "Enter hex (e.g. 48656C6C6F or 48 65 6C 6C 6F)..."
	case SendingModeHex:
		i.sendingMode = SendingModeASCII
		i.textInput.Placeholder = "Type message and press Enter to send..."
	}
}

func (i *Input) SendingMode() SendingMode {
	return i.sendingMode
}

// Bytes converts the current value into the bytes to transmit
func (i *Input) Bytes() ([]byte, error) {
	value := i.textInput.Value()
	if i.sendingMode == SendingModeHex {
		return ParseHex(value)
	}
	return []byte(value + i.lineEnding), nil
}

// ParseHex decodes hex digits, ignoring whitespace and 0x prefixes
func ParseHex(s string) ([]byte, error) {
	s = strings.NewReplacer("0x", "", "0X", "").Replace(s)
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, fmt.Errorf("no hex digits")
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

func (i *Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return cmd
}

func (i *Input) View(insertMode bool) string {
	promptSymbol := ">"
	promptStyle := lipgloss.NewStyle().Foreground(styles.Green).Bold(true)
	if i.sendingMode == SendingModeHex {
		promptSymbol = "#"
		promptStyle = promptStyle.Foreground(styles.Yellow)
	}

	content := lipgloss.NewStyle().
		Foreground(styles.Overlay0).
		Render("Press 'i' to enter insert mode")
	if insertMode {
		content = i.textInput.View()
	}

	inputStyle := styles.InputStyle.
		Width(max(i.width-4, 10)).
		AlignHorizontal(lipgloss.Left)
	if insertMode {
		inputStyle = inputStyle.BorderForeground(styles.Green)
	}

	return inputStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, promptStyle.Render(promptSymbol), " ", content))
}

// AddToHistory records a sent value unless it is empty or repeats the last one
func (i *Input) AddToHistory(value string) {
	value = strings.TrimSpace(value)
	i.historyIndex = -1
	i.currentInput = ""
	if value == "" {
		return
	}
	if len(i.history) > 0 && i.history[len(i.history)-1] == value {
		return
	}

	i.history = append(i.history, value)
	if len(i.history) > maxHistory {
		i.history = i.history[1:]
	}
}

// HistoryUp moves to the previous history entry
func (i *Input) HistoryUp() {
	if len(i.history) == 0 {
		return
	}

	if i.historyIndex == -1 {
		i.currentInput = i.textInput.Value()
		i.historyIndex = len(i.history) - 1
	} else if i.historyIndex > 0 {
		i.historyIndex--
	}
	i.textInput.SetValue(i.history[i.historyIndex])
}

// HistoryDown moves to the next history entry, ending at the unsent input
func (i *Input) HistoryDown() {
	if len(i.history) == 0 || i.historyIndex == -1 {
		return
	}

	if i.historyIndex < len(i.history)-1 {
		i.historyIndex++
		i.textInput.SetValue(i.history[i.historyIndex])
		return
	}
	i.historyIndex = -1
	i.textInput.SetValue(i.currentInput)
	i.currentInput = ""
}
