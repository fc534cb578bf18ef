package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// maxMessages bounds the scrollback kept by a Terminal
const maxMessages = 5000

// Terminal is a scrolling view of formatted port traffic
type Terminal struct {
	viewport  viewport.Model
	formatter *DataFormatter
	messages  []DataMsg
	lines     []string // formatted messages, parallel to messages
	follow    bool
	stale     bool // lines changed since the viewport last saw them
}

func NewTerminal(width, height int, mode DisplayMode) *Terminal {
	return &Terminal{
		viewport:  viewport.New(width, height),
		formatter: NewDataFormatter(mode),
		follow:    true,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.stale = true
}

func (t *Terminal) Width() int {
	return t.viewport.Width
}

// AddMessage appends a message, dropping the oldest beyond the scrollback limit
func (t *Terminal) AddMessage(msg DataMsg) {
	t.messages = append(t.messages, msg)
	t.lines = append(t.lines, t.formatter.FormatMessage(msg))
	if len(t.messages) > maxMessages {
		t.messages = t.messages[len(t.messages)-maxMessages:]
		t.lines = t.lines[len(t.lines)-maxMessages:]
	}
	t.stale = true
}

func (t *Terminal) Len() int {
	return len(t.messages)
}

func (t *Terminal) Clear() {
	t.messages = nil
	t.lines = nil
	t.stale = false
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleHex() {
	t.formatter.ToggleHex()
	t.refresh()
}

func (t *Terminal) ToggleASCII() {
	t.formatter.ToggleASCII()
	t.refresh()
}

func (t *Terminal) ToggleTimestamps() {
	t.formatter.ToggleTimestamps()
	t.refresh()
}

func (t *Terminal) DisplayMode() DisplayMode {
	return t.formatter.DisplayMode()
}

// Following reports whether new messages keep the view pinned to the bottom
func (t *Terminal) Following() bool {
	return t.follow
}

func (t *Terminal) GotoTop() {
	t.sync()
	t.follow = false
	t.viewport.GotoTop()
}

func (t *Terminal) GotoBottom() {
	t.sync()
	t.follow = true
	t.viewport.GotoBottom()
}

func (t *Terminal) ScrollUp() {
	t.sync()
	t.follow = false
	t.viewport.LineUp(1)
}

func (t *Terminal) ScrollDown() {
	t.sync()
	t.viewport.LineDown(1)
	t.follow = t.viewport.AtBottom()
}

// refresh re-formats every message after the display mode changed
func (t *Terminal) refresh() {
	t.lines = t.formatter.FormatMessages(t.messages)
	t.stale = true
}

// sync pushes pending lines into the viewport
func (t *Terminal) sync() {
	if !t.stale {
		return
	}
	t.stale = false
	t.viewport.SetContent(strings.Join(t.lines, "\n"))
	if t.follow {
		t.viewport.GotoBottom()
	}
}

func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	// Only window sizes reach the viewport so it cannot consume our key bindings
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (t *Terminal) View() string {
	t.sync()
	return t.viewport.View()
}
