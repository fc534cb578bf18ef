package components

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPrintableASCII(t *testing.T) {
	tests := []struct {
		input    []byte
		expected string
	}{
		{[]byte("Hello"), "Hello"},
		{[]byte{0x1b, '[', '2', 'J'}, ".[2J"},
		{[]byte{0x00, 0x7f, 0xff, '~', ' '}, "...~ "},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := PrintableASCII(tt.input); got != tt.expected {
			t.Errorf("PrintableASCII(% x) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	msg := DataMsg{
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 6e6, time.UTC),
		Data:      []byte("Hi\n"),
		Direction: RX,
	}

	tests := []struct {
		name    string
		mode    DisplayMode
		want    []string
		notWant []string
	}{
		{"all", DisplayMode{true, true, true}, []string{"03:04:05.006", "RX", "HEX: 48 69 0A", "ASCII: Hi."}, nil},
		{"hex only", DisplayMode{ShowHex: true}, []string{"HEX: 48 69 0A"}, []string{"ASCII:", "03:04:05"}},
		{"nothing", DisplayMode{}, []string{"BYTES: 3"}, []string{"HEX:", "ASCII:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDataFormatter(tt.mode).FormatMessage(msg)
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("FormatMessage = %q, missing %q", got, s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(got, s) {
					t.Errorf("FormatMessage = %q, unexpected %q", got, s)
				}
			}
		})
	}
}

func TestFormatFailedTX(t *testing.T) {
	msg := DataMsg{Direction: TX, Data: []byte{1}, Err: errors.New("write failed")}
	got := NewDataFormatter(DisplayMode{ShowHex: true}).FormatMessage(msg)
	if !strings.Contains(got, "TX ✗") || !strings.Contains(got, "write failed") {
		t.Errorf("FormatMessage = %q", got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"48656c6c6f", "Hello", false},
		{"48 65 6C 6C 6F", "Hello", false},
		{"0x48 0x69", "Hi", false},
		{"486", "", true},
		{"zz", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("ParseHex(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestInputBytes(t *testing.T) {
	in := NewInput("\r\n")
	if in.SendingMode() != SendingModeASCII {
		t.Fatalf("new input mode = %v, want ASCII", in.SendingMode())
	}

	in.textInput.SetValue("AT")
	if got, _ := in.Bytes(); string(got) != "AT\r\n" {
		t.Errorf("ASCII Bytes = %q", got)
	}

	in.ToggleSendingMode()
	in.textInput.SetValue("41 54")
	if got, err := in.Bytes(); err != nil || string(got) != "AT" {
		t.Errorf("hex Bytes = %q, %v", got, err)
	}
}

func TestInputHistory(t *testing.T) {
	in := NewInput("")
	in.AddToHistory("one")
	in.AddToHistory("two")
	in.AddToHistory("two")
	in.AddToHistory("  ")

	if len(in.history) != 2 {
		t.Fatalf("history = %v, want 2 entries", in.history)
	}

	in.textInput.SetValue("draft")
	in.HistoryUp()
	if in.Value() != "two" {
		t.Errorf("after up: %q", in.Value())
	}
	in.HistoryUp()
	in.HistoryUp()
	if in.Value() != "one" {
		t.Errorf("up stops at oldest: %q", in.Value())
	}
	in.HistoryDown()
	in.HistoryDown()
	if in.Value() != "draft" {
		t.Errorf("down returns to draft: %q", in.Value())
	}
}

func TestInputHistoryLimit(t *testing.T) {
	in := NewInput("")
	for i := 0; i < maxHistory+10; i++ {
		in.AddToHistory(strings.Repeat("x", i+1))
	}
	if len(in.history) != maxHistory {
		t.Errorf("history length = %d, want %d", len(in.history), maxHistory)
	}
}

func TestTerminalScrollback(t *testing.T) {
	term := NewTerminal(80, 10, DisplayMode{ShowASCII: true})
	for i := 0; i < maxMessages+5; i++ {
		term.AddMessage(DataMsg{Data: []byte{'a'}})
	}
	term.AddMessage(DataMsg{Data: []byte("newest")})
	if term.Len() != maxMessages {
		t.Errorf("Len = %d, want %d", term.Len(), maxMessages)
	}
	if len(term.lines) != maxMessages {
		t.Errorf("cached lines = %d, want %d", len(term.lines), maxMessages)
	}
	if !strings.Contains(term.View(), "newest") {
		t.Error("view should end with the newest message after trimming")
	}

	term.ToggleTimestamps()
	if len(term.lines) != maxMessages {
		t.Errorf("cached lines after mode change = %d, want %d", len(term.lines), maxMessages)
	}
	if !strings.Contains(term.View(), "newest") {
		t.Error("view should keep the newest message after a mode change")
	}

	term.Clear()
	if term.Len() != 0 {
		t.Errorf("Len after Clear = %d", term.Len())
	}
}

func TestTerminalFollow(t *testing.T) {
	term := NewTerminal(80, 2, DisplayMode{ShowASCII: true})
	for i := 0; i < 10; i++ {
		term.AddMessage(DataMsg{Data: []byte{'a'}})
	}
	if !term.Following() {
		t.Fatal("new terminal should follow")
	}
	term.GotoTop()
	if term.Following() {
		t.Error("GotoTop should stop following")
	}
	term.GotoBottom()
	if !term.Following() {
		t.Error("GotoBottom should resume following")
	}
}

func TestStatusBarTraffic(t *testing.T) {
	sb := NewStatusBar("COM3", ConnectionInfo{BaudRate: 9600, Timeout: time.Second})
	sb.SetWidth(200)
	sb.AddTraffic(DataMsg{Direction: RX, Data: make([]byte, 5)})
	sb.AddTraffic(DataMsg{Direction: TX, Data: make([]byte, 2)})
	sb.AddTraffic(DataMsg{Direction: TX, Data: make([]byte, 9), Err: errors.New("failed")})

	view := sb.View(false, true, time.Now())
	for _, s := range []string{"COM3", "RX 5 TX 2", "9600 baud", "FOLLOW", "NORMAL"} {
		if !strings.Contains(view, s) {
			t.Errorf("status bar %q missing %q", view, s)
		}
	}

	sb.SetDisconnected(errors.New("device gone"))
	if !strings.Contains(sb.View(false, false, time.Now()), "device gone") {
		t.Error("status bar should show the error")
	}
}
