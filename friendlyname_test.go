package serial

import (
	"testing"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestParseFriendlyName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantIndex   uint8
		wantComment string
		wantOK      bool
	}{
		{"usb adapter", "USB Serial Port (COM7)", 7, "USB Serial Port", true},
		{"builtin", "Communications Port (COM1)", 1, "Communications Port", true},
		{"two digits", "Silicon Labs CP210x USB to UART Bridge (COM12)", 12, "Silicon Labs CP210x USB to UART Bridge", true},
		{"last match wins", "COM1 Adapter (COM4)", 4, "COM1 Adapter", true},
		{"max index", "Virtual Port (COM255)", 255, "Virtual Port", true},
		{"index overflows", "Virtual Port (COM300)", 0, "", false},
		{"no index", "Bluetooth Link", 0, "", false},
		{"bare name", "COM3", 3, "", true},
		{"empty", "", 0, "", false},
		{"localised", "通信端口 (COM1)", 1, "通信端口", true},
		{"full-width bracket", "通信端口 （COM2）", 2, "通信端口", true},
		{"full-width bracket unspaced", "通信端口（COM3）", 3, "通信端", true},
		{"single char before", "X(COM5)", 5, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, comment, ok := parseFriendlyName(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseFriendlyName(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if index != tt.wantIndex {
				t.Errorf("index = %d, want %d", index, tt.wantIndex)
			}
			if !utf8.ValidString(comment) {
				t.Errorf("comment %q is not valid UTF-8", comment)
			}
			if comment != tt.wantComment {
				t.Errorf("comment = %q, want %q", comment, tt.wantComment)
			}
		})
	}
}

func TestDecodeFriendlyName(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().String("USB 串行设备 (COM3)")
	if err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}

	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"ascii", []byte("USB Serial Port (COM7)"), "USB Serial Port (COM7)"},
		{"nul terminated", append([]byte("Port (COM2)\x00"), make([]byte, 32)...), "Port (COM2)"},
		{"gbk", []byte(gbk), "USB 串行设备 (COM3)"},
		{"invalid bytes", []byte{'A', 0xff, 'B'}, "A" + string(utf8.RuneError) + "B"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeFriendlyName(tt.raw)
			if got != tt.want {
				t.Errorf("decodeFriendlyName(% x) = %q, want %q", tt.raw, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("decodeFriendlyName returned invalid UTF-8 %q", got)
			}
		})
	}
}

func TestDecodeThenParseGBK(t *testing.T) {
	raw, err := simplifiedchinese.GBK.NewEncoder().String("通信端口 (COM1)")
	if err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}

	index, comment, ok := parseFriendlyName(decodeFriendlyName([]byte(raw)))
	if !ok || index != 1 || comment != "通信端口" {
		t.Errorf("got (%d, %q, %v), want (1, %q, true)", index, comment, ok, "通信端口")
	}
}
