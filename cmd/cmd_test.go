package cmd

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/allbin/go-serialport"
	"gopkg.in/yaml.v3"
)

// fakePort replays scripted reads and records writes
type fakePort struct {
	mu       sync.Mutex
	reads    [][]byte
	readErr  error
	written  bytes.Buffer
	maxWrite int
	closed   bool
	key      serial.PortKey
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.reads) == 0 {
		if p.readErr != nil {
			return 0, p.readErr
		}
		time.Sleep(time.Millisecond)
		return 0, serial.ErrReadTimeout
	}
	n := copy(b, p.reads[0])
	p.reads = p.reads[1:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxWrite > 0 && len(b) > p.maxWrite {
		b = b[:p.maxWrite]
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) Key() serial.PortKey { return p.key }

func (p *fakePort) Flush() error { return nil }

func (p *fakePort) writtenString() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

func TestWriteAllHandlesShortWrites(t *testing.T) {
	port := &fakePort{maxWrite: 3}
	n, err := writeAll(port, []byte("hello world"))
	if err != nil || n != 11 {
		t.Fatalf("writeAll = %d, %v", n, err)
	}
	if got := port.writtenString(); got != "hello world" {
		t.Errorf("written %q", got)
	}
}

func TestRelay(t *testing.T) {
	port := &fakePort{
		reads:   [][]byte{[]byte("OK\r\n")},
		readErr: serial.ErrDeviceNotFound,
	}
	var out bytes.Buffer

	err := relay(context.Background(), port, strings.NewReader("AT\r\n"), &out)
	if !errors.Is(err, serial.ErrDeviceNotFound) {
		t.Errorf("relay error = %v, want the port failure", err)
	}
	if out.String() != "OK\r\n" {
		t.Errorf("relayed to output %q", out.String())
	}
}

func TestDumpPortFlushesOnReadError(t *testing.T) {
	port := &fakePort{
		reads:   [][]byte{[]byte("0123456789abcdefXYZ")},
		readErr: serial.ErrDeviceNotFound,
	}
	var out, capture bytes.Buffer

	err := dumpPort(context.Background(), port, &out, &capture, false)
	if !errors.Is(err, serial.ErrDeviceNotFound) {
		t.Fatalf("dumpPort error = %v, want the port failure", err)
	}
	if capture.String() != "0123456789abcdefXYZ" {
		t.Errorf("captured %q", capture.String())
	}
	if want := hex.Dump([]byte("0123456789abcdefXYZ")); out.String() != want {
		t.Errorf("dump output = %q, want %q", out.String(), want)
	}
}

func TestDumpPortColourFlushesPartialLine(t *testing.T) {
	port := &fakePort{
		reads:   [][]byte{[]byte("XYZ")},
		readErr: serial.ErrDeviceNotFound,
	}
	var out bytes.Buffer

	if err := dumpPort(context.Background(), port, &out, nil, true); err == nil {
		t.Fatal("dumpPort should return the read failure")
	}
	if !strings.Contains(out.String(), "|XYZ|") {
		t.Errorf("partial line missing from output %q", out.String())
	}
}

func TestRelayStopsOnCancel(t *testing.T) {
	port := &fakePort{}
	ctx, cancel := context.WithCancel(context.Background())

	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() { done <- relay(ctx, port, pr, io.Discard) }()

	if _, err := pw.Write([]byte("ping")); err != nil {
		t.Fatalf("pipe write failed: %v", err)
	}
	for deadline := time.Now().Add(2 * time.Second); port.writtenString() == "" && time.Now().Before(deadline); {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("relay returned %v after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
	if got := port.writtenString(); got != "ping" {
		t.Errorf("port received %q, want %q", got, "ping")
	}
}

func TestColourDumpLine(t *testing.T) {
	line := "00000000  48 65 6c 6c 6f                                    |Hello|"
	got := colourDumpLine(line)
	for _, part := range []string{"00000000", "48 65 6c 6c 6f", "|Hello|"} {
		if !strings.Contains(got, part) {
			t.Errorf("colourDumpLine lost %q: %q", part, got)
		}
	}
	if colourDumpLine("short") != "short" {
		t.Error("short lines must pass through")
	}
}

func TestDumpColourizerBuffersLines(t *testing.T) {
	var out bytes.Buffer
	c := &dumpColourizer{out: &out}

	c.Write([]byte("00000000  41 42"))
	if out.Len() != 0 {
		t.Fatalf("partial line written early: %q", out.String())
	}
	c.Write([]byte("  |AB|\n"))
	if !strings.HasSuffix(out.String(), "\n") || !strings.Contains(out.String(), "|AB|") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestParseLineEnding(t *testing.T) {
	tests := map[string]string{"none": "", "lf": "\n", "cr": "\r", "crlf": "\r\n"}
	for name, want := range tests {
		got, err := parseLineEnding(name)
		if err != nil || got != want {
			t.Errorf("parseLineEnding(%q) = %q, %v", name, got, err)
		}
	}
	if _, err := parseLineEnding("lfcr"); err == nil {
		t.Error("expected error for unknown line ending")
	}
}

func TestFilterPorts(t *testing.T) {
	entries := []portEntry{
		{Key: "a", Device: "ttyUSB0", VendorID: "0403"},
		{Key: "b", Device: "ttyS0"},
		{Key: "c", Device: "ttyAMA0"},
		{Key: "d", Device: "ttyACM0"},
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"a", "b", "c", "d"}},
		{"all", []string{"a", "b", "c", "d"}},
		{"usb", []string{"a", "d"}},
		{"standard", []string{"b"}},
		{"arm", []string{"c"}},
		{"bogus", []string{}},
	}

	for _, tt := range tests {
		got := filterPorts(entries, tt.filter)
		if len(got) != len(tt.want) {
			t.Errorf("filter %q: got %d entries, want %d", tt.filter, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Key != tt.want[i] {
				t.Errorf("filter %q: entry %d = %q, want %q", tt.filter, i, got[i].Key, tt.want[i])
			}
		}
	}
}

func TestRenderYAML(t *testing.T) {
	var out bytes.Buffer
	err := renderYAML(&out, []portEntry{{Key: "COM3", Comment: "USB Serial Port"}})
	if err != nil {
		t.Fatalf("renderYAML failed: %v", err)
	}
	var decoded struct {
		Ports []map[string]string `yaml:"ports"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if len(decoded.Ports) != 1 {
		t.Fatalf("got %d ports, want 1", len(decoded.Ports))
	}
	if decoded.Ports[0]["key"] != "COM3" || decoded.Ports[0]["comment"] != "USB Serial Port" {
		t.Errorf("unexpected document %+v", decoded)
	}
	if _, ok := decoded.Ports[0]["vendor_id"]; ok {
		t.Error("empty fields must be omitted")
	}
}
