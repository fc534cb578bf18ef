package models

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

type scriptedPort struct {
	mu      sync.Mutex
	reads   [][]byte
	fail    error
	written []byte
	closes  int
	key     serial.PortKey
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closes > 0 {
		return 0, serial.ErrPortClosed
	}
	if len(p.reads) > 0 {
		n := copy(b, p.reads[0])
		p.reads = p.reads[1:]
		return n, nil
	}
	if p.fail != nil {
		return 0, p.fail
	}
	time.Sleep(time.Millisecond)
	return 0, serial.ErrReadTimeout
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *scriptedPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return nil
}

func (p *scriptedPort) Key() serial.PortKey { return p.key }
func (p *scriptedPort) Flush() error        { return nil }

// collector gathers messages sent by a session
type collector struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *collector) send(msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) snapshot() []tea.Msg {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tea.Msg(nil), c.msgs...)
}

func TestSessionOpenFailure(t *testing.T) {
	var c collector
	s := NewSession(func() (serial.Port, error) { return nil, serial.ErrDeviceInUse })
	s.Run(c.send)

	msgs := c.snapshot()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	status, ok := msgs[0].(ConnectionStatusMsg)
	if !ok || status.Connected || !errors.Is(status.Error, serial.ErrDeviceInUse) {
		t.Errorf("unexpected message %#v", msgs[0])
	}
}

func TestSessionForwardsDataUntilFailure(t *testing.T) {
	port := &scriptedPort{
		reads: [][]byte{[]byte("abc"), []byte("de")},
		fail:  serial.ErrDeviceNotFound,
	}
	var c collector
	s := NewSession(func() (serial.Port, error) { return port, nil })
	s.Run(c.send)

	msgs := c.snapshot()
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4: %#v", len(msgs), msgs)
	}
	if status, ok := msgs[0].(ConnectionStatusMsg); !ok || !status.Connected {
		t.Errorf("first message %#v, want connected", msgs[0])
	}
	if data, ok := msgs[1].(components.DataMsg); !ok || string(data.Data) != "abc" || data.Direction != components.RX {
		t.Errorf("second message %#v", msgs[1])
	}
	if data, ok := msgs[2].(components.DataMsg); !ok || string(data.Data) != "de" {
		t.Errorf("third message %#v", msgs[2])
	}
	if status, ok := msgs[3].(ConnectionStatusMsg); !ok || !errors.Is(status.Error, serial.ErrDeviceNotFound) {
		t.Errorf("last message %#v, want failure", msgs[3])
	}

	s.Cleanup()
	s.Cleanup()
	if port.closes != 1 {
		t.Errorf("port closed %d times, want 1", port.closes)
	}
}

func TestSessionWriteAndCleanup(t *testing.T) {
	port := &scriptedPort{}
	var c collector
	s := NewSession(func() (serial.Port, error) { return port, nil })

	done := make(chan struct{})
	go func() {
		s.Run(c.send)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(c.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	msg := s.Write([]byte("AT"))
	if msg.Err != nil || msg.Direction != components.TX || string(port.written) != "AT" {
		t.Errorf("Write = %#v, port got %q", msg, port.written)
	}

	s.Cleanup()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after Cleanup")
	}

	if msg := s.Write([]byte("x")); !errors.Is(msg.Err, serial.ErrPortClosed) {
		t.Errorf("Write after Cleanup err = %v, want ErrPortClosed", msg.Err)
	}
}
