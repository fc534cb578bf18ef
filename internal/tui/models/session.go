// Package models holds the port-facing state of the monitor TUI.
package models

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// ConnectionStatusMsg reports the outcome of opening the port, or its loss
type ConnectionStatusMsg struct {
	Connected bool
	Error     error
}

// Opener opens the port for a session
type Opener func() (serial.Port, error)

// Session owns the open port of a monitor view. It connects in the
// background, forwards everything read as components.DataMsg, and closes
// the port exactly once on Cleanup.
type Session struct {
	open Opener

	mu   sync.Mutex
	port serial.Port

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSession(open Opener) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		open:   open,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run opens the port and reads until the session is cleaned up or the port
// fails. Every message is handed to send, which must not block for long.
func (s *Session) Run(send func(tea.Msg)) {
	port, err := s.open()
	if err != nil {
		send(ConnectionStatusMsg{Error: err})
		return
	}

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		port.Close()
		return
	}
	s.port = port
	s.mu.Unlock()

	send(ConnectionStatusMsg{Connected: true})

	buffer := make([]byte, 4096)
	for s.ctx.Err() == nil {
		n, err := port.Read(buffer)
		if errors.Is(err, serial.ErrReadTimeout) {
			continue
		}
		if err != nil {
			if s.ctx.Err() == nil {
				send(ConnectionStatusMsg{Error: err})
			}
			return
		}

		data := make([]byte, n)
		copy(data, buffer[:n])
		send(components.DataMsg{
			Timestamp: time.Now(),
			Data:      data,
			Direction: components.RX,
		})
	}
}

// Write transmits data and describes the outcome as a TX message
func (s *Session) Write(data []byte) components.DataMsg {
	msg := components.DataMsg{
		Timestamp: time.Now(),
		Data:      data,
		Direction: components.TX,
	}

	s.mu.Lock()
	port := s.port
	s.mu.Unlock()

	if port == nil {
		msg.Err = serial.ErrPortClosed
		return msg
	}

	for written := 0; written < len(data); {
		n, err := port.Write(data[written:])
		written += n
		if err != nil {
			msg.Err = err
			break
		}
	}
	return msg
}

// Cleanup stops the reader and closes the port
func (s *Session) Cleanup() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		s.port.Close()
		s.port = nil
	}
}
