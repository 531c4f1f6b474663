package service

import (
	"context"
	"sync"

	"github.com/flxlfx/websocket-tutorials/internal/port/transport"
)

// Ensure mock types implement their interfaces at compile time.
var _ transport.Conn = (*mockConn)(nil)

// mockConn records every payload sent to it and can be told to fail.
type mockConn struct {
	mu       sync.Mutex
	payloads []string
	sendErr  error
}

func (m *mockConn) Send(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}
	m.payloads = append(m.payloads, string(payload))
	return nil
}

func (m *mockConn) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.payloads))
	copy(out, m.payloads)
	return out
}
