// Package service implements the relay core: the connection registry,
// the shared value, the broadcast relay and the per-connection lifecycle.
package service

import (
	"sync"

	"github.com/flxlfx/websocket-tutorials/internal/domain"
	"github.com/flxlfx/websocket-tutorials/internal/port/transport"
)

// Entry pairs a client identity with its connection reference.
type Entry struct {
	ID   string
	Conn transport.Conn
}

// Registry is the single owner of the identity→connection mapping. All
// methods are safe for concurrent use from many connection handlers.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]transport.Conn
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]transport.Conn),
	}
}

// Register inserts a new entry. Returns domain.ErrDuplicateIdentity if
// the identity is already present; the existing entry is never
// overwritten.
func (r *Registry) Register(id string, conn transport.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[id]; exists {
		return domain.ErrDuplicateIdentity
	}
	r.conns[id] = conn
	return nil
}

// Unregister removes the entry for id. Removing an absent identity is a
// no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conns, id)
}

// Snapshot returns a point-in-time copy of all entries. Iterating the
// result is safe while other goroutines register and unregister; sends
// must happen against the snapshot, never under the registry lock.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.conns))
	for id, conn := range r.conns {
		entries = append(entries, Entry{ID: id, Conn: conn})
	}
	return entries
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
