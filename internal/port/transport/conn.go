// Package transport defines the port between the relay core and the
// connection transport. The transport owns the physical connection; the
// core only ever holds this send-side reference.
package transport

import "context"

// Conn is a non-owning handle to one live bidirectional client channel.
type Conn interface {
	// Send delivers one text payload to the client. A failed send leaves
	// the connection to the transport's own close detection; callers must
	// not unregister on error.
	Send(ctx context.Context, payload []byte) error
}
