// Package broadcast defines the ingest port for pushing system-generated
// messages to every connected client from outside the connection path.
package broadcast

import "context"

// Broadcaster fans a message out to all currently connected clients.
type Broadcaster interface {
	// NotifyAll delivers message to every live connection, best effort.
	// Per-connection failures are logged and never surfaced.
	NotifyAll(ctx context.Context, message string)
}
