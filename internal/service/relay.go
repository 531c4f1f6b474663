package service

import (
	"context"
	"log/slog"

	"github.com/flxlfx/websocket-tutorials/internal/domain/message"
	"github.com/flxlfx/websocket-tutorials/internal/port/broadcast"
)

// Compile-time check: the relay is the ingest surface for webhook glue.
var _ broadcast.Broadcaster = (*Relay)(nil)

// Relay fans payloads out to the connections currently in the registry.
// Recipients are snapshotted before any send so a slow or broken
// connection never blocks registry mutations, and a failed send never
// aborts delivery to the rest.
type Relay struct {
	reg *Registry
}

// NewRelay creates a relay over the given registry.
func NewRelay(reg *Registry) *Relay {
	return &Relay{reg: reg}
}

// BroadcastText delivers a chat message to every live connection, the
// origin included. The origin receives the self-framed variant, everyone
// else the other-framed variant carrying the origin identity.
func (b *Relay) BroadcastText(ctx context.Context, originID, text string) {
	for _, e := range b.reg.Snapshot() {
		var payload string
		if e.ID == originID {
			payload = message.SelfText(originID, text)
		} else {
			payload = message.OtherText(originID, text)
		}
		b.send(ctx, e, []byte(payload))
	}
}

// BroadcastValor delivers the shared-value envelope to every live
// connection with no self/other distinction.
func (b *Relay) BroadcastValor(ctx context.Context, v int64) {
	payload, err := message.ValorPayload(v)
	if err != nil {
		slog.Error("valor marshal failed", "error", err)
		return
	}
	for _, e := range b.reg.Snapshot() {
		b.send(ctx, e, payload)
	}
}

// NotifyAll delivers a system-generated message to every live connection.
func (b *Relay) NotifyAll(ctx context.Context, msg string) {
	for _, e := range b.reg.Snapshot() {
		b.send(ctx, e, []byte(msg))
	}
}

// send pushes one payload to one recipient. Failures are logged and
// isolated; unregistering broken connections is the transport's job.
func (b *Relay) send(ctx context.Context, e Entry, payload []byte) {
	if err := e.Conn.Send(ctx, payload); err != nil {
		slog.Warn("broadcast send failed", "client_id", e.ID, "error", err)
	}
}
