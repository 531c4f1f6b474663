package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flxlfx/websocket-tutorials/internal/domain/message"
	"github.com/flxlfx/websocket-tutorials/internal/port/transport"
)

// ClientService drives the lifecycle of one connection through the four
// transport events: open, message, close and error. The transport calls
// these from a single goroutine per connection, which preserves
// per-client message order; calls for different connections run
// concurrently.
type ClientService struct {
	reg   *Registry
	valor *SharedValue
	relay *Relay
}

// NewClientService wires the lifecycle over the registry, shared value
// and relay.
func NewClientService(reg *Registry, valor *SharedValue, relay *Relay) *ClientService {
	return &ClientService{
		reg:   reg,
		valor: valor,
		relay: relay,
	}
}

// OnOpen assigns a fresh identity, registers the connection, and sends
// the greeting plus the current shared value to this client only. The
// returned identity keys every later event for this connection.
func (s *ClientService) OnOpen(ctx context.Context, conn transport.Conn) (string, error) {
	id := uuid.NewString()

	if err := s.reg.Register(id, conn); err != nil {
		return "", err
	}
	slog.Info("client connected", "client_id", id, "clients", s.reg.Len())

	if err := conn.Send(ctx, []byte(message.Welcome(id))); err != nil {
		slog.Warn("welcome send failed", "client_id", id, "error", err)
	}
	payload, err := message.ValorPayload(s.valor.Read())
	if err != nil {
		slog.Error("valor marshal failed", "error", err)
		return id, nil
	}
	if err := conn.Send(ctx, payload); err != nil {
		slog.Warn("valor replay failed", "client_id", id, "error", err)
	}

	return id, nil
}

// OnMessage classifies one inbound client message and triggers exactly
// one broadcast: a shared-value replacement for an unambiguous update
// command, a chat broadcast for everything else.
func (s *ClientService) OnMessage(ctx context.Context, id string, data []byte) {
	in := message.ParseInbound(data)

	switch in.Kind {
	case message.KindUpdateValor:
		stored := s.valor.Replace(in.Valor)
		slog.Info("valor updated", "valor", stored, "client_id", id)
		s.relay.BroadcastValor(ctx, stored)
	default:
		slog.Debug("chat message", "client_id", id)
		s.relay.BroadcastText(ctx, id, in.Text)
	}
}

// OnClose removes the connection from the registry. No departure
// broadcast is sent. Safe to call for an already-removed identity.
func (s *ClientService) OnClose(id string, code int, reason string) {
	s.reg.Unregister(id)
	slog.Info("client disconnected", "client_id", id, "code", code, "reason", reason)
}

// OnError records a transport-reported error. It neither closes nor
// unregisters; the transport follows up with its own close signal.
func (s *ClientService) OnError(id string, err error) {
	slog.Error("websocket error", "client_id", id, "error", err)
}
