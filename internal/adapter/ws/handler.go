// Package ws implements the WebSocket transport adapter. It owns the
// physical connections and drives the relay core through the four
// lifecycle events: open, message, close, error.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/flxlfx/websocket-tutorials/internal/adapter/otel"
	"github.com/flxlfx/websocket-tutorials/internal/port/transport"
	"github.com/flxlfx/websocket-tutorials/internal/service"
)

// writeTimeout caps one send to one client so a backpressured peer
// cannot stall a broadcast indefinitely.
const writeTimeout = 5 * time.Second

var _ transport.Conn = (*conn)(nil)

// conn adapts a websocket.Conn to the core's send-only port. Writes are
// serialized by the underlying library, so concurrent broadcasts are safe.
type conn struct {
	ws *websocket.Conn
}

func (c *conn) Send(ctx context.Context, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.ws.Write(ctx, websocket.MessageText, payload)
}

// Handler upgrades HTTP requests to WebSocket connections and runs one
// read loop per connection.
type Handler struct {
	clients *service.ClientService
	metrics *otel.Metrics
}

// NewHandler creates the transport handler. metrics may be nil when
// telemetry is disabled.
func NewHandler(clients *service.ClientService, metrics *otel.Metrics) *Handler {
	return &Handler{clients: clients, metrics: metrics}
}

// HandleWS upgrades the request and blocks in the read loop until the
// client disconnects. Running the loop on the request goroutine keeps
// messages from one client strictly ordered.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	ctx := r.Context()
	c := &conn{ws: sock}

	id, err := h.clients.OnOpen(ctx, c)
	if err != nil {
		slog.Error("websocket registration failed", "error", err)
		_ = sock.Close(websocket.StatusInternalError, "registration failed")
		return
	}
	slog.Debug("websocket connected", "client_id", id, "remote", r.RemoteAddr)

	for {
		_, data, err := sock.Read(ctx)
		if err != nil {
			h.closeConn(ctx, id, sock, err)
			return
		}
		if h.metrics != nil {
			h.metrics.MessagesIn.Add(ctx, 1)
		}
		h.clients.OnMessage(ctx, id, data)
	}
}

// closeConn maps a read error to the error/close lifecycle events. A
// normal close status goes straight to OnClose; anything else is
// reported via OnError first, then closed.
func (h *Handler) closeConn(ctx context.Context, id string, sock *websocket.Conn, err error) {
	var ce websocket.CloseError
	if errors.As(err, &ce) {
		h.clients.OnClose(id, int(ce.Code), ce.Reason)
	} else {
		if ctx.Err() == nil {
			h.clients.OnError(id, err)
		}
		h.clients.OnClose(id, int(websocket.StatusAbnormalClosure), "")
	}
	_ = sock.Close(websocket.StatusNormalClosure, "")
}
