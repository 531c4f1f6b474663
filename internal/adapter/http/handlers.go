package http

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/flxlfx/websocket-tutorials/internal/adapter/otel"
	"github.com/flxlfx/websocket-tutorials/internal/domain"
	"github.com/flxlfx/websocket-tutorials/internal/domain/webhook"
	"github.com/flxlfx/websocket-tutorials/internal/service"
)

// headerHookResource carries Sentry's resource tag; combined with the
// body hash it identifies one delivery for dedup purposes.
const headerHookResource = "Sentry-Hook-Resource"

// Handlers bundles the HTTP handlers and their dependencies.
type Handlers struct {
	Ingest   *service.Ingest
	Registry *service.Registry
	Valor    *service.SharedValue
	Metrics  *otel.Metrics

	// Port is echoed in the root response so browsers hitting the base
	// path get a usable ws:// URL.
	Port string

	// MaxBodyBytes caps webhook request bodies.
	MaxBodyBytes int64
}

// Root answers non-upgrade requests to the base path with a static hint.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Servidor WebSocket rodando. Conecte em ws://localhost:%s", h.Port)
}

// Health reports service status plus the live connection count and the
// current shared value.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	status := struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
		Valor   int64  `json:"valor"`
	}{
		Status:  "ok",
		Clients: h.Registry.Len(),
		Valor:   h.Valor.Read(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(status)
}

// SentryWebhook ingests a Sentry user-feedback delivery. The signature
// has already been checked by middleware. Only created events notify;
// everything else is acknowledged and dropped.
func (h *Handlers) SentryWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.MaxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	ev, err := webhook.ParseFeedback(body)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedPayload) {
			slog.Warn("webhook payload rejected", "error", err)
			http.Error(w, "malformed payload", http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if !ev.Created() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ignored"))
		return
	}

	if h.Metrics != nil {
		h.Metrics.WebhookDeliveries.Add(r.Context(), 1)
	}

	h.Ingest.HandleFeedback(r.Context(), deliveryKey(r.Header.Get(headerHookResource), body), ev)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// deliveryKey derives a stable identifier for one webhook delivery.
// Sentry redelivers the same body on slow responses; resource + body
// hash collapses those retries.
func deliveryKey(resource string, body []byte) string {
	sum := sha256.Sum256(body)
	return resource + ":" + hex.EncodeToString(sum[:])
}
