package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flxlfx/websocket-tutorials/internal/middleware"
)

// MountCore attaches the base path, health and WebSocket routes.
func MountCore(r chi.Router, h *Handlers, wsHandler http.HandlerFunc) {
	r.Get("/", h.Root)
	r.Get("/healthz", h.Health)
	r.Get("/ws", wsHandler)
}

// MountWebhooks attaches the signed webhook routes. Can be mounted on
// the main router or on a dedicated listener's router.
func MountWebhooks(r chi.Router, h *Handlers, sentrySecret string) {
	r.Route("/webhooks", func(r chi.Router) {
		r.With(middleware.WebhookHMAC(sentrySecret, "Sentry-Hook-Signature")).
			Post("/sentry", h.SentryWebhook)
	})
}
