package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/flxlfx/websocket-tutorials/internal/service"
)

const meterName = "websocket-relay"

// Metrics holds the relay's metric instruments.
type Metrics struct {
	MessagesIn        metric.Int64Counter
	WebhookDeliveries metric.Int64Counter
}

// NewMetrics creates the metric instruments and registers an observable
// gauge over the registry's live connection count.
func NewMetrics(reg *service.Registry) (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.MessagesIn, err = meter.Int64Counter("relay.messages.in",
		metric.WithDescription("Inbound WebSocket messages received"))
	if err != nil {
		return nil, err
	}

	m.WebhookDeliveries, err = meter.Int64Counter("relay.webhook.deliveries",
		metric.WithDescription("Webhook deliveries accepted"))
	if err != nil {
		return nil, err
	}

	_, err = meter.Int64ObservableGauge("relay.connections",
		metric.WithDescription("Live WebSocket connections"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(reg.Len()))
			return nil
		}))
	if err != nil {
		return nil, err
	}

	return m, nil
}
