// Package tracker defines the port for forwarding feedback events to an
// external issue tracker.
package tracker

import (
	"context"

	"github.com/flxlfx/websocket-tutorials/internal/domain/webhook"
)

// Tracker files feedback events as stories in an external tracker.
type Tracker interface {
	CreateStory(ctx context.Context, ev *webhook.FeedbackEvent) error
}
