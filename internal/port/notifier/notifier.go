// Package notifier defines the outbound notification port for
// deployments that want feedback pushed somewhere other than (or in
// addition to) the live dashboard.
package notifier

import "context"

// Notification is the payload sent through a Notifier.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Source  string `json:"source"` // e.g. "sentry.feedback"
}

// Notifier is the port interface for sending notifications.
type Notifier interface {
	// Name returns the unique identifier for this notifier (e.g. "telegram").
	Name() string

	// Send delivers a notification. Failures are logged by the caller and
	// never retried.
	Send(ctx context.Context, notification Notification) error
}
