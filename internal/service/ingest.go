package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flxlfx/websocket-tutorials/internal/domain/webhook"
	"github.com/flxlfx/websocket-tutorials/internal/port/broadcast"
	"github.com/flxlfx/websocket-tutorials/internal/port/cache"
	"github.com/flxlfx/websocket-tutorials/internal/port/notifier"
	"github.com/flxlfx/websocket-tutorials/internal/port/tracker"
)

// maxNotifyConcurrency bounds the outbound fan-out per webhook delivery.
const maxNotifyConcurrency = 4

// Ingest turns validated webhook events into dashboard broadcasts and
// outbound notifications. Deliveries are deduplicated because Sentry
// retries webhooks on slow responses.
type Ingest struct {
	b         broadcast.Broadcaster
	tracker   tracker.Tracker
	notifiers []notifier.Notifier
	dedup     cache.Cache
	dedupTTL  time.Duration
}

// NewIngest wires the ingest pipeline. tracker and dedup may be nil when
// the deployment has no issue tracker or no dedup cache configured.
func NewIngest(b broadcast.Broadcaster, t tracker.Tracker, notifiers []notifier.Notifier, dedup cache.Cache, dedupTTL time.Duration) *Ingest {
	return &Ingest{
		b:         b,
		tracker:   t,
		notifiers: notifiers,
		dedup:     dedup,
		dedupTTL:  dedupTTL,
	}
}

// HandleFeedback processes one created-feedback event. deliveryKey
// identifies the delivery for dedup purposes; an already-seen key is
// acknowledged without side effects. Outbound failures are logged and
// never propagated to the webhook response.
func (s *Ingest) HandleFeedback(ctx context.Context, deliveryKey string, ev *webhook.FeedbackEvent) {
	if s.seen(ctx, deliveryKey) {
		slog.Info("duplicate webhook delivery skipped", "key", deliveryKey)
		return
	}

	s.b.NotifyAll(ctx, ev.BroadcastText())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxNotifyConcurrency)

	if s.tracker != nil {
		g.Go(func() error {
			if err := s.tracker.CreateStory(gctx, ev); err != nil {
				slog.Error("tracker forward failed", "error", err)
			}
			return nil
		})
	}

	n := notifier.Notification{
		Title:   "Novo feedback",
		Message: ev.BroadcastText(),
		Source:  "sentry.feedback",
	}
	for _, nt := range s.notifiers {
		g.Go(func() error {
			if err := nt.Send(gctx, n); err != nil {
				slog.Error("notifier send failed", "notifier", nt.Name(), "error", err)
			}
			return nil
		})
	}

	_ = g.Wait()
}

// seen records deliveryKey in the dedup cache and reports whether it was
// already there. Without a cache every delivery is treated as new.
func (s *Ingest) seen(ctx context.Context, deliveryKey string) bool {
	if s.dedup == nil || deliveryKey == "" {
		return false
	}
	if _, ok, err := s.dedup.Get(ctx, deliveryKey); err == nil && ok {
		return true
	}
	if err := s.dedup.Set(ctx, deliveryKey, []byte{1}, s.dedupTTL); err != nil {
		slog.Warn("dedup cache set failed", "key", deliveryKey, "error", err)
	}
	return false
}
