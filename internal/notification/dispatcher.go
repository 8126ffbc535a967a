package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pushrelay/pushrelay/internal/domain"
)

// activityChannel is the signal-bus channel dispatch summaries are published
// to for the live activity feed.
const activityChannel = "notifications"

// Sender is the outbound push gateway. The dispatcher treats Send as one
// blocking call per batch and surfaces its per-item receipts unmodified;
// retries, if any, are the sender's business.
type Sender interface {
	Send(ctx context.Context, batch []domain.Notification) ([]domain.DeliveryReceipt, error)
}

// Dispatcher composes validation, targeting resolution, and delivery over a
// batch of notifications.
type Dispatcher struct {
	tokens   domain.TokenDirectory
	resolver *Resolver
	sender   Sender
	bus      domain.SignalBus // optional; nil disables the activity feed
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher. bus may be nil.
func NewDispatcher(tokens domain.TokenDirectory, resolver *Resolver, sender Sender, bus domain.SignalBus, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		tokens:   tokens,
		resolver: resolver,
		sender:   sender,
		bus:      bus,
		logger:   logger.With(slog.String("component", "dispatcher")),
	}
}

// Dispatch validates and resolves each notification in input order, drops the
// unsendable and the destination-less, and hands the surviving batch to the
// sender in a single call. An empty outcome is not an error: push delivery is
// best-effort and must never fail the media server's request path.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []domain.Notification) (domain.DispatchResult, error) {
	total, err := d.tokens.TotalDeviceCount(ctx)
	if err != nil {
		return domain.DispatchResult{}, err
	}
	if total == 0 {
		d.logger.InfoContext(ctx, "dispatcher: no devices registered, nothing to do")
		return domain.DispatchResult{Status: domain.DispatchAccepted}, nil
	}

	valid := make([]domain.Notification, 0, len(batch))
	for i := range batch {
		n := batch[i]
		if !IsSendable(n.Title, n.Body) {
			d.logger.DebugContext(ctx, "dispatcher: dropping unsendable notification",
				slog.String("title", n.Title),
			)
			continue
		}
		d.resolver.Resolve(ctx, &n)
		if len(n.Destinations) == 0 {
			d.logger.DebugContext(ctx, "dispatcher: no destinations resolved, dropping",
				slog.String("username", n.Username),
				slog.Bool("is_admin", n.IsAdmin),
			)
			continue
		}
		valid = append(valid, n)
	}

	d.logger.InfoContext(ctx, "dispatcher: batch resolved",
		slog.Int("received", len(batch)),
		slog.Int("sendable", len(valid)),
	)

	if len(valid) == 0 {
		return domain.DispatchResult{Status: domain.DispatchAccepted}, nil
	}

	receipts, err := d.sender.Send(ctx, valid)
	if err != nil {
		return domain.DispatchResult{}, err
	}

	result := domain.DispatchResult{Status: domain.DispatchSent, Receipts: receipts}
	d.publishActivity(ctx, valid, result)
	return result, nil
}

// publishActivity pushes a dispatch summary onto the signal bus for connected
// dashboards. Failures are logged and swallowed; the feed is best-effort.
func (d *Dispatcher) publishActivity(ctx context.Context, sent []domain.Notification, result domain.DispatchResult) {
	if d.bus == nil {
		return
	}

	delivered, failed := 0, 0
	for _, r := range result.Receipts {
		if r.Ok() {
			delivered++
		} else {
			failed++
		}
	}
	destinations := 0
	for _, n := range sent {
		destinations += len(n.Destinations)
	}

	payload, err := json.Marshal(map[string]any{
		"type": "dispatch",
		"payload": map[string]any{
			"notifications": len(sent),
			"destinations":  destinations,
			"delivered":     delivered,
			"failed":        failed,
		},
	})
	if err != nil {
		return
	}

	if err := d.bus.Publish(ctx, activityChannel, payload); err != nil {
		d.logger.WarnContext(ctx, "dispatcher: activity publish failed",
			slog.String("error", err.Error()),
		)
	}
}
