package domain

import (
	"context"
	"time"
)

// RateLimiter limits request rates per key. Implementations are expected to
// be safe for concurrent use across processes.
type RateLimiter interface {
	// Allow reports whether a request for key is permitted under the given
	// sliding-window limit, counting the request when it is.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// SignalBus is a lightweight publish/subscribe channel used to fan dispatch
// activity out to connected dashboards. Delivery is best-effort.
type SignalBus interface {
	// Publish sends a raw payload to a named channel.
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of payloads published to the named
	// channel. The returned channel is closed when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
