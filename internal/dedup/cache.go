// Package dedup provides a concurrent, time-bounded suppression cache used to
// collapse duplicate events raised within a short window. Entries are volatile
// and in-memory; a restart forgets everything, which is acceptable for
// best-effort push notifications.
package dedup

import (
	"sync"
	"time"
)

// Default thresholds, matching the behaviour event producers expect unless
// they override them.
const (
	DefaultRecentThreshold  = 5 * time.Second
	DefaultCleanupThreshold = 5 * time.Minute
)

// Thresholds is implemented by event producers that want non-default windows.
// RecentThreshold is the rolling cool-down during which a repeated key is
// suppressed; CleanupThreshold is the additional grace period before a stale
// entry becomes eligible for reaping.
type Thresholds interface {
	RecentThreshold() time.Duration
	CleanupThreshold() time.Duration
}

// Cache suppresses duplicate event processing per key. It is safe for
// concurrent use without external locking: the unit of atomicity is a per-key
// compare-and-swap, so a refresh and a cleanup sweep can never race into a
// lost update.
type Cache struct {
	recent  time.Duration
	cleanup time.Duration
	now     func() time.Time

	// key (string) -> last accepted time (time.Time)
	entries sync.Map
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Tests use this to step time manually.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithThresholds overrides the default recent and cleanup thresholds.
// Non-positive values keep the defaults.
func WithThresholds(recent, cleanup time.Duration) Option {
	return func(c *Cache) {
		if recent > 0 {
			c.recent = recent
		}
		if cleanup > 0 {
			c.cleanup = cleanup
		}
	}
}

// New creates an empty Cache. Callers are responsible for invoking Cleanup
// periodically (roughly once per cleanup threshold); absent cleanup the map
// grows by the number of distinct keys seen, but entries never block forever.
func New(opts ...Option) *Cache {
	c := &Cache{
		recent:  DefaultRecentThreshold,
		cleanup: DefaultCleanupThreshold,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShouldProcess reports whether an event with the given key should be
// processed now, using the cache's default recent threshold. A true return
// also records the key, so the suppression window restarts on every accepted
// call (rolling cool-down, not a fixed bucket). A false return leaves the
// recorded time untouched.
func (c *Cache) ShouldProcess(key string) bool {
	return c.ShouldProcessWithin(key, c.recent)
}

// ShouldProcessFor is ShouldProcess with the producer's own thresholds.
func (c *Cache) ShouldProcessFor(key string, t Thresholds) bool {
	return c.ShouldProcessWithin(key, t.RecentThreshold())
}

// ShouldProcessWithin is ShouldProcess with an explicit recent threshold.
func (c *Cache) ShouldProcessWithin(key string, recent time.Duration) bool {
	now := c.now()
	for {
		prev, loaded := c.entries.LoadOrStore(key, now)
		if !loaded {
			// First sighting; the key is now recorded.
			return true
		}

		last := prev.(time.Time)
		if now.Sub(last) < recent {
			// Seen recently; suppress without refreshing the window.
			return false
		}

		// Stale entry: refresh it, but only if nobody beat us to it. A lost
		// CAS means another goroutine refreshed (or cleanup deleted) the
		// entry between our load and swap, so re-evaluate from scratch.
		if c.entries.CompareAndSwap(key, prev, now) {
			return true
		}
	}
}

// Cleanup removes every entry whose last accepted time is older than
// recent+cleanup and returns the number of entries removed. It is idempotent
// and safe to run concurrently with ShouldProcess: the conditional delete
// only fires on the exact stale value observed, so a concurrently refreshed
// key survives.
func (c *Cache) Cleanup() int {
	return c.CleanupOlderThan(c.recent + c.cleanup)
}

// CleanupOlderThan removes entries whose last accepted time is at least
// maxAge in the past.
func (c *Cache) CleanupOlderThan(maxAge time.Duration) int {
	cutoff := c.now().Add(-maxAge)
	removed := 0
	c.entries.Range(func(key, value any) bool {
		last := value.(time.Time)
		if last.After(cutoff) {
			return true
		}
		if c.entries.CompareAndDelete(key, value) {
			removed++
		}
		return true
	})
	return removed
}

// Len returns the number of live entries. Intended for metrics and tests.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
