// Package events names the notification producers and their duplicate
// suppression windows. Producers share one dedup cache but differ in how
// aggressively repeats should be collapsed.
package events

import (
	"strings"
	"time"

	"github.com/pushrelay/pushrelay/internal/dedup"
)

// Kind identifies a notification producer and carries its suppression
// thresholds.
type Kind struct {
	Name    string
	recent  time.Duration
	cleanup time.Duration
}

// Producers. Webhook retries arrive within seconds; session and library
// producers repeat over longer horizons.
var (
	Webhook      = Kind{Name: "webhook", recent: 5 * time.Second, cleanup: 5 * time.Minute}
	SessionStart = Kind{Name: "session-start", recent: time.Minute, cleanup: 30 * time.Minute}
	ItemAdded    = Kind{Name: "item-added", recent: 10 * time.Minute, cleanup: time.Hour}
)

// RecentThreshold is the window within which a repeated key is suppressed.
func (k Kind) RecentThreshold() time.Duration {
	return k.recent
}

// CleanupThreshold is the age after which the reaper may drop an entry.
func (k Kind) CleanupThreshold() time.Duration {
	return k.cleanup
}

// Key builds the cache key for this producer from its identifying parts.
// Empty parts are kept so that distinct events with partially missing fields
// still map to distinct keys.
func (k Kind) Key(parts ...string) string {
	return k.Name + ":" + strings.Join(parts, ":")
}

var _ dedup.Thresholds = Kind{}
