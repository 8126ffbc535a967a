package events

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/pushrelay/pushrelay/internal/dedup"
)

// Reaper periodically sweeps stale entries out of the dedup cache so that a
// long-running server does not accumulate one entry per event ever seen.
type Reaper struct {
	cache    *dedup.Cache
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReaper creates a Reaper that runs on the given cron schedule.
func NewReaper(cache *dedup.Cache, schedule string, logger *slog.Logger) *Reaper {
	return &Reaper{
		cache:    cache,
		schedule: schedule,
		logger:   logger.With(slog.String("component", "reaper")),
	}
}

// Start registers the sweep job and starts the scheduler.
func (r *Reaper) Start() error {
	c := cron.New()
	_, err := c.AddFunc(r.schedule, func() {
		removed := r.cache.Cleanup()
		if removed > 0 {
			r.logger.Debug("dedup cache swept", slog.Int("removed", removed), slog.Int("remaining", r.cache.Len()))
		}
	})
	if err != nil {
		return fmt.Errorf("events: schedule reaper %q: %w", r.schedule, err)
	}

	c.Start()
	r.cron = c
	r.logger.Info("reaper started", slog.String("schedule", r.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (r *Reaper) Stop() {
	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("reaper stopped")
}
