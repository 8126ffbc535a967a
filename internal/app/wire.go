package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pushrelay/pushrelay/internal/cache/redis"
	"github.com/pushrelay/pushrelay/internal/config"
	"github.com/pushrelay/pushrelay/internal/dedup"
	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/events"
	"github.com/pushrelay/pushrelay/internal/localization"
	"github.com/pushrelay/pushrelay/internal/notification"
	"github.com/pushrelay/pushrelay/internal/push"
	"github.com/pushrelay/pushrelay/internal/server/handler"
	"github.com/pushrelay/pushrelay/internal/store/postgres"
)

// Dependencies bundles everything the server needs to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores
	DeviceTokens domain.DeviceTokenStore
	Users        domain.UserStore
	Settings     domain.SettingsStore

	// Caches and messaging
	RateLimiter domain.RateLimiter
	SignalBus   domain.SignalBus
	DedupCache  *dedup.Cache

	// Notification pipeline
	Mapper     *notification.Mapper
	Dispatcher *notification.Dispatcher
	Reaper     *events.Reaper

	// Health checks
	HealthDeps []handler.Dependency
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	deps.DeviceTokens = postgres.NewDeviceTokenStore(pgClient)
	deps.Users = postgres.NewUserStore(pgClient)
	deps.Settings = postgres.NewSettingsStore(pgClient)

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.RateLimiter = redis.NewRateLimiter(redisClient)
	deps.SignalBus = redis.NewSignalBus(redisClient)

	// --- Dedup cache and reaper ---
	deps.DedupCache = dedup.New(dedup.WithThresholds(
		cfg.Dedup.RecentThreshold.Duration,
		cfg.Dedup.CleanupThreshold.Duration,
	))
	deps.Reaper = events.NewReaper(deps.DedupCache, cfg.Dedup.CleanupSchedule, logger)

	// --- Notification pipeline ---
	catalog, err := localization.Load("en", logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: localization: %w", err)
	}

	deps.Mapper = notification.NewMapper(catalog, logger)
	resolver := notification.NewResolver(deps.DeviceTokens, deps.Users, logger)
	sender := push.NewExpoSender(cfg.Push.Endpoint, cfg.Push.Timeout.Duration)
	deps.Dispatcher = notification.NewDispatcher(deps.DeviceTokens, resolver, sender, deps.SignalBus, logger)

	// --- Health checks ---
	deps.HealthDeps = []handler.Dependency{
		{Name: "postgres", Ping: pgClient.Ping},
		{Name: "redis", Ping: redisClient.Ping},
	}

	return deps, cleanup, nil
}
