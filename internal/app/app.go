// Package app provides the top-level application lifecycle management for the
// push relay. It wires together all dependencies (stores, caches, the
// notification pipeline) and runs the HTTP server, the activity feed hub, and
// the dedup reaper until shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pushrelay/pushrelay/internal/config"
	"github.com/pushrelay/pushrelay/internal/server"
	"github.com/pushrelay/pushrelay/internal/server/handler"
	"github.com/pushrelay/pushrelay/internal/server/ws"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the server
// and background workers, and blocks until the context is cancelled. On
// return it runs all registered cleanup functions.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
		slog.Int("port", a.cfg.Server.Port),
	)

	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	// Activity feed hub.
	hub := ws.NewHub(deps.SignalBus, a.logger)
	hubCtx, cancelHub := context.WithCancel(ctx)
	a.closers = append(a.closers, cancelHub)
	go func() {
		if err := hub.Run(hubCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("activity hub stopped", slog.String("error", err.Error()))
		}
	}()

	// Dedup reaper.
	if err := deps.Reaper.Start(); err != nil {
		return fmt.Errorf("app: start reaper: %w", err)
	}
	a.closers = append(a.closers, deps.Reaper.Stop)

	// HTTP server.
	handlers := server.Handlers{
		Health:       handler.NewHealthHandler(deps.HealthDeps, a.logger),
		Device:       handler.NewDeviceHandler(deps.DeviceTokens, a.logger),
		Notification: handler.NewNotificationHandler(deps.Dispatcher, a.logger),
		Webhook:      handler.NewWebhookHandler(deps.DedupCache, deps.Mapper, deps.Dispatcher, a.logger),
		Users:        handler.NewUserHandler(deps.Users, a.logger),
		Settings:     handler.NewSettingsHandler(deps.Settings, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:              a.cfg.Server.Port,
		CORSOrigins:       a.cfg.Server.CORSOrigins,
		APIKey:            a.cfg.Server.APIKey,
		WebhookRateLimit:  a.cfg.Webhook.RateLimit,
		WebhookRateWindow: a.cfg.Webhook.RateWindow.Duration,
	}, handlers, hub, deps.RateLimiter, a.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: server: %w", err)
		}
		return nil
	}
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
