// Package server assembles the HTTP API: routing, middleware, and lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/server/handler"
	"github.com/pushrelay/pushrelay/internal/server/middleware"
	"github.com/pushrelay/pushrelay/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// Webhook rate limit, applied per client IP.
	WebhookRateLimit  int
	WebhookRateWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health       *handler.HealthHandler
	Device       *handler.DeviceHandler
	Notification *handler.NotificationHandler
	Webhook      *handler.WebhookHandler
	Users        *handler.UserHandler
	Settings     *handler.SettingsHandler
}

// Server is the HTTP + WebSocket API for the push relay.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS, auth) and attaches the WebSocket hub.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Device registration.
	mux.HandleFunc("POST /api/device", handlers.Device.Register)
	mux.HandleFunc("DELETE /api/device/{deviceId}", handlers.Device.Remove)

	// Direct notification API.
	mux.HandleFunc("POST /api/notification", handlers.Notification.Dispatch)

	// Webhook ingestion, rate limited per client IP.
	var webhook http.Handler = http.HandlerFunc(handlers.Webhook.Receive)
	if limiter != nil && cfg.WebhookRateLimit > 0 {
		webhook = middleware.RateLimit(limiter, cfg.WebhookRateLimit, cfg.WebhookRateWindow)(webhook)
	}
	mux.Handle("POST /api/notification/seerr", webhook)

	// User mirror sync.
	mux.HandleFunc("PUT /api/users", handlers.Users.Sync)

	// Settings document.
	mux.HandleFunc("GET /api/settings", handlers.Settings.GetJSON)
	mux.HandleFunc("GET /api/settings/default", handlers.Settings.GetDefault)
	mux.HandleFunc("GET /api/settings/yaml", handlers.Settings.GetYAML)
	mux.HandleFunc("POST /api/settings/yaml", handlers.Settings.PutYAML)

	// Activity feed.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain.
	var h http.Handler = mux

	// Apply auth middleware (skips if APIKey is empty).
	h = middleware.Auth(cfg.APIKey)(h)

	// Apply request logging middleware.
	h = middleware.Logging(logger)(h)

	// Apply CORS middleware.
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
