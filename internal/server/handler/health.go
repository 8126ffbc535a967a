package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Dependency is a named connectivity check included in the health report.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	deps   []Dependency
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler that reports on the given
// dependencies.
func NewHealthHandler(deps []Dependency, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{deps: deps, logger: logHandler(logger, "health")}
}

// HealthCheck responds with the server status and per-dependency
// connectivity. A failing dependency degrades the report but still answers
// 200; the process itself is alive.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := make(map[string]string, len(h.deps))
	for _, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "dependency unhealthy",
				slog.String("dependency", dep.Name),
				slog.String("error", err.Error()),
			)
			checks[dep.Name] = err.Error()
			status = "degraded"
			continue
		}
		checks[dep.Name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
