package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/settings"
)

// SettingsHandler hosts the client settings document. The stored form is
// YAML, edited by administrators; clients consume the same document as JSON.
type SettingsHandler struct {
	store  domain.SettingsStore
	logger *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler backed by the given store.
func NewSettingsHandler(store domain.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{store: store, logger: logHandler(logger, "settings")}
}

// GetYAML serves the stored YAML document, falling back to the default
// document when nothing has been saved.
// GET /api/settings/yaml
func (h *SettingsHandler) GetYAML(w http.ResponseWriter, r *http.Request) {
	doc, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

// PutYAML validates and stores a new YAML document. The raw bytes are stored
// as posted so administrator comments and ordering survive the round-trip.
// POST /api/settings/yaml
func (h *SettingsHandler) PutYAML(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if _, err := settings.ParseYAML(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Put(r.Context(), string(body)); err != nil {
		h.logger.ErrorContext(r.Context(), "settings save failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	h.logger.InfoContext(r.Context(), "settings updated", slog.Int("bytes", len(body)))
	w.WriteHeader(http.StatusNoContent)
}

// GetJSON serves the current document as JSON for client apps.
// GET /api/settings
func (h *SettingsHandler) GetJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := h.load(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	cfg, err := settings.ParseYAML([]byte(doc))
	if err != nil {
		// A stored document that no longer parses means the schema moved
		// underneath it. Serve defaults rather than breaking every client.
		h.logger.ErrorContext(r.Context(), "stored settings invalid", slog.String("error", err.Error()))
		cfg = settings.Default()
	}

	out, err := cfg.ToJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render settings")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// GetDefault serves the built-in default document as JSON.
// GET /api/settings/default
func (h *SettingsHandler) GetDefault(w http.ResponseWriter, r *http.Request) {
	out, err := settings.Default().ToJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render settings")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (h *SettingsHandler) load(r *http.Request) (string, error) {
	doc, err := h.store.Get(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		return settings.Default().ToYAML()
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "settings load failed", slog.String("error", err.Error()))
		return "", err
	}
	return doc, nil
}
