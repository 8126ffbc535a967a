package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pushrelay/pushrelay/internal/domain"
)

// UserHandler ingests the mirrored user list from the media server.
type UserHandler struct {
	store  domain.UserStore
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler backed by the given store.
func NewUserHandler(store domain.UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: store, logger: logHandler(logger, "users")}
}

// Sync replaces the stored attributes of the posted users.
// PUT /api/users
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var users []domain.User
	if err := decodeJSON(r, &users); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, u := range users {
		if u.ID == uuid.Nil || u.Username == "" {
			writeError(w, http.StatusBadRequest, "every user needs an id and a username")
			return
		}
	}

	if err := h.store.UpsertBatch(r.Context(), users); err != nil {
		h.logger.ErrorContext(r.Context(), "user sync failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to sync users")
		return
	}

	h.logger.InfoContext(r.Context(), "users synced", slog.Int("count", len(users)))
	w.WriteHeader(http.StatusNoContent)
}
