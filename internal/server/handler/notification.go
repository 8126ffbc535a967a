package handler

import (
	"log/slog"
	"net/http"

	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/notification"
)

// NotificationHandler serves the direct notification API used by server
// plugins and scripts.
type NotificationHandler struct {
	dispatcher *notification.Dispatcher
	logger     *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(dispatcher *notification.Dispatcher, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher, logger: logHandler(logger, "notification")}
}

// Dispatch accepts a batch of notifications and pushes them out. Answers 202
// when the batch produced nothing to send, 200 with per-item receipts
// otherwise.
// POST /api/notification
func (h *NotificationHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var batch []domain.Notification
	if err := decodeJSON(r, &batch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), batch)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dispatch failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to dispatch notifications")
		return
	}

	status := http.StatusOK
	if result.Status == domain.DispatchAccepted {
		status = http.StatusAccepted
	}
	writeJSON(w, status, result)
}
