package handler

import (
	"log/slog"
	"net/http"

	"github.com/pushrelay/pushrelay/internal/dedup"
	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/events"
	"github.com/pushrelay/pushrelay/internal/notification"
)

// WebhookHandler ingests request-manager webhooks and turns them into push
// notifications. It never signals failure upstream: a payload it cannot use
// is acknowledged and dropped, because webhook senders retry on errors and a
// retry cannot improve a malformed payload.
type WebhookHandler struct {
	cache      *dedup.Cache
	mapper     *notification.Mapper
	dispatcher *notification.Dispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(cache *dedup.Cache, mapper *notification.Mapper, dispatcher *notification.Dispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cache:      cache,
		mapper:     mapper,
		dispatcher: dispatcher,
		logger:     logHandler(logger, "webhook"),
	}
}

// Receive handles one webhook delivery.
// POST /api/notification/seerr
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload domain.WebhookPayload
	if err := decodeJSON(r, &payload); err != nil {
		h.logger.DebugContext(r.Context(), "unparseable webhook payload", slog.String("error", err.Error()))
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ignored"})
		return
	}

	key := events.Webhook.Key(payload.NotificationType, payload.Subject)
	if !h.cache.ShouldProcessFor(key, events.Webhook) {
		h.logger.DebugContext(r.Context(), "duplicate webhook suppressed",
			slog.String("event", payload.NotificationType),
			slog.String("subject", payload.Subject),
		)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "duplicate"})
		return
	}

	n := h.mapper.MapToNotification(&payload)
	if n == nil {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ignored"})
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), []domain.Notification{*n})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "webhook dispatch failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to dispatch notification")
		return
	}

	status := http.StatusOK
	if result.Status == domain.DispatchAccepted {
		status = http.StatusAccepted
	}
	writeJSON(w, status, result)
}
