package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pushrelay/pushrelay/internal/domain"
)

// DeviceHandler manages device token registrations.
type DeviceHandler struct {
	store  domain.DeviceTokenStore
	logger *slog.Logger
}

// NewDeviceHandler creates a DeviceHandler backed by the given store.
func NewDeviceHandler(store domain.DeviceTokenStore, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{store: store, logger: logHandler(logger, "device")}
}

type registerDeviceRequest struct {
	DeviceID uuid.UUID `json:"deviceId"`
	UserID   uuid.UUID `json:"userId"`
	Token    string    `json:"token"`
}

// Register stores or refreshes the push token for a device.
// POST /api/device
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeviceID == uuid.Nil || req.UserID == uuid.Nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "deviceId, userId and token are required")
		return
	}

	stored, err := h.store.Upsert(r.Context(), domain.DeviceToken{
		DeviceID: req.DeviceID,
		UserID:   req.UserID,
		Token:    req.Token,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "device registration failed",
			slog.String("device_id", req.DeviceID.String()),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to register device")
		return
	}

	h.logger.InfoContext(r.Context(), "device registered",
		slog.String("device_id", stored.DeviceID.String()),
		slog.String("user_id", stored.UserID.String()),
	)
	writeJSON(w, http.StatusOK, stored)
}

// Remove deletes the registration for a device.
// DELETE /api/device/{deviceId}
func (h *DeviceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	deviceID, err := uuid.Parse(pathParam(r, "deviceId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid device id")
		return
	}

	if err := h.store.Remove(r.Context(), deviceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "device not registered")
			return
		}
		h.logger.ErrorContext(r.Context(), "device removal failed",
			slog.String("device_id", deviceID.String()),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to remove device")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
