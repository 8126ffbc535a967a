// Package domain defines the core types and collaborator interfaces for the
// push notification relay: notifications, device tokens, webhook payloads, and
// the store/cache contracts implemented by the adapter packages.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a single push notification request. It is constructed once
// per delivery attempt (from the direct API body or the webhook mapper),
// resolved to destination tokens exactly once, and then discarded.
type Notification struct {
	Title    string     `json:"title,omitempty"`
	Body     string     `json:"body,omitempty"`
	UserID   *uuid.UUID `json:"userId,omitempty"`
	Username string     `json:"username,omitempty"`
	IsAdmin  bool       `json:"isAdmin"`

	// Destinations holds the resolved device push tokens. It is empty until
	// the resolver populates it.
	Destinations []string `json:"-"`
}

// HasUserTarget reports whether the notification names an explicit user,
// either by id or by username. A named-but-unknown username still counts as a
// user target: it suppresses the broadcast fallback rather than spamming
// every device.
func (n *Notification) HasUserTarget() bool {
	return n.UserID != nil || n.Username != ""
}

// DeliveryReceipt is the per-notification result returned by the push
// gateway. Status is "ok" or "error"; Detail carries the gateway's message
// for failures.
type DeliveryReceipt struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Ok reports whether the receipt indicates a successful hand-off.
func (r DeliveryReceipt) Ok() bool {
	return r.Status == ReceiptOK
}

// Receipt status values.
const (
	ReceiptOK    = "ok"
	ReceiptError = "error"
)

// Dispatch outcome values.
const (
	// DispatchAccepted means the request was valid but there was nothing to
	// send (no registered devices, or every notification resolved to zero
	// destinations).
	DispatchAccepted = "accepted"
	// DispatchSent means at least one notification was handed to the push
	// gateway.
	DispatchSent = "sent"
)

// DispatchResult is the aggregate outcome of dispatching one batch.
type DispatchResult struct {
	Status   string            `json:"status"`
	Receipts []DeliveryReceipt `json:"receipts,omitempty"`
}

// DeviceToken associates a client device with the push token it registered.
// The store owns these rows; the notification core only ever reads them.
type DeviceToken struct {
	DeviceID  uuid.UUID `json:"deviceId"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"token"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// User is the mirrored view of a media-server account. Only the fields the
// targeting resolver needs are kept.
type User struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	IsAdministrator bool      `json:"isAdministrator"`
}
