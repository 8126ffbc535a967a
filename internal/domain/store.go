package domain

import (
	"context"

	"github.com/google/uuid"
)

// TokenDirectory is the read-only view of registered device tokens that the
// targeting resolver consumes. Implementations must treat a resolve call as a
// snapshot; the core never writes through this interface.
type TokenDirectory interface {
	// TokensForUser returns the push tokens registered by the given user.
	TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	// AllTokens returns every registered push token.
	AllTokens(ctx context.Context) ([]string, error)
	// AdminTokens returns the push tokens of administrator accounts.
	AdminTokens(ctx context.Context) ([]string, error)
	// TotalDeviceCount returns the number of registered devices.
	TotalDeviceCount(ctx context.Context) (int64, error)
}

// DeviceTokenStore persists device token registrations.
type DeviceTokenStore interface {
	TokenDirectory

	// Upsert registers or refreshes the token for a device and returns the
	// stored row.
	Upsert(ctx context.Context, token DeviceToken) (DeviceToken, error)
	// Remove deletes the registration for a device. Removing an unknown
	// device returns ErrNotFound.
	Remove(ctx context.Context, deviceID uuid.UUID) error
}

// UserDirectory is the read-only view of media-server accounts used for
// targeting.
type UserDirectory interface {
	// FindUserIDByUsername resolves a username to a user id, or ErrNotFound.
	FindUserIDByUsername(ctx context.Context, username string) (uuid.UUID, error)
	// IsAdministrator reports whether the user has administrator rights.
	IsAdministrator(ctx context.Context, userID uuid.UUID) (bool, error)
}

// UserStore persists the mirrored user list.
type UserStore interface {
	UserDirectory

	// UpsertBatch replaces or inserts the given users.
	UpsertBatch(ctx context.Context, users []User) error
}

// SettingsStore persists the client settings document as an opaque YAML blob.
type SettingsStore interface {
	// Get returns the stored YAML document, or ErrNotFound when no settings
	// have been saved yet.
	Get(ctx context.Context) (string, error)
	// Put stores the YAML document, replacing any previous version.
	Put(ctx context.Context, yaml string) error
}
