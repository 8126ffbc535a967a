package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pushrelay/pushrelay/internal/domain"
)

// DeviceTokenStore persists device registrations keyed by device ID.
type DeviceTokenStore struct {
	client *Client
}

// NewDeviceTokenStore creates a DeviceTokenStore backed by the given client.
func NewDeviceTokenStore(client *Client) *DeviceTokenStore {
	return &DeviceTokenStore{client: client}
}

// Upsert inserts or replaces the registration for a device and returns the
// stored row. A device that changes hands keeps its device ID but gets a new
// owner and token.
func (s *DeviceTokenStore) Upsert(ctx context.Context, t domain.DeviceToken) (domain.DeviceToken, error) {
	const q = `
		INSERT INTO device_tokens (device_id, user_id, token, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			token = EXCLUDED.token,
			updated_at = EXCLUDED.updated_at
		RETURNING device_id, user_id, token, updated_at`

	updated := t.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	var stored domain.DeviceToken
	err := s.client.pool.QueryRow(ctx, q, t.DeviceID, t.UserID, t.Token, updated).
		Scan(&stored.DeviceID, &stored.UserID, &stored.Token, &stored.UpdatedAt)
	if err != nil {
		return domain.DeviceToken{}, fmt.Errorf("postgres: upsert device token: %w", err)
	}
	return stored, nil
}

// Remove deletes the registration for a device. Removing an unknown device
// returns domain.ErrNotFound.
func (s *DeviceTokenStore) Remove(ctx context.Context, deviceID uuid.UUID) error {
	tag, err := s.client.pool.Exec(ctx, `DELETE FROM device_tokens WHERE device_id = $1`, deviceID)
	if err != nil {
		return fmt.Errorf("postgres: remove device token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TokensForUser returns the push tokens of every device registered by the user.
func (s *DeviceTokenStore) TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.client.pool.Query(ctx,
		`SELECT token FROM device_tokens WHERE user_id = $1 ORDER BY updated_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query user tokens: %w", err)
	}
	defer rows.Close()
	return scanTokens(rows)
}

// AllTokens returns the push tokens of every registered device.
func (s *DeviceTokenStore) AllTokens(ctx context.Context) ([]string, error) {
	rows, err := s.client.pool.Query(ctx,
		`SELECT token FROM device_tokens ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query all tokens: %w", err)
	}
	defer rows.Close()
	return scanTokens(rows)
}

// AdminTokens returns the push tokens of devices owned by administrators.
func (s *DeviceTokenStore) AdminTokens(ctx context.Context) ([]string, error) {
	const q = `
		SELECT dt.token
		FROM device_tokens dt
		JOIN users u ON u.id = dt.user_id
		WHERE u.is_administrator
		ORDER BY dt.updated_at`
	rows, err := s.client.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: query admin tokens: %w", err)
	}
	defer rows.Close()
	return scanTokens(rows)
}

// TotalDeviceCount returns the number of registered devices.
func (s *DeviceTokenStore) TotalDeviceCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.client.pool.QueryRow(ctx, `SELECT COUNT(*) FROM device_tokens`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: count devices: %w", err)
	}
	return count, nil
}

func scanTokens(rows pgx.Rows) ([]string, error) {
	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("postgres: scan token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate tokens: %w", err)
	}
	return tokens, nil
}

var _ domain.DeviceTokenStore = (*DeviceTokenStore)(nil)
