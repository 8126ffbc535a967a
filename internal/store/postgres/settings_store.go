package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pushrelay/pushrelay/internal/domain"
)

// SettingsStore keeps the single server settings document.
type SettingsStore struct {
	client *Client
}

// NewSettingsStore creates a SettingsStore backed by the given client.
func NewSettingsStore(client *Client) *SettingsStore {
	return &SettingsStore{client: client}
}

// Get returns the stored settings document, or domain.ErrNotFound when none
// has been saved yet.
func (s *SettingsStore) Get(ctx context.Context) (string, error) {
	var doc string
	err := s.client.pool.QueryRow(ctx, `SELECT document FROM settings WHERE id = 1`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres: get settings: %w", err)
	}
	return doc, nil
}

// Put replaces the stored settings document.
func (s *SettingsStore) Put(ctx context.Context, doc string) error {
	const q = `
		INSERT INTO settings (id, document, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at`
	if _, err := s.client.pool.Exec(ctx, q, doc, time.Now().UTC()); err != nil {
		return fmt.Errorf("postgres: put settings: %w", err)
	}
	return nil
}

var _ domain.SettingsStore = (*SettingsStore)(nil)
