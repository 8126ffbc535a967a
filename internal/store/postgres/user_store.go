package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pushrelay/pushrelay/internal/domain"
)

// UserStore mirrors the media server's user directory so that usernames and
// administrator flags can be resolved without calling back out.
type UserStore struct {
	client *Client
}

// NewUserStore creates a UserStore backed by the given client.
func NewUserStore(client *Client) *UserStore {
	return &UserStore{client: client}
}

// FindUserIDByUsername resolves a username to its user ID. The match is
// case-insensitive. Returns domain.ErrNotFound when no user matches.
func (s *UserStore) FindUserIDByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.client.pool.QueryRow(ctx,
		`SELECT id FROM users WHERE LOWER(username) = LOWER($1)`, username).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, domain.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("postgres: find user by username: %w", err)
	}
	return id, nil
}

// IsAdministrator reports whether the user has the administrator flag.
// Unknown users are not administrators.
func (s *UserStore) IsAdministrator(ctx context.Context, userID uuid.UUID) (bool, error) {
	var isAdmin bool
	err := s.client.pool.QueryRow(ctx,
		`SELECT is_administrator FROM users WHERE id = $1`, userID).Scan(&isAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: check administrator: %w", err)
	}
	return isAdmin, nil
}

// UpsertBatch replaces the stored attributes of the given users in one
// transaction.
func (s *UserStore) UpsertBatch(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}

	tx, err := s.client.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin user upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO users (id, username, is_administrator, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			is_administrator = EXCLUDED.is_administrator,
			updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for _, u := range users {
		if _, err := tx.Exec(ctx, q, u.ID, u.Username, u.IsAdministrator, now); err != nil {
			return fmt.Errorf("postgres: upsert user %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit user upsert: %w", err)
	}
	return nil
}

var _ domain.UserStore = (*UserStore)(nil)
