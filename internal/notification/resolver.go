package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pushrelay/pushrelay/internal/domain"
)

// Resolver turns a notification's targeting fields into a deduplicated set of
// device push tokens. It only reads from the directories; resolution treats
// them as snapshots for the duration of one call.
type Resolver struct {
	tokens domain.TokenDirectory
	users  domain.UserDirectory
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given directories.
func NewResolver(tokens domain.TokenDirectory, users domain.UserDirectory, logger *slog.Logger) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
		logger: logger.With(slog.String("component", "resolver")),
	}
}

// Resolve populates n.Destinations and returns it. The branches are additive
// and their precedence is deliberate:
//
//  1. An explicit user target (userId, or username looked up) contributes
//     that user's tokens.
//  2. The broadcast branch (every registered token) runs only when no user
//     target was named at all AND the notification is not admin-only. Naming
//     a user that fails to resolve still suppresses the broadcast: a typo'd
//     username must not page the whole fleet.
//  3. Admin notifications union in the administrator tokens regardless of
//     the first two branches.
//
// Directory errors degrade to an empty contribution from that branch; an
// unresolvable notification is a no-op, never a failure.
func (r *Resolver) Resolve(ctx context.Context, n *domain.Notification) []string {
	var tokens []string

	if n.HasUserTarget() {
		if userID, ok := r.targetUserID(ctx, n); ok {
			r.logger.DebugContext(ctx, "resolver: fetching tokens for user",
				slog.String("user_id", userID.String()),
			)
			tokens = append(tokens, r.userTokens(ctx, userID)...)
		}
	} else if !n.IsAdmin {
		all, err := r.tokens.AllTokens(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "resolver: list all tokens",
				slog.String("error", err.Error()),
			)
		}
		r.logger.DebugContext(ctx, "resolver: no user target, broadcasting",
			slog.Int("token_count", len(all)),
		)
		tokens = append(tokens, all...)
	}

	if n.IsAdmin {
		admins, err := r.tokens.AdminTokens(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "resolver: list admin tokens",
				slog.String("error", err.Error()),
			)
		}
		tokens = append(tokens, admins...)
	}

	n.Destinations = dedupeTokens(tokens)

	r.logger.DebugContext(ctx, "resolver: routing summary",
		slog.Bool("is_admin", n.IsAdmin),
		slog.String("username", n.Username),
		slog.Int("destinations", len(n.Destinations)),
	)
	return n.Destinations
}

// targetUserID determines the explicitly targeted user id, resolving the
// username when no id was given.
func (r *Resolver) targetUserID(ctx context.Context, n *domain.Notification) (uuid.UUID, bool) {
	if n.UserID != nil {
		return *n.UserID, true
	}

	userID, err := r.users.FindUserIDByUsername(ctx, n.Username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.ErrorContext(ctx, "resolver: username lookup",
				slog.String("username", n.Username),
				slog.String("error", err.Error()),
			)
		} else {
			r.logger.DebugContext(ctx, "resolver: unknown username",
				slog.String("username", n.Username),
			)
		}
		return uuid.Nil, false
	}
	return userID, true
}

func (r *Resolver) userTokens(ctx context.Context, userID uuid.UUID) []string {
	tokens, err := r.tokens.TokensForUser(ctx, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "resolver: tokens for user",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return tokens
}

// dedupeTokens removes duplicate tokens by exact string equality, preserving
// first-seen order.
func dedupeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0:0]
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
