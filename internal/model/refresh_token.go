package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore defines persistence operations for refresh tokens.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByToken(ctx context.Context, token string) (RefreshToken, error)
	// Invalidate marks the token used. It returns ErrTokenNotFound when no
	// record matches and ErrTokenInvalid when the record was already used,
	// so that two concurrent calls with the same value see exactly one
	// success.
	Invalidate(ctx context.Context, token string) error
	InvalidateAllByUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken is a long-lived single-use credential. A token moves from
// issued to used exactly once (rotation); expiry is derived from ExpiresAt
// at read time rather than stored as a transition.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// Expired reports whether the token is past its expiry at the given instant.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
