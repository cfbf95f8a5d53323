package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenType discriminates what a verification token is allowed to confirm.
type TokenType string

const (
	TokenTypeEmailValidation TokenType = "EMAIL_VALIDATION"
	TokenTypeResetPassword   TokenType = "RESET_PASSWORD"
)

// VerificationTokenStore defines persistence operations for verification
// tokens.
type VerificationTokenStore interface {
	Create(ctx context.Context, token VerificationToken) error
	GetByUUID(ctx context.Context, value uuid.UUID) (VerificationToken, error)
	// Confirm enables the owning user and marks the token activated in a
	// single transaction. Both writes commit together or not at all.
	Confirm(ctx context.Context, value uuid.UUID) error
	MarkActivated(ctx context.Context, value uuid.UUID) error
}

// VerificationToken is a single-use time-boxed credential proving control of
// an e-mail address. The random UUID value is the external-facing lookup key.
type VerificationToken struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	UUID        uuid.UUID
	TokenType   TokenType
	CreatedAt   time.Time
	ExpiresAt   time.Time
	ActivatedAt *time.Time
	Activated   bool
}

// Expired reports whether the token is past its expiry at the given instant.
func (t VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
