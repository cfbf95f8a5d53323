package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rmarchao/user-manager/internal/model"
)

var _ model.VerificationTokenStore = (*VerificationTokenRepository)(nil)

type VerificationTokenRepository struct {
	db *Connection
}

func NewVerificationTokenRepository(db *Connection) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

func (r *VerificationTokenRepository) Create(ctx context.Context, token model.VerificationToken) error {
	const query = `
        INSERT INTO verification_tokens (id, user_id, uuid, token_type, created_at, expires_at, activated_at, activated)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.UUID, token.TokenType,
		token.CreatedAt, token.ExpiresAt, token.ActivatedAt, token.Activated,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	return nil
}

func (r *VerificationTokenRepository) GetByUUID(ctx context.Context, value uuid.UUID) (model.VerificationToken, error) {
	const query = `
        SELECT id, user_id, uuid, token_type, created_at, expires_at, activated_at, activated
        FROM verification_tokens WHERE uuid = $1
    `
	var vt model.VerificationToken
	err := r.db.QueryRow(ctx, query, value).Scan(
		&vt.ID, &vt.UserID, &vt.UUID, &vt.TokenType,
		&vt.CreatedAt, &vt.ExpiresAt, &vt.ActivatedAt, &vt.Activated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VerificationToken{}, model.ErrTokenNotFound
		}
		return model.VerificationToken{}, fmt.Errorf("failed to get verification token: %w", err)
	}
	return vt, nil
}

// Confirm enables the owning user and marks the token activated in one
// transaction, so a crash cannot leave an enabled user with a pending token
// or vice versa.
func (r *VerificationTokenRepository) Confirm(ctx context.Context, value uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const activateQuery = `
        UPDATE verification_tokens SET activated = TRUE, activated_at = NOW()
        WHERE uuid = $1 AND activated = FALSE
        RETURNING user_id
    `
	var userID uuid.UUID
	if err := tx.QueryRow(ctx, activateQuery, value).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.classifyMiss(ctx, value)
		}
		return fmt.Errorf("failed to activate verification token: %w", err)
	}

	const enableQuery = `UPDATE users SET enabled = TRUE, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := tx.Exec(ctx, enableQuery, userID)
	if err != nil {
		return fmt.Errorf("failed to enable user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit confirmation: %w", err)
	}
	return nil
}

func (r *VerificationTokenRepository) MarkActivated(ctx context.Context, value uuid.UUID) error {
	const query = `
        UPDATE verification_tokens SET activated = TRUE, activated_at = NOW()
        WHERE uuid = $1 AND activated = FALSE
    `

	tag, err := r.db.Exec(ctx, query, value)
	if err != nil {
		return fmt.Errorf("failed to mark verification token activated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMiss(ctx, value)
	}
	return nil
}

// classifyMiss tells a missing token apart from one already activated.
func (r *VerificationTokenRepository) classifyMiss(ctx context.Context, value uuid.UUID) error {
	const query = `SELECT EXISTS (SELECT 1 FROM verification_tokens WHERE uuid = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check verification token existence: %w", err)
	}
	if !exists {
		return model.ErrTokenNotFound
	}
	return model.ErrTokenInvalid
}
