package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rmarchao/user-manager/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (id, user_id, token, created_at, expires_at, used)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt, token.Used,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	const query = `
        SELECT id, user_id, token, created_at, expires_at, used
        FROM refresh_tokens WHERE token = $1
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.ID, &rt.UserID, &rt.Token, &rt.CreatedAt, &rt.ExpiresAt, &rt.Used,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrTokenNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return rt, nil
}

// Invalidate marks the token used with a conditional update. Exactly one of
// any set of concurrent calls for the same value sees the transition; the
// rest get ErrTokenInvalid (already used) or ErrTokenNotFound.
func (r *RefreshTokenRepository) Invalidate(ctx context.Context, token string) error {
	const query = `UPDATE refresh_tokens SET used = TRUE WHERE token = $1 AND used = FALSE`

	tag, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	const existsQuery = `SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, existsQuery, token).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check refresh token existence: %w", err)
	}
	if !exists {
		return model.ErrTokenNotFound
	}
	return model.ErrTokenInvalid
}

func (r *RefreshTokenRepository) InvalidateAllByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `UPDATE refresh_tokens SET used = TRUE WHERE user_id = $1 AND used = FALSE`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to invalidate refresh tokens by user: %w", err)
	}
	return nil
}
