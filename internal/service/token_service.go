package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rmarchao/user-manager/internal/logger"
	"github.com/rmarchao/user-manager/internal/model"
)

// TokenService issues and rotates access/refresh token pairs. It composes
// the TokenManager with the RefreshTokenStore and the user directory.
type TokenService struct {
	manager    model.TokenManager
	store      model.RefreshTokenStore
	users      model.UserStore
	refreshTTL time.Duration
	logger     *logger.Logger
}

func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	users model.UserStore,
	refreshTTL time.Duration,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager:    manager,
		store:      store,
		users:      users,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Issue signs a short-lived access token and persists a fresh single-use
// refresh token for the user.
func (s *TokenService) Issue(ctx context.Context, user model.User) (accessToken string, refreshToken string, err error) {
	access, err := s.manager.GenerateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.GenerateRefreshToken(user)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}
	if refresh == "" {
		return "", "", fmt.Errorf("issue refresh: %w", model.ErrTokenNotFound)
	}

	now := time.Now()
	rt := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refresh,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
		Used:      false,
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return "", "", fmt.Errorf("persist refresh: %w", err)
	}

	return access, refresh, nil
}

// Refresh rotates the presented refresh token: it is invalidated before the
// successor pair is issued, so a crash mid-operation loses the token rather
// than leaving two valid ones. The store's conditional update guarantees
// that concurrent calls with the same value produce exactly one success.
func (s *TokenService) Refresh(ctx context.Context, presented string) (newAccess string, newRefresh string, err error) {
	rt, err := s.store.GetByToken(ctx, presented)
	if err != nil {
		return "", "", err
	}

	if rt.Used {
		s.logger.Warn("Token service: attempt to reuse a refresh token",
			"user_id", rt.UserID)
		return "", "", fmt.Errorf("refresh token already used: %w", model.ErrTokenInvalid)
	}
	if rt.Expired(time.Now()) {
		return "", "", fmt.Errorf("refresh token expired: %w", model.ErrTokenInvalid)
	}

	if err := s.store.Invalidate(ctx, presented); err != nil {
		if errors.Is(err, model.ErrTokenInvalid) || errors.Is(err, model.ErrTokenNotFound) {
			// Lost the race to a concurrent refresh of the same token.
			return "", "", err
		}
		return "", "", fmt.Errorf("invalidate old refresh: %w", err)
	}

	user, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil {
		return "", "", fmt.Errorf("resolve refresh token owner: %w", err)
	}

	access, refresh, err := s.Issue(ctx, user)
	if err != nil {
		return "", "", fmt.Errorf("issue rotated pair: %w", err)
	}

	return access, refresh, nil
}

// RevokeByToken invalidates a single refresh token (logout).
func (s *TokenService) RevokeByToken(ctx context.Context, presented string) error {
	return s.store.Invalidate(ctx, presented)
}

// RevokeAllForUser invalidates every live refresh token of a user.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.InvalidateAllByUser(ctx, userID)
}

// RefreshTTL exposes the configured refresh window, used by the transport to
// align cookie max-age with token expiry.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}
