package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rmarchao/user-manager/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenStore)(nil)

type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) Invalidate(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) InvalidateAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ model.VerificationTokenStore = (*VerificationTokenStore)(nil)

type VerificationTokenStore struct {
	mock.Mock
}

func (m *VerificationTokenStore) Create(ctx context.Context, token model.VerificationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *VerificationTokenStore) GetByUUID(ctx context.Context, value uuid.UUID) (model.VerificationToken, error) {
	args := m.Called(ctx, value)
	return args.Get(0).(model.VerificationToken), args.Error(1)
}

func (m *VerificationTokenStore) Confirm(ctx context.Context, value uuid.UUID) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *VerificationTokenStore) MarkActivated(ctx context.Context, value uuid.UUID) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}
