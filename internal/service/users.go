package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmarchao/user-manager/internal/logger"
	"github.com/rmarchao/user-manager/internal/model"
)

// Users provides account management: registration, profile updates, listing
// and soft deletion.
type Users struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	auth      *Auth
	logger    *logger.Logger
}

func NewUsers(userStore model.UserStore, hasher model.PasswordHasher, auth *Auth, logger *logger.Logger) *Users {
	return &Users{
		userStore: userStore,
		hasher:    hasher,
		auth:      auth,
		logger:    logger,
	}
}

// Register creates a disabled account and dispatches the activation mail.
// Login uniqueness is enforced both here and by the store's unique index.
func (s *Users) Register(ctx context.Context, name, login, password string) (model.User, error) {
	s.logger.Debug("Users service: registering user", "login", login)

	_, err := s.userStore.GetByLogin(ctx, login)
	if err == nil {
		return model.User{}, model.ErrUserExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, fmt.Errorf("failed to check login uniqueness: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         name,
		Login:        login,
		PasswordHash: hashed,
		Role:         model.RoleUser,
		Enabled:      false,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	vt, err := s.auth.generateVerificationToken(ctx, user, model.TokenTypeEmailValidation)
	if err != nil {
		return model.User{}, err
	}
	s.auth.mail.SendVerificationMail(user.Login, vt.UUID.String())

	s.logger.Info("Users service: user registered", "login", login, "user_id", user.ID)
	return user, nil
}

// Update replaces name and password of the account with the given login.
// Empty fields are left unchanged.
func (s *Users) Update(ctx context.Context, login, name, password string) (model.User, error) {
	user, err := s.userStore.GetByLogin(ctx, login)
	if err != nil {
		return model.User{}, err
	}

	if name != "" {
		user.Name = name
	}
	if password != "" {
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	updated, err := s.userStore.Update(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("Users service: user updated", "login", login)
	return updated, nil
}

func (s *Users) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.userStore.GetByID(ctx, id)
}

func (s *Users) List(ctx context.Context) ([]model.User, error) {
	return s.userStore.List(ctx)
}

// DeleteByID soft-deletes the account and revokes its refresh tokens.
func (s *Users) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.userStore.SoftDelete(ctx, id); err != nil {
		return err
	}

	if err := s.auth.tokens.RevokeAllForUser(ctx, id); err != nil {
		s.logger.Error("Users service: failed to revoke refresh tokens of deleted user",
			"user_id", id,
			"error", err.Error())
	}

	s.logger.Info("Users service: user deleted", "user_id", id)
	return nil
}

// DeleteByLogin soft-deletes the account with the given login.
func (s *Users) DeleteByLogin(ctx context.Context, login string) error {
	user, err := s.userStore.GetByLogin(ctx, login)
	if err != nil {
		return err
	}
	return s.DeleteByID(ctx, user.ID)
}
