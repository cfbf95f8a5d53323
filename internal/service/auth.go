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

// MailDispatcher sends account mails without blocking the caller.
type MailDispatcher interface {
	SendVerificationMail(recipient, token string)
	SendPasswordResetMail(recipient, token string)
}

// Auth orchestrates the credential lifecycle: login, token refresh, e-mail
// confirmation and password reset.
type Auth struct {
	userStore         model.UserStore
	verificationStore model.VerificationTokenStore
	hasher            model.PasswordHasher
	tokens            *TokenService
	mail              MailDispatcher
	verificationTTL   time.Duration
	logger            *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	verificationStore model.VerificationTokenStore,
	hasher model.PasswordHasher,
	tokens *TokenService,
	mail MailDispatcher,
	verificationTTL time.Duration,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:         userStore,
		verificationStore: verificationStore,
		hasher:            hasher,
		tokens:            tokens,
		mail:              mail,
		verificationTTL:   verificationTTL,
		logger:            logger,
	}
}

// Login validates credentials and issues an access/refresh token pair. A
// missing user surfaces as ErrBadCredentials so login probing cannot
// enumerate accounts.
func (a *Auth) Login(ctx context.Context, login, password string) (accessToken string, refreshToken string, err error) {
	a.logger.Debug("Auth service: login attempt", "login", login)

	user, err := a.userStore.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", "", model.ErrBadCredentials
		}
		return "", "", fmt.Errorf("failed to get user by login: %w", err)
	}

	if !user.Enabled {
		a.logger.Info("Auth service: user not enabled, unable to login", "login", login)
		return "", "", model.ErrUserNotEnabled
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return "", "", model.ErrBadCredentials
	}

	access, refresh, err := a.tokens.Issue(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token pair",
			"login", login,
			"error", err.Error())
		return "", "", err
	}

	a.logger.Info("Auth service: user successfully authenticated", "login", login)
	return access, refresh, nil
}

// Refresh rotates the presented refresh token for a new pair.
func (a *Auth) Refresh(ctx context.Context, presented string) (string, string, error) {
	return a.tokens.Refresh(ctx, presented)
}

// Logout revokes the presented refresh token. Tokens that are unknown or
// already spent are treated as logged out.
func (a *Auth) Logout(ctx context.Context, presented string) error {
	err := a.tokens.RevokeByToken(ctx, presented)
	if err != nil && !errors.Is(err, model.ErrTokenNotFound) && !errors.Is(err, model.ErrTokenInvalid) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// SendActivationCode generates an e-mail validation token and dispatches the
// activation mail. It is a no-op returning false when the user is already
// enabled.
func (a *Auth) SendActivationCode(ctx context.Context, login string) (bool, error) {
	user, err := a.userStore.GetByLogin(ctx, login)
	if err != nil {
		return false, err
	}

	if user.Enabled {
		return false, nil
	}

	vt, err := a.generateVerificationToken(ctx, user, model.TokenTypeEmailValidation)
	if err != nil {
		return false, err
	}

	a.mail.SendVerificationMail(user.Login, vt.UUID.String())
	return true, nil
}

// SendPasswordResetCode generates a reset token and dispatches the reset
// mail. Disabled accounts cannot request a reset; false is returned with no
// side effects.
func (a *Auth) SendPasswordResetCode(ctx context.Context, login string) (bool, error) {
	user, err := a.userStore.GetByLogin(ctx, login)
	if err != nil {
		return false, err
	}

	if !user.Enabled {
		return false, nil
	}

	vt, err := a.generateVerificationToken(ctx, user, model.TokenTypeResetPassword)
	if err != nil {
		return false, err
	}

	a.mail.SendPasswordResetMail(user.Login, vt.UUID.String())
	return true, nil
}

// ConfirmEmail consumes an e-mail validation token, enabling the owning
// user. Confirming an already-activated token is a no-op reported through
// alreadyConfirmed rather than an error.
func (a *Auth) ConfirmEmail(ctx context.Context, value uuid.UUID) (alreadyConfirmed bool, err error) {
	vt, err := a.verificationStore.GetByUUID(ctx, value)
	if err != nil {
		return false, err
	}

	if vt.TokenType != model.TokenTypeEmailValidation {
		return false, fmt.Errorf("token is not an e-mail validation token: %w", model.ErrTokenInvalid)
	}

	if vt.Activated {
		return true, nil
	}

	if vt.Expired(time.Now()) {
		return false, fmt.Errorf("verification token expired: %w", model.ErrTokenInvalid)
	}

	if err := a.verificationStore.Confirm(ctx, value); err != nil {
		return false, fmt.Errorf("failed to confirm verification token: %w", err)
	}

	a.logger.Info("Auth service: e-mail confirmed", "user_id", vt.UserID)
	return false, nil
}

// ResetPassword saves a new password for the token's owner and only then
// consumes the token, so an interrupted reset leaves it redeemable.
func (a *Auth) ResetPassword(ctx context.Context, value uuid.UUID, newPassword string) error {
	vt, err := a.verificationStore.GetByUUID(ctx, value)
	if err != nil {
		return err
	}

	if vt.TokenType != model.TokenTypeResetPassword {
		return fmt.Errorf("token is not a password reset token: %w", model.ErrTokenInvalid)
	}
	if vt.Activated {
		return fmt.Errorf("reset token already used: %w", model.ErrTokenInvalid)
	}
	if vt.Expired(time.Now()) {
		return fmt.Errorf("reset token expired: %w", model.ErrTokenInvalid)
	}

	hashed, err := a.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := a.userStore.SetPassword(ctx, vt.UserID, hashed); err != nil {
		return fmt.Errorf("failed to save new password: %w", err)
	}

	if err := a.verificationStore.MarkActivated(ctx, value); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	a.logger.Info("Auth service: password reset completed", "user_id", vt.UserID)
	return nil
}

func (a *Auth) generateVerificationToken(ctx context.Context, user model.User, tokenType model.TokenType) (model.VerificationToken, error) {
	now := time.Now()
	vt := model.VerificationToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		UUID:      uuid.New(),
		TokenType: tokenType,
		CreatedAt: now,
		ExpiresAt: now.Add(a.verificationTTL),
	}

	if err := a.verificationStore.Create(ctx, vt); err != nil {
		return model.VerificationToken{}, fmt.Errorf("failed to create verification token: %w", err)
	}

	return vt, nil
}
