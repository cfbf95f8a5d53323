package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/rmarchao/user-manager/internal/logger"
	"github.com/rmarchao/user-manager/internal/model"
)

const dispatchTimeout = 30 * time.Second

// Service builds account mails and dispatches them on a detached goroutine.
// Delivery runs after the HTTP response with no ordering guarantee; a failed
// delivery is logged and never rolls back the mutation that triggered it.
type Service struct {
	mailer  model.Mailer
	baseURL string
	logger  *logger.Logger
}

func NewService(mailer model.Mailer, baseURL string, logger *logger.Logger) *Service {
	return &Service{mailer: mailer, baseURL: baseURL, logger: logger}
}

// SendVerificationMail dispatches the account-activation message carrying the
// confirmation link for the given verification token value.
func (s *Service) SendVerificationMail(recipient, token string) {
	subject := "Verify your e-mail"
	body := fmt.Sprintf("Click here to activate your account: %s/api/auth/register/confirm?token=%s", s.baseURL, token)
	s.dispatch(recipient, subject, body)
}

// SendPasswordResetMail dispatches the password-reset message carrying the
// reset link for the given verification token value.
func (s *Service) SendPasswordResetMail(recipient, token string) {
	subject := "Reset your password"
	body := fmt.Sprintf("Click here to reset your password: %s/api/auth/password/reset?token=%s", s.baseURL, token)
	s.dispatch(recipient, subject, body)
}

func (s *Service) dispatch(recipient, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, recipient, subject, body); err != nil {
			s.logger.Error("Mail service: failed to deliver mail",
				"recipient", recipient,
				"subject", subject,
				"error", err.Error())
			return
		}

		s.logger.Debug("Mail service: mail delivered",
			"recipient", recipient,
			"subject", subject)
	}()
}
