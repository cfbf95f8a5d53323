package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"

	"github.com/rmarchao/user-manager/internal/model"
)

var _ model.TokenManager = (*TokenManager)(nil)

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(user model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(user model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseToken(token string) (string, model.Role, error) {
	args := m.Called(token)
	return args.String(0), args.Get(1).(model.Role), args.Error(2)
}

var _ model.PasswordHasher = (*PasswordHasher)(nil)

type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(plaintext, hashed string) bool {
	args := m.Called(plaintext, hashed)
	return args.Bool(0)
}


var _ model.SecurityLayer = (*SecurityLayer)(nil)

type SecurityLayer struct {
	mock.Mock
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	ln, _ := args.Get(0).(net.Listener)
	return ln, args.Error(1)
}
