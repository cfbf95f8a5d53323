package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role carried in access-token claims.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByLogin(ctx context.Context, login string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// User represents a stored account. Accounts are created disabled and become
// enabled once the e-mail verification token is confirmed. Deletion is soft:
// DeletedAt is set and the account stops resolving in lookups.
type User struct {
	ID           uuid.UUID
	Name         string
	Login        string
	PasswordHash string
	Role         Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
