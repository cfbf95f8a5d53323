package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rmarchao/user-manager/internal/model"
)

var _ model.PasswordHasher = (*Bcrypt)(nil)

// Bcrypt implements PasswordHasher with the bcrypt KDF. Each hash carries
// its own salt; verification is constant time.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the given cost. Cost 0 falls back to the
// bcrypt default.
func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

func (b *Bcrypt) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
