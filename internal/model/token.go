package model

// TokenManager signs and verifies bearer tokens.
type TokenManager interface {
	GenerateAccessToken(user User) (string, error)
	GenerateRefreshToken(user User) (string, error)
	ParseToken(token string) (login string, role Role, err error)
}

// PasswordHasher hashes passwords one-way and verifies candidates against a
// stored hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}
