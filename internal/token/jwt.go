package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rmarchao/user-manager/internal/model"
)

// Claims represents JWT claims with the account role and token type.
type Claims struct {
	jwt.RegisteredClaims
	Role      model.Role `json:"role"`
	TokenType string     `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC. The signing secret
// and issuer are fixed at construction and never derived per call.
type JWT struct {
	secretKey  string
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey, issuer string, accessTTL, refreshTTL time.Duration) model.TokenManager {
	return &JWT{
		secretKey:  secretKey,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken creates a short-lived access token with the user login
// as subject.
func (j *JWT) GenerateAccessToken(user model.User) (string, error) {
	return j.generate(user, typeAccess, j.accessTTL)
}

// GenerateRefreshToken creates a long-lived refresh token. The value is
// opaque to clients; the store tracks its single-use state.
func (j *JWT) GenerateRefreshToken(user model.User) (string, error) {
	return j.generate(user, typeRefresh, j.refreshTTL)
}

func (j *JWT) generate(user model.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			Subject:   user.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:      user.Role,
		TokenType: tokenType,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

// ParseToken validates signature, issuer and expiry against wall-clock time
// (clock skew is not compensated) and extracts the subject login and role.
func (j *JWT) ParseToken(tokenString string) (string, model.Role, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithIssuer(j.issuer))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return "", "", model.ErrTokenInvalid
	}
	if claims.TokenType != typeAccess {
		return "", "", fmt.Errorf("%w: not an access token", model.ErrTokenInvalid)
	}
	return claims.Subject, claims.Role, nil
}
