package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rmarchao/user-manager/internal/model"
)

const (
	callerLoginKey = "caller_login"
	callerRoleKey  = "caller_role"
)

// TokenParser verifies a bearer token and extracts its subject.
type TokenParser interface {
	ParseToken(token string) (login string, role model.Role, err error)
}

// Authenticate rejects requests without a valid bearer access token and
// stashes the caller identity in the request context for downstream
// handlers.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		login, role, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": model.ErrTokenInvalid.Error()})
			return
		}

		c.Set(callerLoginKey, login)
		c.Set(callerRoleKey, role)
		c.Next()
	}
}

// CallerLogin returns the authenticated login set by Authenticate.
func CallerLogin(c *gin.Context) (string, bool) {
	login, ok := c.Value(callerLoginKey).(string)
	return login, ok
}

// CallerRole returns the authenticated role set by Authenticate.
func CallerRole(c *gin.Context) (model.Role, bool) {
	role, ok := c.Value(callerRoleKey).(model.Role)
	return role, ok
}
