package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rmarchao/user-manager/internal/logger"
)

// Logging logs method, path, duration and status for each request. Server
// errors are logged separately so they stand out at the error level.
func Logging(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		l.Info("HTTP request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"duration_ms", duration.Milliseconds(),
			"status", status)

		if status >= http.StatusInternalServerError {
			l.Error("HTTP request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"errors", c.Errors.String())
		}
	}
}
