package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmarchao/user-manager/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP statuses in one place so every
// handler reports the same way. Unrecognized errors become a generic 500
// without leaking internals.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrUserExists):
		c.JSON(http.StatusConflict, errorResponse{Error: model.ErrUserExists.Error()})
	case errors.Is(err, model.ErrUserNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: model.ErrUserNotFound.Error()})
	case errors.Is(err, model.ErrUserNotEnabled):
		c.JSON(http.StatusForbidden, errorResponse{Error: model.ErrUserNotEnabled.Error()})
	case errors.Is(err, model.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: model.ErrBadCredentials.Error()})
	case errors.Is(err, model.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: model.ErrTokenNotFound.Error()})
	case errors.Is(err, model.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: model.ErrTokenInvalid.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
