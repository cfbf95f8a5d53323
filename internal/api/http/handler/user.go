package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmarchao/user-manager/internal/api/http/middleware"
	"github.com/rmarchao/user-manager/internal/logger"
	"github.com/rmarchao/user-manager/internal/model"
)

// UserService is the account management surface consumed by the user
// handlers.
type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, login, name, password string) (model.User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByLogin(ctx context.Context, login string) error
}

// Users serves the bearer-protected account endpoints.
type Users struct {
	users  UserService
	logger *logger.Logger
}

func NewUsers(users UserService, l *logger.Logger) *Users {
	return &Users{users: users, logger: l}
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

type deleteUserRequest struct {
	Login string `json:"login" binding:"required"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Login:     u.Login,
		Role:      string(u.Role),
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// List handles GET /api/users.
func (h *Users) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Users handler: failed to list users", "error", err.Error())
		writeError(c, err)
		return
	}

	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	c.JSON(http.StatusOK, out)
}

// GetByID handles GET /api/users/:id.
func (h *Users) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// Update handles PUT /api/users/update. The account being updated is the one
// named by the access token, never one picked by the request body.
func (h *Users) Update(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing access token"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.users.Update(c.Request.Context(), login, req.Name, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteByID handles DELETE /api/users/:id.
func (h *Users) DeleteByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := h.users.DeleteByID(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteByLogin handles DELETE /api/users with the login in the body.
func (h *Users) DeleteByLogin(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.users.DeleteByLogin(c.Request.Context(), req.Login); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
