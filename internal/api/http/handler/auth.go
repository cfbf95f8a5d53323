package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmarchao/user-manager/internal/logger"
	"github.com/rmarchao/user-manager/internal/model"
)

const refreshCookie = "refresh_token"

// AuthService is the credential lifecycle consumed by the auth handlers.
type AuthService interface {
	Login(ctx context.Context, login, password string) (accessToken string, refreshToken string, err error)
	Refresh(ctx context.Context, presented string) (string, string, error)
	Logout(ctx context.Context, presented string) error
	SendActivationCode(ctx context.Context, login string) (bool, error)
	SendPasswordResetCode(ctx context.Context, login string) (bool, error)
	ConfirmEmail(ctx context.Context, value uuid.UUID) (alreadyConfirmed bool, err error)
	ResetPassword(ctx context.Context, value uuid.UUID, newPassword string) error
}

// Registrar creates accounts; registration lives on the user service because
// it owns the uniqueness check.
type Registrar interface {
	Register(ctx context.Context, name, login, password string) (model.User, error)
}

// Auth serves the authentication endpoints. The refresh token never appears
// in a response body: it travels in an HTTP-only cookie scoped to the auth
// routes.
type Auth struct {
	auth       AuthService
	registrar  Registrar
	refreshTTL time.Duration
	logger     *logger.Logger
}

func NewAuth(auth AuthService, registrar Registrar, refreshTTL time.Duration, l *logger.Logger) *Auth {
	return &Auth{
		auth:       auth,
		registrar:  registrar,
		refreshTTL: refreshTTL,
		logger:     l,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Login    string `json:"login" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type credentialsRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Login string `json:"login" binding:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type sentResponse struct {
	Sent bool `json:"sent"`
}

// Register handles POST /api/auth/register. The account starts disabled; the
// activation mail is dispatched before the response is written.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.registrar.Register(c.Request.Context(), req.Name, req.Login, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: registration failed", "login", req.Login, "error", err.Error())
		writeError(c, err)
		return
	}

	c.Header("Location", "/api/users/"+user.ID.String())
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	access, refresh, err := h.auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setRefreshCookie(c, refresh)
	c.JSON(http.StatusOK, accessTokenResponse{AccessToken: access})
}

// Refresh handles POST /api/auth/refresh. The presented token is spent on
// use: the rotated replacement overwrites the cookie.
func (h *Auth) Refresh(c *gin.Context) {
	presented, err := c.Cookie(refreshCookie)
	if err != nil || presented == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing refresh token"})
		return
	}

	access, refresh, err := h.auth.Refresh(c.Request.Context(), presented)
	if err != nil {
		// Drop the cookie only when the token itself is dead; a transient
		// store failure must not cost the client a still-valid token.
		if errors.Is(err, model.ErrTokenNotFound) || errors.Is(err, model.ErrTokenInvalid) {
			h.clearRefreshCookie(c)
		}
		writeError(c, err)
		return
	}

	h.setRefreshCookie(c, refresh)
	c.JSON(http.StatusOK, accessTokenResponse{AccessToken: access})
}

// Logout handles POST /api/auth/logout.
func (h *Auth) Logout(c *gin.Context) {
	if presented, err := c.Cookie(refreshCookie); err == nil && presented != "" {
		if err := h.auth.Logout(c.Request.Context(), presented); err != nil {
			writeError(c, err)
			return
		}
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusOK)
}

// Confirm handles GET /api/auth/register/confirm?token=. Confirming an
// already-activated token reports success so a double-clicked mail link does
// not alarm the user.
func (h *Auth) Confirm(c *gin.Context) {
	value, err := uuid.Parse(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid token"})
		return
	}

	already, err := h.auth.ConfirmEmail(c.Request.Context(), value)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"confirmed": true, "already_confirmed": already})
}

// Resend handles POST /api/auth/register/resend.
func (h *Auth) Resend(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sent, err := h.auth.SendActivationCode(c.Request.Context(), req.Login)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sentResponse{Sent: sent})
}

// ForgetPassword handles POST /api/auth/password/forget.
func (h *Auth) ForgetPassword(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sent, err := h.auth.SendPasswordResetCode(c.Request.Context(), req.Login)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sentResponse{Sent: sent})
}

// ResetPassword handles POST /api/auth/password/reset?token=.
func (h *Auth) ResetPassword(c *gin.Context) {
	value, err := uuid.Parse(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid token"})
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), value, req.Password); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *Auth) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, int(h.refreshTTL.Seconds()), "/api/auth", "", true, true)
}

func (h *Auth) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, "", -1, "/api/auth", "", true, true)
}
