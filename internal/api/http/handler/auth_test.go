package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rmarchao/user-manager/internal/model"
	"github.com/rmarchao/user-manager/internal/testutil"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Login(ctx context.Context, login, password string) (string, string, error) {
	args := m.Called(ctx, login, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *authServiceMock) Refresh(ctx context.Context, presented string) (string, string, error) {
	args := m.Called(ctx, presented)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *authServiceMock) Logout(ctx context.Context, presented string) error {
	args := m.Called(ctx, presented)
	return args.Error(0)
}

func (m *authServiceMock) SendActivationCode(ctx context.Context, login string) (bool, error) {
	args := m.Called(ctx, login)
	return args.Bool(0), args.Error(1)
}

func (m *authServiceMock) SendPasswordResetCode(ctx context.Context, login string) (bool, error) {
	args := m.Called(ctx, login)
	return args.Bool(0), args.Error(1)
}

func (m *authServiceMock) ConfirmEmail(ctx context.Context, value uuid.UUID) (bool, error) {
	args := m.Called(ctx, value)
	return args.Bool(0), args.Error(1)
}

func (m *authServiceMock) ResetPassword(ctx context.Context, value uuid.UUID, newPassword string) error {
	args := m.Called(ctx, value, newPassword)
	return args.Error(0)
}

type registrarMock struct {
	mock.Mock
}

func (m *registrarMock) Register(ctx context.Context, name, login, password string) (model.User, error) {
	args := m.Called(ctx, name, login, password)
	return args.Get(0).(model.User), args.Error(1)
}

func authRouter(svc *authServiceMock, reg *registrarMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuth(svc, reg, 7*24*time.Hour, testutil.MakeNoopLogger())

	engine := gin.New()
	engine.POST("/api/auth/register", h.Register)
	engine.GET("/api/auth/register/confirm", h.Confirm)
	engine.POST("/api/auth/register/resend", h.Resend)
	engine.POST("/api/auth/login", h.Login)
	engine.POST("/api/auth/refresh", h.Refresh)
	engine.POST("/api/auth/logout", h.Logout)
	engine.POST("/api/auth/password/forget", h.ForgetPassword)
	engine.POST("/api/auth/password/reset", h.ResetPassword)
	return engine
}

func refreshCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookie {
			return c
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

func TestAuth_Register_Created(t *testing.T) {
	svc := new(authServiceMock)
	reg := new(registrarMock)
	id := uuid.New()
	reg.On("Register", mock.Anything, "Alice", "alice@example.com", "password123").
		Return(model.User{ID: id, Name: "Alice", Login: "alice@example.com", Role: model.RoleUser}, nil).Once()

	rec := httptest.NewRecorder()
	body := `{"name":"Alice","login":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	authRouter(svc, reg).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/users/"+id.String(), rec.Header().Get("Location"))

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	assert.False(t, resp.Enabled)
	reg.AssertExpectations(t)
}

func TestAuth_Register_DuplicateLogin(t *testing.T) {
	svc := new(authServiceMock)
	reg := new(registrarMock)
	reg.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.User{}, model.ErrUserExists).Once()

	rec := httptest.NewRecorder()
	body := `{"login":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	authRouter(svc, reg).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuth_Register_InvalidBody(t *testing.T) {
	tests := map[string]string{
		"missing password": `{"login":"alice@example.com"}`,
		"short password":   `{"login":"alice@example.com","password":"short"}`,
		"not an email":     `{"login":"alice","password":"password123"}`,
		"not json":         `login=alice`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
			authRouter(new(authServiceMock), new(registrarMock)).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAuth_Login_SetsRefreshCookie(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Login", mock.Anything, "alice@example.com", "password123").
		Return("access-jwt", "refresh-jwt", nil).Once()

	rec := httptest.NewRecorder()
	body := `{"login":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp accessTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "access-jwt", resp.AccessToken)
	assert.NotContains(t, rec.Body.String(), "refresh-jwt")

	cookie := refreshCookieFrom(t, rec)
	assert.Equal(t, "refresh-jwt", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	svc.AssertExpectations(t)
}

func TestAuth_Login_BadCredentials(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Login", mock.Anything, "alice@example.com", "wrong").
		Return("", "", model.ErrBadCredentials).Once()

	rec := httptest.NewRecorder()
	body := `{"login":"alice@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_Login_NotEnabled(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return("", "", model.ErrUserNotEnabled).Once()

	rec := httptest.NewRecorder()
	body := `{"login":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_Refresh_RotatesCookie(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Refresh", mock.Anything, "old-refresh").
		Return("new-access", "new-refresh", nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "old-refresh"})
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new-refresh", refreshCookieFrom(t, rec).Value)
	svc.AssertExpectations(t)
}

func TestAuth_Refresh_MissingCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	authRouter(new(authServiceMock), new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_Refresh_SpentTokenClearsCookie(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Refresh", mock.Anything, "spent").
		Return("", "", model.ErrTokenInvalid).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "spent"})
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := refreshCookieFrom(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuth_Logout(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Logout", mock.Anything, "refresh-jwt").Return(nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "refresh-jwt"})
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Negative(t, refreshCookieFrom(t, rec).MaxAge)
	svc.AssertExpectations(t)
}

func TestAuth_Confirm(t *testing.T) {
	svc := new(authServiceMock)
	value := uuid.New()
	svc.On("ConfirmEmail", mock.Anything, value).Return(false, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/register/confirm?token="+value.String(), nil)
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"already_confirmed":false`)
	svc.AssertExpectations(t)
}

func TestAuth_Confirm_AlreadyConfirmed(t *testing.T) {
	svc := new(authServiceMock)
	value := uuid.New()
	svc.On("ConfirmEmail", mock.Anything, value).Return(true, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/register/confirm?token="+value.String(), nil)
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"already_confirmed":true`)
}

func TestAuth_Confirm_MalformedToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/register/confirm?token=not-a-uuid", nil)
	authRouter(new(authServiceMock), new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_Resend(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("SendActivationCode", mock.Anything, "alice@example.com").Return(true, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register/resend", strings.NewReader(`{"login":"alice@example.com"}`))
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":true`)
}

func TestAuth_ForgetPassword_UnknownUser(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("SendPasswordResetCode", mock.Anything, "ghost@example.com").
		Return(false, model.ErrUserNotFound).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password/forget", strings.NewReader(`{"login":"ghost@example.com"}`))
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_ResetPassword(t *testing.T) {
	svc := new(authServiceMock)
	value := uuid.New()
	svc.On("ResetPassword", mock.Anything, value, "newpassword1").Return(nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password/reset?token="+value.String(),
		strings.NewReader(`{"password":"newpassword1"}`))
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestAuth_ResetPassword_SpentToken(t *testing.T) {
	svc := new(authServiceMock)
	value := uuid.New()
	svc.On("ResetPassword", mock.Anything, value, "newpassword1").
		Return(model.ErrTokenInvalid).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password/reset?token="+value.String(),
		strings.NewReader(`{"password":"newpassword1"}`))
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_Refresh_UnknownTokenIsNotFound(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Refresh", mock.Anything, "unknown").
		Return("", "", model.ErrTokenNotFound).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "unknown"})
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Negative(t, refreshCookieFrom(t, rec).MaxAge)
}

func TestAuth_Refresh_StoreFailureKeepsCookie(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Refresh", mock.Anything, "still-valid").
		Return("", "", assert.AnError).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "still-valid"})
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, refreshCookie, c.Name)
	}
}

func TestAuth_Confirm_UnknownTokenIsNotFound(t *testing.T) {
	svc := new(authServiceMock)
	value := uuid.New()
	svc.On("ConfirmEmail", mock.Anything, value).
		Return(false, model.ErrTokenNotFound).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/register/confirm?token="+value.String(), nil)
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_ResetPassword_UnknownTokenIsNotFound(t *testing.T) {
	svc := new(authServiceMock)
	value := uuid.New()
	svc.On("ResetPassword", mock.Anything, value, "newpassword1").
		Return(model.ErrTokenNotFound).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password/reset?token="+value.String(),
		strings.NewReader(`{"password":"newpassword1"}`))
	authRouter(svc, new(registrarMock)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
