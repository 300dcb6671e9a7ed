package handler_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/handler"
	"billdesk/internal/middleware"
	"billdesk/internal/service"
	"billdesk/mocks"
)

var testCookie = config.SessionConfig{TTL: 24 * time.Hour, CookieName: "billdesk_session"}

func newAuthHandler() (*handler.AuthHandler, *mocks.MockAuthService, *mocks.MockUserService) {
	authSvc := new(mocks.MockAuthService)
	userSvc := new(mocks.MockUserService)
	return handler.NewAuthHandler(authSvc, userSvc, testCookie), authSvc, userSvc
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	h, authSvc, _ := newAuthHandler()
	user := &domain.User{ID: uuid.New(), Email: "asha@example.com", Role: domain.RoleStaff}
	session := &domain.Session{SessionID: "opaque-token", UserID: user.ID}
	authSvc.On("Login", mock.Anything, service.LoginInput{Email: "asha@example.com", Password: "secret123"}).
		Return(session, user, nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"asha@example.com","password":"secret123"}`))
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	ck := findCookie(t, w.Result(), "billdesk_session")
	assert.Equal(t, "opaque-token", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, int((24 * time.Hour).Seconds()), ck.MaxAge)
	assert.NotContains(t, w.Body.String(), "opaque-token")
	authSvc.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, authSvc, _ := newAuthHandler()
	authSvc.On("Login", mock.Anything, mock.Anything).Return(nil, nil, domain.ErrInvalidCredentials)

	c, w := newContext(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"asha@example.com","password":"wrong-password"}`))
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decode(t, w).Message)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandler_Login_ValidationFailure(t *testing.T) {
	h, authSvc, _ := newAuthHandler()

	c, w := newContext(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
	authSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h, authSvc, _ := newAuthHandler()
	authSvc.On("Logout", mock.Anything, "opaque-token").Return(nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/logout", nil)
	c.Request.AddCookie(&http.Cookie{Name: "billdesk_session", Value: "opaque-token"})
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	ck := findCookie(t, w.Result(), "billdesk_session")
	assert.Empty(t, ck.Value)
	assert.True(t, ck.MaxAge < 0)
	authSvc.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		h, _, _ := newAuthHandler()
		user := &domain.User{ID: uuid.New(), Name: "Asha", Role: domain.RoleAdmin}

		c, w := newContext(http.MethodGet, "/api/v1/auth/me", nil)
		c.Set(middleware.ContextKeyUser, user)
		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data, ok := decode(t, w).Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, user.ID.String(), data["id"])
		assert.NotContains(t, data, "password_hash")
	})

	t.Run("no session", func(t *testing.T) {
		h, _, _ := newAuthHandler()
		c, w := newContext(http.MethodGet, "/api/v1/auth/me", nil)
		h.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	h, _, userSvc := newAuthHandler()
	created := &domain.User{ID: uuid.New(), Email: "new@example.com", Role: domain.RoleStaff}
	userSvc.On("Create", mock.Anything, service.CreateUserInput{
		Name: "New User", Email: "new@example.com", Password: "secret123",
	}).Return(created, nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"name":"New User","email":"new@example.com","password":"secret123"}`))
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered", decode(t, w).Message)
	userSvc.AssertExpectations(t)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h, _, userSvc := newAuthHandler()
	userSvc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateEmail)

	c, w := newContext(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"name":"New User","email":"new@example.com","password":"secret123"}`))
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}
