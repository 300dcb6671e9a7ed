package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billdesk/internal/config"
	"billdesk/internal/middleware"
	"billdesk/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	cookie      config.SessionConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, userService service.UserService, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, cookie: cookie}
}

// Login handles POST /api/v1/auth/login
// @Summary Sign in
// @Description Verify email and password and set the http-only session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response{data=domain.User} "Signed in"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondValidation(c, bindError(err))
		return
	}

	session, user, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, session.SessionID, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	RespondOK(c, "Signed in", user)
}

// Logout handles POST /api/v1/auth/logout
// @Summary Sign out
// @Description Delete the current session and clear the cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} Response{data=MessageResponse} "Signed out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, _ := c.Cookie(h.cookie.CookieName)
	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		HandleError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	RespondOK(c, "Signed out", nil)
}

// Me handles GET /api/v1/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} Response{data=domain.User} "Signed-in user"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security SessionCookie
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	RespondOK(c, "Current user", user)
}

// Register handles POST /api/v1/auth/register
// @Summary Register a user
// @Description Create a staff or admin account (admin only). A welcome email is sent.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User details"
// @Success 201 {object} Response{data=domain.User} "User created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 409 {object} ErrorResponseBody "Email already registered"
// @Security SessionCookie
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondValidation(c, bindError(err))
		return
	}

	user, err := h.userService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, "User registered", user)
}
