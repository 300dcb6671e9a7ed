package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"billdesk/internal/domain"
	"billdesk/internal/service"
)

const (
	ContextKeyUser      = "user"
	ContextKeySessionID = "session_id"
)

// Session returns Gin middleware that resolves the session cookie to a user
// and stores both in the request context. The user lives only as long as the
// request.
func Session(authService service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			abort(c, http.StatusUnauthorized, "not signed in")
			return
		}

		user, err := authService.ResolveSession(c.Request.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				Log(c).Error("resolving session failed", zap.Error(err))
			}
			abort(c, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		c.Set(ContextKeySessionID, sessionID)
		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireRole returns middleware that checks the user's role against allowed roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			abort(c, http.StatusForbidden, "role not found in context")
			return
		}

		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "insufficient permissions")
	}
}

// GetUser returns the signed-in user stored by Session.
func GetUser(c *gin.Context) (*domain.User, bool) {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok && user != nil
}

// GetUserID extracts the signed-in user's ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	user, ok := GetUser(c)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return user.ID, nil
}

// GetSessionID returns the session id resolved by Session, if any.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": msg,
		"status":  status,
	})
}
