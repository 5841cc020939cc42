package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/taskbox/taskbox-api/internal/constants"
	apierrors "github.com/taskbox/taskbox-api/internal/errors"
	"github.com/taskbox/taskbox-api/internal/token"
)

// RequireAuth verifies the session cookie and resolves the caller's user
// ID. A missing cookie, a malformed or tampered token, and an expired
// token all produce the same 401 so the response never reveals which
// check failed.
func RequireAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(constants.SessionCookieName)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	if !ok {
		return 0, false
	}
	return id, true
}
