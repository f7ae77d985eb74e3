package handlers

import (
	"net/http"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/services"
	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// RequireSession resolves the session cookie once per request and stores
// the session in the gin context. Requests without a valid session get 401.
func RequireSession(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Not authenticated",
			})
			return
		}

		session, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Session expired",
			})
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// RequireSession.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFromContext(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Not authenticated",
			})
			return
		}

		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions",
		})
	}
}
