package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/colonyconnect/colony-api/internal/auth"
	"github.com/colonyconnect/colony-api/internal/domain/user"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/response"
)

const currentUserKey = "currentUser"

// UserLoader resolves a token subject to a full user record
type UserLoader interface {
	GetByID(id string) (*user.User, error)
}

// TokenFromRequest extracts the bearer credential. The Android client
// sends it as a query parameter; Postman and the web frontend send the
// Authorization header, with or without the Bearer prefix.
func TokenFromRequest(c *gin.Context) string {
	for _, key := range []string{"Authorization", "authorization", "token"} {
		if token := c.Query(key); token != "" {
			return token
		}
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

// RequireAuth verifies the request credential and attaches the resolved
// user to the gin context for downstream handlers.
func RequireAuth(users UserLoader, secret string) gin.HandlerFunc {
	log := logger.Auth()

	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.Unauthorized(c, "Not authorized, no token provided")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(token, secret)
		if err != nil {
			log.Warn("token verification failed", "error", err, "path", c.Request.URL.Path)
			response.Unauthorized(c, "Not authorized, token failed")
			c.Abort()
			return
		}

		u, err := users.GetByID(claims.UserID)
		if err != nil {
			log.Warn("token subject not found", "user_id", claims.UserID)
			response.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin users. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok || !u.IsAdmin() {
			response.Forbidden(c, "Not authorized as an admin")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by RequireAuth
func CurrentUser(c *gin.Context) (*user.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	u, ok := value.(*user.User)
	return u, ok
}

// SetCurrentUser attaches a user to the context; used by handler tests
// to bypass token verification.
func SetCurrentUser(c *gin.Context, u *user.User) {
	c.Set(currentUserKey, u)
}
