package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/auth"
)

const (
	authUserKey     = "auth_user_id"
	authUsernameKey = "auth_username"
	authIsAdminKey  = "auth_is_admin"
)

// RequireAuth validates the bearer token and sets member context
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Check for Bearer token format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Use: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(authUserKey, claims.UserID)
		c.Set(authUsernameKey, claims.Username)
		c.Set(authIsAdminKey, claims.IsAdmin)

		c.Next()
	}
}

// RequireAdmin ensures the authenticated member has the admin claim.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, ok := c.Get(authIsAdminKey)
		if !ok || !isAdmin.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthUserID returns the authenticated member's Discord id.
func AuthUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(authUserKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// AuthUsername returns the authenticated member's display name.
func AuthUsername(c *gin.Context) string {
	if v, ok := c.Get(authUsernameKey); ok {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
