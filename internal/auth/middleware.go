package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminRole = "admin"

// Middleware validates the bearer token and requires the admin role. A 401
// tells the client its credentials are no longer valid; 403 marks a valid
// token without moderation rights.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authorization header format must be Bearer {token}"})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid or expired token"})
			return
		}

		if claims.Role != adminRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "admin role required"})
			return
		}

		c.Set(CtxAdminID, claims.UserID)
		c.Set(CtxAdminEmail, claims.Email)
		c.Next()
	}
}
