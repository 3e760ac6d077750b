package middleware

import (
	"net/http"
	"strings"

	jwtsvc "asesoria/internal/pkg/jwt"
	"asesoria/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type tokenValidator interface {
	ValidateToken(tokenStr string) (*jwtsvc.Claims, error)
}

// Auth validates the Bearer token and stores user_id and role on the context.
func Auth(jwt tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// OptionalAuth resolves the user from the Bearer token when present but never
// rejects the request. Anonymous cart access relies on it.
func OptionalAuth(jwt tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			if claims, err := jwt.ValidateToken(tokenStr); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}
