package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"umrahstay/internal/domain"
	"umrahstay/internal/pkg/response"
)

// RequireRole lets the request through only when the authenticated role is
// one of roles. It must run after JWTAuth.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		for _, r := range roles {
			if domain.UserRole(role) == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// IsAdmin reports whether the authenticated caller holds the ADMIN role.
func IsAdmin(c *gin.Context) bool {
	return domain.UserRole(c.GetString("role")) == domain.RoleAdmin
}
