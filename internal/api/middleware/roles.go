package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
)

// RequireRoles returns middleware that admits only the listed roles. Admin
// passes every gate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c.Request.Context())
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": apperrors.CodeForbidden, "message": "no role in context",
			})
			return
		}

		if role == domain.RoleAdmin || slices.Contains(roles, role) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code": apperrors.CodeForbidden, "message": "insufficient role",
		})
	}
}
