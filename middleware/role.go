package middleware

import (
	"net/http"

	"chairhop/models"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects callers whose token role is not one of the allowed
// roles. Admins pass every check.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetString("role"))
		if role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "This action is not available for your account",
		})
	}
}
