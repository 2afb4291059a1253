package middleware

import (
	"net/http"

	"travelkang/config"

	"github.com/gin-gonic/gin"
)

// RequireAdmin allows only the configured admin emails. Must run after
// AuthRequired.
func RequireAdmin(cfg *config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := GetEmail(c)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		for _, allowed := range cfg.Emails {
			if email == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
