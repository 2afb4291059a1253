package middleware

import (
	"net/http"
	"strings"

	"travelkang/config"
	"travelkang/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and sets user_uuid and email in the
// request context. Every downstream read of the current user goes through the
// context values set here; nothing reads ambient globals.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("user_uuid", claims.UserUUID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// AuthOptional sets user_uuid and email when a valid bearer token is present
// and lets the request through anonymously otherwise. Access-check endpoints
// use it to answer "not logged in" instead of refusing the request.
func AuthOptional(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := auth.ParseAccessToken(cfg, parts[1]); err == nil {
				c.Set("user_uuid", claims.UserUUID)
				c.Set("email", claims.Email)
			}
		}
		c.Next()
	}
}

// GetUserUUID returns the authenticated user uuid from context (empty when the
// request was not authenticated).
func GetUserUUID(c *gin.Context) string {
	v, _ := c.Get("user_uuid")
	if v == nil {
		return ""
	}
	return v.(string)
}

// GetEmail returns the authenticated email from context.
func GetEmail(c *gin.Context) string {
	v, _ := c.Get("email")
	if v == nil {
		return ""
	}
	return v.(string)
}
