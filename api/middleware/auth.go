// Package middleware holds the gin middleware chain for cmd/tarzi-server:
// API-key auth and per-identity rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Auth checks X-API-Key, then Authorization: Bearer, against apiKeys. A nil
// or empty apiKeys disables auth entirely, matching an unauthenticated
// local/dev deployment.
func Auth(apiKeys []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		allowed[k] = struct{}{}
	}
	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		key := c.GetHeader("X-API-Key")
		if key == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if key == "" {
			respondUnauthorized(c, "missing API key")
			return
		}
		if _, ok := allowed[key]; !ok {
			respondUnauthorized(c, "invalid API key")
			return
		}
		c.Set("api_key", key)
		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "unauthorized", "message": message},
	})
}
