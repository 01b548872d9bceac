package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests whose X-API-Key header does not match key.
// An empty key disables the check.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		provided := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + apiKeyHeader + " header"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}

// RequireReady answers 503 until startup data has loaded, matching the
// chat commands. A nil readiness lets every request through.
func RequireReady(readiness Readiness) gin.HandlerFunc {
	return func(c *gin.Context) {
		if readiness != nil && !readiness.Ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "still loading, try again in a moment"})
			return
		}
		c.Next()
	}
}
