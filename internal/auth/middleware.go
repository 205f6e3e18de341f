package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware authenticates requests against the configured API key.
// Accepts Authorization: Bearer <key> or the x-api-key header.
func Middleware(apiKey string) gin.HandlerFunc {
	expected := strings.TrimSpace(apiKey)
	return func(c *gin.Context) {
		if expected == "" {
			abortJSON(c, http.StatusInternalServerError, "server_error", "server_misconfigured",
				"server misconfigured: missing auth.api_key")
			return
		}
		got := presentedKey(c)
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			abortJSON(c, http.StatusUnauthorized, "invalid_request_error", "invalid_api_key", "unauthorized")
			return
		}
		c.Next()
	}
}

func presentedKey(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(v, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(v, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader("x-api-key"))
}

func abortJSON(c *gin.Context, status int, typ, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"message": msg,
			"type":    typ,
			"code":    code,
		},
	})
}
