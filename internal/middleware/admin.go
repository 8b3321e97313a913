package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminRequired guards the admin routes. When disabled the routes answer
// 404. Otherwise requests must carry the configured token as a bearer token;
// with no token configured every request is refused.
func AdminRequired(enabled bool, token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": gin.H{"message": "not found", "code": "not_found"},
			})
			return
		}
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "admin token required", "code": "unauthorized"},
			})
			return
		}
		c.Next()
	}
}
