package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"allai/controllers"
	"allai/services"
)

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject under controllers.ContextEmailKey.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		email, err := auth.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(controllers.ContextEmailKey, email)
		c.Next()
	}
}
