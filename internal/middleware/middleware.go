package middleware

import (
	"net/http"
	"strings"

	"pressroom/internal/token"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// AuthMiddleware guards mutating article routes. It accepts only
// "Authorization: Bearer <token>" and puts the verified user id into the
// request context under "user_id".
func AuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "No Authorization header provided",
				"error":   "Missing authorization token",
			})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authorization header malformed",
				"error":   "Use format: Bearer {token}",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
