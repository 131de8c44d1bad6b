package middleware

import (
	"net/http"
	"strings"

	"github.com/dfryer1193/pressroom/internal/auth"
	"github.com/gin-gonic/gin"
)

const userIDKey = "auth.userID"

// RequireUser verifies the bearer token and stashes the user ID in the
// request context. Rejections use bare-string bodies; the like/save clients
// predate the JSON error envelope and key off the status line alone.
func RequireUser(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" when the route did not
// pass through RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
