package middlewares

import (
	"net/http"

	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
)

// WSAuthMiddleware takes the JWT from ?token= or the Authorization header,
// never from the cookie: a cross-site page can make the browser send cookies
// on a handshake, but it cannot know the token.
func WSAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			tokenStr = headerToken(c)
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing token"})
			return
		}
		claims, err := utils.ParseToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}
