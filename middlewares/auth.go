package middlewares

import (
	"net/http"
	"net/url"
	"strings"

	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
)

const TokenCookie = "token"

func headerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	if t := headerToken(c); t != "" {
		return t
	}
	if t, err := c.Cookie(TokenCookie); err == nil {
		return t
	}
	return ""
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set(utils.CtxUserID, claims.UserID)
	c.Set(utils.CtxUsername, claims.Username)
	c.Set(utils.CtxIsStaff, claims.IsStaff)
}

// Authenticate reads the JWT from the Authorization header or the token
// cookie when present. Anonymous requests pass through unchanged.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := bearerToken(c); tok != "" {
			if claims, err := utils.ParseToken(tok, secret); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// AuthMiddleware rejects anonymous API calls. With staffOnly the user must
// also be staff.
func AuthMiddleware(staffOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsAuthenticated(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			c.Abort()
			return
		}
		if staffOnly && !utils.IsStaff(c) {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRequired is the page flavour of AuthMiddleware: anonymous visitors are
// redirected to the login page with a next parameter.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsAuthenticated(c) {
			c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}
