package utils

import "github.com/gin-gonic/gin"

// Context keys set by the auth and session middlewares.
const (
	CtxUserID    = "userId"
	CtxUsername  = "username"
	CtxIsStaff   = "isStaff"
	CtxSessionID = "sessionId"
)

func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(CtxUserID)
	switch id := v.(type) {
	case uint:
		return id
	case int:
		return uint(id)
	case int64:
		return uint(id)
	case float64:
		return uint(id)
	default:
		return 0
	}
}

func CurrentUsername(c *gin.Context) string {
	return c.GetString(CtxUsername)
}

func IsStaff(c *gin.Context) bool {
	return c.GetBool(CtxIsStaff)
}

func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != 0
}

func SessionID(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}
