package middlewares

import (
	"net/http"
	"time"

	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "sessionid"
	SessionHeader = "X-Session-ID"
)

// Session makes sure every request carries a session id. Browsers get it as
// a cookie; API clients may send it in X-Session-ID instead.
func Session(ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			sid, _ = c.Cookie(SessionCookie)
		}
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, int(ttl.Seconds()), "/", "", secure, true)
		}
		c.Set(utils.CtxSessionID, sid)
		c.Next()
	}
}
