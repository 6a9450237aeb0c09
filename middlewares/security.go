package middlewares

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"cafe-backend/pkg/audit"
	"cafe-backend/pkg/metrics"
	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var sqlInjectionPatterns = compileAll(
	`(\%27)|(\')|(\-\-)|(\%23)|(#)`,
	`((\%3D)|(=))[^\n]*((\%27)|(\')|(\-\-)|(\%3B)|(;))`,
	`((\%27)|(\'))union`,
	`exec(\s|\+)+(s|x)p\w+`,
)

var xssPatterns = compileAll(
	`<script`,
	`javascript:`,
	`onerror=`,
	`onload=`,
	`eval\(`,
)

// Paths that never get the second-factor redirect.
var otpExemptPaths = compileAll(
	`^/login/`,
	`^/two_factor/setup/`,
	`^/static/`,
	`^/media/`,
	`^/api/`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

func matchesAny(set []*regexp.Regexp, s string) bool {
	for _, re := range set {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// ScanQuery logs query strings that look like SQL injection or XSS probes.
// At most one entry per pattern set; the request always continues.
func ScanQuery(auditLog *audit.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		qs := c.Request.URL.RawQuery
		if qs != "" {
			if matchesAny(sqlInjectionPatterns, qs) {
				auditLog.SuspiciousQuery(audit.TypeSQLInjection, qs, c.Request)
				metrics.RecordSuspicious(audit.TypeSQLInjection)
			}
			if matchesAny(xssPatterns, qs) {
				auditLog.SuspiciousQuery(audit.TypeXSS, qs, c.Request)
				metrics.RecordSuspicious(audit.TypeXSS)
			}
		}
		c.Next()
	}
}

// OTPChecker reports whether a session still owes a second factor.
type OTPChecker interface {
	NeedsVerification(ctx context.Context, userID uint, sessionID string) (bool, error)
}

// TwoFactorGate sends authenticated users with a confirmed device but an
// unverified session back to the login page.
func TwoFactorGate(checker OTPChecker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := utils.CurrentUserID(c)
		if userID == 0 || matchesAny(otpExemptPaths, c.Request.URL.Path) {
			c.Next()
			return
		}
		need, err := checker.NeedsVerification(c.Request.Context(), userID, utils.SessionID(c))
		if err != nil {
			// fail closed
			log.Error("2fa check failed", zap.Uint("user_id", userID), zap.Error(err))
			need = true
		}
		if need {
			c.Redirect(http.StatusFound, "/login/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SlowRequests warns about requests that took longer than threshold.
func SlowRequests(auditLog *audit.Logger, threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if took := time.Since(start); took > threshold {
			auditLog.SlowRequest(c.Request, took)
		}
	}
}

const (
	contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:;"
	hstsValue             = "max-age=31536000; includeSubDomains"
)

// SecurityHeaders fills in CSP, nosniff, frame options and (outside debug)
// HSTS on every response. Headers a handler already set are left untouched,
// so they are applied at the last moment before the header block is sent.
func SecurityHeaders(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &headerWriter{ResponseWriter: c.Writer, debug: debug}
		c.Writer = w
		c.Next()
		w.apply()
	}
}

type headerWriter struct {
	gin.ResponseWriter
	debug   bool
	applied bool
}

func (w *headerWriter) apply() {
	if w.applied || w.ResponseWriter.Written() {
		return
	}
	w.applied = true
	h := w.Header()
	setIfAbsent(h, "Content-Security-Policy", contentSecurityPolicy)
	setIfAbsent(h, "X-Content-Type-Options", "nosniff")
	setIfAbsent(h, "X-Frame-Options", "SAMEORIGIN")
	if !w.debug {
		setIfAbsent(h, "Strict-Transport-Security", hstsValue)
	}
}

func setIfAbsent(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}

func (w *headerWriter) WriteHeaderNow() {
	w.apply()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *headerWriter) Write(b []byte) (int, error) {
	w.apply()
	return w.ResponseWriter.Write(b)
}

func (w *headerWriter) WriteString(s string) (int, error) {
	w.apply()
	return w.ResponseWriter.WriteString(s)
}

func (w *headerWriter) Flush() {
	w.apply()
	w.ResponseWriter.Flush()
}
