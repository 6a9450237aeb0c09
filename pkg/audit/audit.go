// Package audit writes the security audit trail: authentication outcomes,
// suspicious requests and slow requests. Entries go to a dedicated named zap
// logger so they can be routed separately from request logs.
package audit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is safe to use as a nil pointer; every method then does nothing.
type Logger struct {
	log *zap.Logger
}

func New(base *zap.Logger) *Logger {
	return &Logger{log: base.Named("security")}
}

// Event types used in entries.
const (
	TypeLoginSuccess = "LOGIN_SUCCESS"
	TypeLoginFailed  = "LOGIN_FAILED"
	TypeLogout       = "LOGOUT"
	TypeOTPFailed    = "2FA_FAILED"
	TypeSQLInjection = "SQL_INJECTION"
	TypeXSS          = "XSS"
	TypeSlowRequest  = "SLOW_REQUEST"
)

// ClientIP returns the first hop of X-Forwarded-For when present, otherwise the
// peer address of the connection.
func ClientIP(r *http.Request) string {
	if r == nil {
		return "unknown"
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

// Event writes a generic entry: "[type] msg - User: u, IP: ip, User Agent: ua".
func (l *Logger) Event(level zapcore.Level, eventType, msg, user string, r *http.Request) {
	if l == nil || l.log == nil {
		return
	}
	if user == "" {
		user = "Anonymous"
	}
	ip := ClientIP(r)
	ua := userAgent(r)
	line := fmt.Sprintf("[%s] %s - User: %s, IP: %s, User Agent: %s", eventType, msg, user, ip, ua)
	if ce := l.log.Check(level, line); ce != nil {
		ce.Write(
			zap.String("event", eventType),
			zap.String("user", user),
			zap.String("ip", ip),
			zap.String("user_agent", ua),
		)
	}
}

func (l *Logger) LoginSucceeded(username string, r *http.Request) {
	l.Event(zapcore.InfoLevel, TypeLoginSuccess, "User "+username+" logged in", username, r)
}

// LoginFailed records a rejected credential check. An empty username is
// recorded as "unknown".
func (l *Logger) LoginFailed(username string, r *http.Request) {
	if username == "" {
		username = "unknown"
	}
	l.Event(zapcore.WarnLevel, TypeLoginFailed, "Failed login attempt for "+username, username, r)
}

func (l *Logger) LoggedOut(username string, r *http.Request) {
	l.Event(zapcore.InfoLevel, TypeLogout, "User "+username+" logged out", username, r)
}

// OTPFailed records a failed second-factor check, naming the device kind.
func (l *Logger) OTPFailed(username, deviceClass string, r *http.Request) {
	l.Event(zapcore.WarnLevel, TypeOTPFailed,
		fmt.Sprintf("Failed 2FA verification for %s using %s", username, deviceClass), username, r)
}

// SuspiciousQuery records a query string matching one of the injection pattern
// sets. The request is never blocked.
func (l *Logger) SuspiciousQuery(kind, query string, r *http.Request) {
	if l == nil || l.log == nil {
		return
	}
	label := "SQL Injection"
	if kind == TypeXSS {
		label = "XSS attempt"
	}
	ip := ClientIP(r)
	path := requestPath(r)
	l.log.Warn(fmt.Sprintf("Potential %s detected: %s - IP: %s, Path: %s", label, query, ip, path),
		zap.String("event", kind),
		zap.String("query", query),
		zap.String("ip", ip),
		zap.String("path", path),
	)
}

func (l *Logger) SlowRequest(r *http.Request, took time.Duration) {
	if l == nil || l.log == nil {
		return
	}
	method := ""
	if r != nil {
		method = r.Method
	}
	ip := ClientIP(r)
	path := requestPath(r)
	l.log.Warn(fmt.Sprintf("Slow request detected: %s %s - Duration: %.2fs, IP: %s", method, path, took.Seconds(), ip),
		zap.String("event", TypeSlowRequest),
		zap.String("method", method),
		zap.String("path", path),
		zap.Duration("duration", took),
		zap.String("ip", ip),
	)
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}
