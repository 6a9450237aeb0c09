package audit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", ClientIP(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.2")
	assert.Equal(t, "203.0.113.7", ClientIP(r))

	assert.Equal(t, "unknown", ClientIP(nil))
}

func TestLoginFailedWithoutUsername(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	r := httptest.NewRequest("POST", "/login/", nil)
	r.RemoteAddr = "198.51.100.4:1234"
	r.Header.Set("User-Agent", "Mozilla/5.0")
	l.LoginFailed("", r)

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.Equal(t, "[LOGIN_FAILED] Failed login attempt for unknown - User: unknown, IP: 198.51.100.4, User Agent: Mozilla/5.0", e.Message)
	assert.Equal(t, "security", e.LoggerName)
}

func TestOTPFailedNamesDevice(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	New(zap.New(core)).OTPFailed("alice", "TOTPDevice", nil)

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "Failed 2FA verification for alice using TOTPDevice")
	assert.Equal(t, TypeOTPFailed, logs.All()[0].ContextMap()["event"])
}

func TestSuspiciousAndSlow(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))
	r := httptest.NewRequest("GET", "/menu/?q=1", nil)
	r.RemoteAddr = "192.0.2.1:80"

	l.SuspiciousQuery(TypeXSS, "q=<script>", r)
	l.SlowRequest(r, 3500*time.Millisecond)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Potential XSS attempt detected: q=<script> - IP: 192.0.2.1, Path: /menu/", entries[0].Message)
	assert.Equal(t, "q=<script>", entries[0].ContextMap()["query"])
	assert.Equal(t, "Slow request detected: GET /menu/ - Duration: 3.50s, IP: 192.0.2.1", entries[1].Message)
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.LoginSucceeded("alice", nil)
		l.SuspiciousQuery(TypeSQLInjection, "x", nil)
		l.SlowRequest(nil, time.Second)
	})
}
