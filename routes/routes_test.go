package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cafe-backend/configs"
	"cafe-backend/pkg/audit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() { gin.SetMode(gin.TestMode) }

type noOTP struct{}

func (noOTP) NeedsVerification(context.Context, uint, string) (bool, error) { return false, nil }

func TestGlobalMiddleware_ScansPreflightQueries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	cfg := &configs.Config{
		JWTSecret:            "test-secret",
		SessionTTL:           time.Hour,
		SlowRequestThreshold: time.Minute,
		AllowedOrigins:       []string{"http://localhost:3000"},
	}

	r := gin.New()
	r.Use(globalMiddleware(cfg, log, audit.New(log), noOTP{})...)
	r.GET("/api/orders/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/orders/", nil)
	req.URL.RawQuery = "q=%27%20OR%201"
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)

	// CORS answers the preflight, but the scan has already seen it
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 1, logs.FilterField(zap.String("event", audit.TypeSQLInjection)).Len())
}
