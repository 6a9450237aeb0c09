package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DEBUG", "SLOW_REQUEST_THRESHOLD", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DEBUG", "not-a-bool")
	t.Setenv("SLOW_REQUEST_THRESHOLD", "nope")

	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 3*time.Second, cfg.SlowRequestThreshold)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DEBUG", "true")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("ALLOWED_ORIGINS", "https://cafe.example/, https://admin.cafe.example")

	cfg := LoadConfig()
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://cafe.example", "https://admin.cafe.example"}, cfg.AllowedOrigins)
}
