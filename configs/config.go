package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Debug  bool
	Port   string

	DBDriver string
	DBSource string

	RedisURL   string
	SessionTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	SlowRequestThreshold time.Duration
	AllowedOrigins       []string

	SeedMenu bool
}

func LoadConfig() *Config {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not read .env: %v", err)
	}

	return &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Debug:                getBool("DEBUG", false),
		Port:                 getEnv("PORT", "8000"),
		DBDriver:             getEnv("DB_DRIVER", "sqlite"),
		DBSource:             getEnv("DB_SOURCE", "cafe.db"),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:           getDuration("SESSION_TTL", 14*24*time.Hour),
		JWTSecret:            getEnv("JWT_SECRET", "changeme"),
		JWTTTL:               getDuration("JWT_TTL", 24*time.Hour),
		SlowRequestThreshold: getDuration("SLOW_REQUEST_THRESHOLD", 3*time.Second),
		AllowedOrigins:       getList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		SeedMenu:             getBool("SEED_MENU", true),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid bool for %s: %q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(strings.TrimSuffix(s, "/")); s != "" {
			out = append(out, s)
		}
	}
	return out
}
