package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("RATE_LIMIT_ENABLED", "")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.RateLimitOn)
	assert.Equal(t, 0.2, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
}

func TestLoadFallsBackOnBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY", "a week")
	t.Setenv("RATE_LIMIT_BURST", "-3")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("RATE_LIMIT_ENABLED", "nah")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, 0.2, cfg.RateLimitRPS)
	assert.True(t, cfg.RateLimitOn)
	assert.True(t, cfg.IsProduction())
}

func TestLoadDatabaseSkipsSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_CONNECTION", "postgres://localhost/myprogress")

	driver, conn := LoadDatabase()

	assert.Equal(t, "pgx", driver)
	assert.Equal(t, "postgres://localhost/myprogress", conn)
}

func TestTrustProxyIsOptIn(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TRUST_PROXY", "")
	assert.False(t, Load().TrustProxy)

	t.Setenv("TRUST_PROXY", "true")
	assert.True(t, Load().TrustProxy)
}
