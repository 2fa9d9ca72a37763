package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("APP_SECRET", "s3cr3t")
	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "s3cr3t", c.AppSecret)
	assert.Equal(t, "postgres://db", c.DatabaseDSN)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, 2525, c.SMTPPort)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
}

func TestParseEnv_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, 587, c.SMTPPort)
	assert.False(t, c.CookieSecure)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}
