package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"http_addr":         "www.example:9000",
		"database_dsn":      "postgres://db",
		"app_secret":        "my_secret_key",
		"bcrypt_cost":       12,
		"cookie_secure":     true,
		"request_timeout":   "3s",
		"mail_timeout":      "1s",
		"redis_db":          2,
		"signin_rate_limit": 0,
		"rate_limit_window": "30s",
		"s3_bucket":         "bucket",
		"s3_region":         "region",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.AppSecret)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 1*time.Second, cfg.MailTimeout)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.Equal(t, 0, cfg.SigninRateLimit)
		assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://localhost:7777", cfg.FrontendURL)
		assert.Equal(t, 5, cfg.ResetRateLimit)
		assert.Equal(t, "http://127.0.0.1:9000/", cfg.S3BaseEndpoint)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			HTTPAddr:    "defaults:1234",
			DatabaseDSN: "postgres://defaults",
			AppSecret:   "key",
			MailTimeout: 2 * time.Minute,
			S3Bucket:    "s3bucket",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, "postgres://defaults", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.AppSecret)
		assert.Equal(t, 2*time.Minute, cfg.MailTimeout)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
