package config

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseEnv overlays settings commonly injected by the deployment environment.
// Malformed numeric values are ignored.
func parseEnv(config *Config) {
	flagx.LookupEnv(map[string]func(string){
		"APP_SECRET":     func(v string) { config.AppSecret = v },
		"DATABASE_URL":   func(v string) { config.DatabaseDSN = v },
		"FRONTEND_URL":   func(v string) { config.FrontendURL = v },
		"HTTP_ADDR":      func(v string) { config.HTTPAddr = v },
		"STORAGE":        func(v string) { config.Storage = v },
		"LOG_LEVEL":      func(v string) { config.LogLevel = v },
		"MAIL_FROM":      func(v string) { config.MailFrom = v },
		"SMTP_HOST":      func(v string) { config.SMTPHost = v },
		"SMTP_USER":      func(v string) { config.SMTPUser = v },
		"SMTP_PASSWORD":  func(v string) { config.SMTPPassword = v },
		"REDIS_ADDR":     func(v string) { config.RedisAddr = v },
		"REDIS_PASSWORD": func(v string) { config.RedisPassword = v },
		"SMTP_PORT": func(v string) {
			if n, err := strconv.Atoi(v); err == nil {
				config.SMTPPort = n
			}
		},
		"COOKIE_SECURE": func(v string) {
			if b, err := strconv.ParseBool(v); err == nil {
				config.CookieSecure = b
			}
		},
		"REQUEST_TIMEOUT": func(v string) {
			if d, err := time.ParseDuration(v); err == nil {
				config.RequestTimeout = d
			}
		},
	})
}
