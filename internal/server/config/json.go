package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. Only fields present in the file override the target Config.
type JsonConfig struct {
	HTTPAddr        string          `json:"http_addr"`
	Storage         string          `json:"storage"`
	DatabaseDSN     string          `json:"database_dsn"`
	AppSecret       string          `json:"app_secret"`
	FrontendURL     string          `json:"frontend_url"`
	BcryptCost      int             `json:"bcrypt_cost"`
	CookieSecure    *bool           `json:"cookie_secure"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	MailTimeout     *timex.Duration `json:"mail_timeout"`
	LogLevel        string          `json:"log_level"`
	MailFrom        string          `json:"mail_from"`
	SMTPHost        string          `json:"smtp_host"`
	SMTPPort        int             `json:"smtp_port"`
	SMTPUser        string          `json:"smtp_user"`
	SMTPPassword    string          `json:"smtp_password"`
	RedisAddr       string          `json:"redis_addr"`
	RedisPassword   string          `json:"redis_password"`
	RedisDB         *int            `json:"redis_db"`
	SigninRateLimit *int            `json:"signin_rate_limit"`
	ResetRateLimit  *int            `json:"reset_rate_limit"`
	RateLimitWindow *timex.Duration `json:"rate_limit_window"`
	S3RootUser      string          `json:"s3_root_user"`
	S3RootPassword  string          `json:"s3_root_password"`
	S3Bucket        string          `json:"s3_bucket"`
	S3Region        string          `json:"s3_region"`
	S3BaseEndpoint  string          `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags.
// If it is not set, no JSON file is loaded.
//
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AppSecret, c.AppSecret)
	setString(&config.FrontendURL, c.FrontendURL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.SigninRateLimit != nil {
		config.SigninRateLimit = *c.SigninRateLimit
	}
	if c.ResetRateLimit != nil {
		config.ResetRateLimit = *c.ResetRateLimit
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.MailTimeout != nil {
		config.MailTimeout = c.MailTimeout.Duration
	}
	if c.RateLimitWindow != nil {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
