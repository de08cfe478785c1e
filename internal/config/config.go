package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BackendConfig locates the remote REST backend that owns creators,
// payments and login verification.
type BackendConfig struct {
	Origin  string        `mapstructure:"origin"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	SessionSecret string        `mapstructure:"session_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	CookieDomain  string        `mapstructure:"cookie_domain"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
}

type WebhookConfig struct {
	StripeSecret string        `mapstructure:"stripe_secret"`
	Tolerance    time.Duration `mapstructure:"tolerance"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	BucketSize    int `mapstructure:"bucket_size"`
	RefillRate    int `mapstructure:"refill_rate"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

func Load() (*Config, error) {
	return LoadWithPath("")
}

// LoadWithPath loads configuration from the given YAML file (or the
// default search paths when empty), layered under environment
// variables prefixed with EVERPAY_ (e.g. EVERPAY_BACKEND_ORIGIN).
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("backend.origin", "")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.token_ttl", "720h")
	v.SetDefault("auth.cookie_name", "everpay_session")
	v.SetDefault("auth.cookie_domain", "")
	v.SetDefault("auth.cookie_secure", true)
	v.SetDefault("webhook.stripe_secret", "")
	v.SetDefault("webhook.tolerance", "5m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("rate_limit.bucket_size", 100)
	v.SetDefault("rate_limit.refill_rate", 10)
	v.SetDefault("rate_limit.window_seconds", 1)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file_path", "logs/gateway.log")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)

	// Read environment variables
	v.SetEnvPrefix("EVERPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the fields the service cannot run without.
func (c *Config) Validate() error {
	if c.Backend.Origin == "" {
		return fmt.Errorf("backend.origin is required")
	}
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("auth.session_secret is required")
	}
	return nil
}
