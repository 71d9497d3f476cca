// Package config loads the service process configuration from the
// environment once at startup.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	authservice "github.com/MrEthical07/authservice"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
)

// Config is the process configuration of cmd/authservice.
type Config struct {
	Addr            string        `env:"AUTH_ADDR"             envDefault:"0.0.0.0:3000"`
	ShutdownTimeout time.Duration `env:"AUTH_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"AUTH_LOG_LEVEL"        envDefault:"info"`

	JWTSecret string        `env:"AUTH_JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL"  envDefault:"10m"`
	TwoFATTL  time.Duration `env:"AUTH_TWO_FA_TTL" envDefault:"10m"`

	UserStore      string `env:"AUTH_USER_STORE"      envDefault:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"AUTH_SQLITE_PATH"     envDefault:"authservice.db"`
	ChallengeStore string `env:"AUTH_CHALLENGE_STORE" envDefault:"memory"`
	RedisHostName  string `env:"REDIS_HOST_NAME"      envDefault:"127.0.0.1"`

	SlackWebhook string `env:"SLACK_WEBHOOK"`

	CookieSecure bool   `env:"AUTH_COOKIE_SECURE"`
	CookieDomain string `env:"AUTH_COOKIE_DOMAIN"`

	MetricsEnabled bool `env:"AUTH_METRICS_ENABLED" envDefault:"true"`

	MaxFailedAttempts   int           `env:"AUTH_MAX_FAILED_ATTEMPTS"   envDefault:"5"`
	FailedAttemptWindow time.Duration `env:"AUTH_FAILED_ATTEMPT_WINDOW" envDefault:"10m"`
	RequestsPerSecond   float64       `env:"AUTH_REQUESTS_PER_SECOND"   envDefault:"5"`
	RequestBurst        int           `env:"AUTH_REQUEST_BURST"         envDefault:"10"`

	OTelEndpoint string `env:"AUTH_OTEL_ENDPOINT"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the backend selection and the values it depends on.
func (c Config) Validate() error {
	switch c.UserStore {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres user store")
		}
	default:
		return fmt.Errorf("config: unknown AUTH_USER_STORE %q", c.UserStore)
	}

	switch c.ChallengeStore {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("config: unknown AUTH_CHALLENGE_STORE %q", c.ChallengeStore)
	}

	if c.UserStore == StoreSQLite && c.SQLitePath == "" {
		return errors.New("config: AUTH_SQLITE_PATH is required for the sqlite user store")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: AUTH_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.MaxFailedAttempts < 0 {
		return errors.New("config: AUTH_MAX_FAILED_ATTEMPTS must be >= 0")
	}

	engine := c.Engine()
	return engine.Validate()
}

// UsesRedis reports whether any component needs the Redis connection.
func (c Config) UsesRedis() bool {
	return c.ChallengeStore == StoreRedis
}

// Engine maps the process settings onto the library configuration.
func (c Config) Engine() authservice.Config {
	cfg := authservice.DefaultConfig()
	cfg.JWT.Secret = []byte(c.JWTSecret)
	cfg.JWT.TTL = c.TokenTTL
	cfg.TwoFA.TTL = c.TwoFATTL
	cfg.Limits.MaxFailedAttempts = c.MaxFailedAttempts
	cfg.Limits.Window = c.FailedAttemptWindow
	cfg.Metrics.Enabled = c.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = c.MetricsEnabled
	return cfg
}

// RedisURL is the connection URL for RedisHostName.
func (c Config) RedisURL() string {
	return "redis://" + c.RedisHostName + "/"
}
