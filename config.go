package authservice

import (
	"errors"
	"time"

	"github.com/MrEthical07/authservice/jwt"
	"github.com/MrEthical07/authservice/password"
)

// Config holds Engine settings. It is copied by the Builder and treated as
// immutable afterwards.
type Config struct {
	JWT      JWTConfig
	TwoFA    TwoFAConfig
	Password PasswordConfig
	Limits   LimitsConfig
	Metrics  MetricsConfig
}

// JWTConfig configures session token issuance.
type JWTConfig struct {
	// Secret is the HS256 key, at least jwt.MinSecretLength bytes.
	Secret []byte
	// TTL is both the token lifetime and the revocation-set retention.
	TTL    time.Duration
	Leeway time.Duration
}

// TwoFAConfig configures second-factor challenges.
type TwoFAConfig struct {
	// TTL bounds how long a pending challenge may be verified.
	TTL time.Duration
	// Subject is the notification subject line carrying the code.
	Subject string
}

// PasswordConfig holds Argon2id cost parameters and the size of the
// hashing pool.
type PasswordConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	// PoolSize caps concurrent hash computations. 0 selects NumCPU.
	PoolSize int
}

// LimitsConfig configures failed-attempt throttling. Throttling needs a
// Redis client (Builder.WithRedis) and is off when MaxFailedAttempts is 0.
type LimitsConfig struct {
	MaxFailedAttempts int
	Window            time.Duration
	EnableIPThrottle  bool
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the production defaults. JWT.Secret is left empty
// and must be set.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	p := password.DefaultParams()
	return Config{
		JWT: JWTConfig{
			TTL: 10 * time.Minute,
		},
		TwoFA: TwoFAConfig{
			TTL:     10 * time.Minute,
			Subject: "Your 2FA Code",
		},
		Password: PasswordConfig{
			Memory:      p.Memory,
			Iterations:  p.Iterations,
			Parallelism: p.Parallelism,
			SaltLength:  p.SaltLength,
			KeyLength:   p.KeyLength,
		},
		Limits: LimitsConfig{
			MaxFailedAttempts: 5,
			Window:            10 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.Secret) < jwt.MinSecretLength {
		return errors.New("JWT Secret must be at least 32 bytes")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT TTL must be > 0")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be within [0, 2m]")
	}

	// 2FA
	if c.TwoFA.TTL <= 0 {
		return errors.New("TwoFA TTL must be > 0")
	}
	if c.TwoFA.Subject == "" {
		return errors.New("TwoFA Subject must not be empty")
	}

	// Password
	if _, err := password.NewHasher(password.Params{
		Memory:      c.Password.Memory,
		Iterations:  c.Password.Iterations,
		Parallelism: c.Password.Parallelism,
		SaltLength:  c.Password.SaltLength,
		KeyLength:   c.Password.KeyLength,
	}); err != nil {
		return err
	}
	if c.Password.PoolSize < 0 {
		return errors.New("Password PoolSize must be >= 0")
	}

	// Limits
	if c.Limits.MaxFailedAttempts < 0 {
		return errors.New("Limits MaxFailedAttempts must be >= 0")
	}
	if c.Limits.MaxFailedAttempts > 0 && c.Limits.Window <= 0 {
		return errors.New("Limits Window must be > 0 when MaxFailedAttempts is set")
	}

	return nil
}
