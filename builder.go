package authservice

import (
	"errors"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/internal/flows"
	"github.com/MrEthical07/authservice/internal/rate"
	"github.com/MrEthical07/authservice/jwt"
	"github.com/MrEthical07/authservice/notify"
	"github.com/MrEthical07/authservice/password"
	"github.com/MrEthical07/authservice/stores/memory"
)

const tracerName = "github.com/MrEthical07/authservice"

// Builder assembles an Engine. A Builder is single use.
type Builder struct {
	config Config

	users    domain.UserStore
	banned   domain.BannedTokenStore
	codes    domain.TwoFACodeStore
	notifier domain.Notifier

	redis  redis.UniversalClient
	logger *slog.Logger
	tracer trace.Tracer

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithUserStore sets the account store. Without one, Build creates an
// in-memory store hashing with the configured Argon2id parameters.
func (b *Builder) WithUserStore(s domain.UserStore) *Builder {
	b.users = s
	return b
}

// WithBannedTokenStore sets the revocation store. Defaults to memory.
func (b *Builder) WithBannedTokenStore(s domain.BannedTokenStore) *Builder {
	b.banned = s
	return b
}

// WithTwoFACodeStore sets the challenge store. Defaults to memory with the
// configured TwoFA.TTL.
func (b *Builder) WithTwoFACodeStore(s domain.TwoFACodeStore) *Builder {
	b.codes = s
	return b
}

// WithNotifier sets where 2FA codes are delivered. Defaults to a notifier
// that only logs.
func (b *Builder) WithNotifier(n domain.Notifier) *Builder {
	b.notifier = n
	return b
}

// WithRedis enables failed-attempt throttling on client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger sets the Engine logger. Defaults to discarding output.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithTracer overrides the tracer taken from the global OTel provider.
func (b *Builder) WithTracer(tracer trace.Tracer) *Builder {
	b.tracer = tracer
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the validate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tracer := b.tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	// -------- TOKENS --------
	tokens, err := jwt.NewManager(jwt.Config{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.TTL,
		Leeway: cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	// -------- STORES --------
	users := b.users
	if users == nil {
		pool, err := NewPasswordPool(cfg.Password)
		if err != nil {
			return nil, err
		}
		users = memory.NewUserStore(pool)
	}
	banned := b.banned
	if banned == nil {
		banned = memory.NewBannedTokenStore()
	}
	codes := b.codes
	if codes == nil {
		codes = memory.NewTwoFACodeStore(cfg.TwoFA.TTL)
	}
	notifier := b.notifier
	if notifier == nil {
		notifier = notify.NewLog(logger)
	}

	// -------- LIMITER --------
	var limiter flows.AttemptLimiter
	if b.redis != nil && cfg.Limits.MaxFailedAttempts > 0 {
		limiter = rate.New(b.redis, rate.Config{
			MaxAttempts:      cfg.Limits.MaxFailedAttempts,
			Window:           cfg.Limits.Window,
			EnableIPThrottle: cfg.Limits.EnableIPThrottle,
		})
	}

	validate := flows.ValidateDeps{
		Banned: banned,
		Parse:  tokens.Parse,
	}

	engine := &Engine{
		config:  cfg,
		tokens:  tokens,
		metrics: NewMetrics(cfg.Metrics),
		logger:  logger,
		tracer:  tracer,
		flows: flows.Deps{
			Signup: flows.SignupDeps{Users: users},
			Login: flows.LoginDeps{
				Users:               users,
				Codes:               codes,
				Notifier:            notifier,
				Limiter:             limiter,
				IssueToken:          tokens.Issue,
				NewAttemptID:        domain.NewLoginAttemptID,
				NewCode:             domain.NewTwoFACode,
				ClientIPFromContext: ClientIPFromContext,
				TwoFASubject:        cfg.TwoFA.Subject,
			},
			Verify2FA: flows.Verify2FADeps{
				Codes:      codes,
				Limiter:    limiter,
				IssueToken: tokens.Issue,
			},
			Logout: flows.LogoutDeps{
				Validate: validate,
				Banned:   banned,
			},
			Validate: validate,
		},
	}

	b.built = true
	return engine, nil
}

// NewPasswordPool builds the bounded Argon2id pool described by cfg. User
// stores constructed outside the Builder take it as their hasher.
func NewPasswordPool(cfg PasswordConfig) (*password.Pool, error) {
	h, err := password.NewHasher(password.Params{
		Memory:      cfg.Memory,
		Iterations:  cfg.Iterations,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	return password.NewPool(h, cfg.PoolSize), nil
}
