package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	authservice "github.com/MrEthical07/authservice"
	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/internal/config"
	"github.com/MrEthical07/authservice/internal/httpapi"
	"github.com/MrEthical07/authservice/internal/metrics"
	promexport "github.com/MrEthical07/authservice/metrics/export/prometheus"
	"github.com/MrEthical07/authservice/notify"
	"github.com/MrEthical07/authservice/stores"
	"github.com/MrEthical07/authservice/stores/memory"
	"github.com/MrEthical07/authservice/stores/postgres"
	"github.com/MrEthical07/authservice/stores/redisstore"
	"github.com/MrEthical07/authservice/stores/sqlite"
)

// app owns the Engine, its backends and the HTTP handler.
type app struct {
	engine  *authservice.Engine
	handler http.Handler

	closers []func()
}

// Close releases backends in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	engineCfg := cfg.Engine()
	b := authservice.New().
		WithConfig(engineCfg).
		WithLogger(logger)

	pool, err := authservice.NewPasswordPool(engineCfg.Password)
	if err != nil {
		return nil, err
	}

	users, err := a.openUserStore(ctx, cfg, pool, logger)
	if err != nil {
		return nil, err
	}
	b.WithUserStore(users)

	if cfg.UsesRedis() {
		client, err := a.openRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.WithRedis(client).
			WithBannedTokenStore(redisstore.NewBannedTokenStore(client, engineCfg.JWT.TTL+engineCfg.JWT.Leeway)).
			WithTwoFACodeStore(redisstore.NewTwoFACodeStore(client, engineCfg.TwoFA.TTL))
		logger.Info("using redis", slog.String("host", cfg.RedisHostName))
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	b.WithNotifier(notifier)

	a.engine, err = b.Build()
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	throttle := httpapi.NewThrottle(httpapi.ThrottleConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.RequestBurst,
		CleanupInterval:   httpapi.DefaultThrottleConfig().CleanupInterval,
	}, logger)
	a.onClose(throttle.Stop)

	deps := httpapi.RouterDeps{
		Service:  a.engine,
		Cookies:  httpapi.CookieConfig{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain},
		Logger:   logger,
		Throttle: throttle,
	}
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			promexport.NewPrometheusExporter(a.engine),
		)
		deps.Metrics = metrics.NewHTTPCollector(reg)
		deps.MetricsHandler = metrics.Handler(reg)
	}
	a.handler = httpapi.NewRouter(deps)

	return a, nil
}

func (a *app) openUserStore(ctx context.Context, cfg config.Config, pool stores.Hasher, logger *slog.Logger) (domain.UserStore, error) {
	switch cfg.UserStore {
	case config.StorePostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		db, err := postgres.OpenPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.onClose(db.Close)
		logger.Info("using postgres user store")
		return postgres.NewUserStore(db, pool), nil

	case config.StoreSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath, pool)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = s.Close() })
		logger.Info("using sqlite user store", slog.String("path", cfg.SQLitePath))
		return s, nil

	default:
		logger.Warn("using in-memory user store; accounts are lost on restart")
		return memory.NewUserStore(pool), nil
	}
}

func (a *app) openRedis(ctx context.Context, cfg config.Config) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL())
	if err != nil {
		return nil, fmt.Errorf("invalid redis host: %w", err)
	}
	client := redis.NewClient(opts)
	a.onClose(func() { _ = client.Close() })

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func newNotifier(cfg config.Config, logger *slog.Logger) (domain.Notifier, error) {
	if cfg.SlackWebhook == "" {
		logger.Warn("SLACK_WEBHOOK not set; 2FA codes are written to the log")
		return notify.NewLog(logger), nil
	}
	w, err := notify.NewWebhook(cfg.SlackWebhook)
	if err != nil {
		return nil, fmt.Errorf("slack webhook: %w", err)
	}
	return w, nil
}
