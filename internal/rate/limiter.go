package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds limiter tuning parameters.
type Config struct {
	// MaxAttempts is the number of failures tolerated inside one window.
	// Once reached, further checks are rejected until the window expires
	// or a success resets the counter.
	MaxAttempts int
	Window      time.Duration
	// EnableIPThrottle adds a per-IP counter to login checks.
	EnableIPThrottle bool
}

// Limiter counts failed login and 2FA attempts in Redis.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// CheckLogin returns ErrRateLimited when the email (or, with IP throttling
// enabled, the client IP) has exhausted its failure budget.
func (l *Limiter) CheckLogin(ctx context.Context, email, ip string) error {
	if err := l.checkCounter(ctx, loginUserKey(email)); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.checkCounter(ctx, loginIPKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

// RecordLoginFailure counts one failed password check.
func (l *Limiter) RecordLoginFailure(ctx context.Context, email, ip string) error {
	if _, err := l.incrementWithTTL(ctx, loginUserKey(email)); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if _, err := l.incrementWithTTL(ctx, loginIPKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

// ResetLogin clears the per-email counter after a successful login.
// The per-IP counter is left alone so one good account cannot launder
// failures against others from the same address.
func (l *Limiter) ResetLogin(ctx context.Context, email string) error {
	return l.del(ctx, loginUserKey(email))
}

// CheckTwoFA returns ErrRateLimited when the email has exhausted its
// second-factor failure budget.
func (l *Limiter) CheckTwoFA(ctx context.Context, email string) error {
	return l.checkCounter(ctx, twoFAKey(email))
}

// RecordTwoFAFailure counts one wrong code or attempt id.
func (l *Limiter) RecordTwoFAFailure(ctx context.Context, email string) error {
	_, err := l.incrementWithTTL(ctx, twoFAKey(email))
	return err
}

// ResetTwoFA clears the second-factor counter after a verified code.
func (l *Limiter) ResetTwoFA(ctx context.Context, email string) error {
	return l.del(ctx, twoFAKey(email))
}

// Attempts returns the current login failure counter for an email.
// Missing keys return zero.
func (l *Limiter) Attempts(ctx context.Context, email string) (int, error) {
	count, err := l.redis.Get(ctx, loginUserKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}

	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func (l *Limiter) del(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func loginUserKey(email string) string { return "al:" + email }
func loginIPKey(ip string) string      { return "ali:" + ip }
func twoFAKey(email string) string     { return "a2f:" + email }
