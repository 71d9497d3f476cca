package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, cfg), mr
}

func TestLoginBudgetBlocksAtMax(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, Config{MaxAttempts: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		if err := l.CheckLogin(ctx, "a@b.c", ""); err != nil {
			t.Fatalf("check %d: unexpected error %v", i, err)
		}
		if err := l.RecordLoginFailure(ctx, "a@b.c", ""); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	if err := l.CheckLogin(ctx, "a@b.c", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := l.CheckLogin(ctx, "other@b.c", ""); err != nil {
		t.Fatalf("other email must not be limited, got %v", err)
	}

	n, err := l.Attempts(ctx, "a@b.c")
	if err != nil || n != 3 {
		t.Fatalf("Attempts = %d, %v; want 3, nil", n, err)
	}
}

func TestLoginWindowExpires(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, Config{MaxAttempts: 1, Window: time.Minute})

	if err := l.RecordLoginFailure(ctx, "a@b.c", ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if ttl := mr.TTL("al:a@b.c"); ttl != time.Minute {
		t.Fatalf("expected window TTL on first hit, got %v", ttl)
	}
	if err := l.CheckLogin(ctx, "a@b.c", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	if err := l.CheckLogin(ctx, "a@b.c", ""); err != nil {
		t.Fatalf("expected window to expire, got %v", err)
	}
}

func TestResetLoginKeepsIPCounter(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, Config{MaxAttempts: 1, Window: time.Minute, EnableIPThrottle: true})

	if err := l.RecordLoginFailure(ctx, "a@b.c", "10.0.0.1"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.ResetLogin(ctx, "a@b.c"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if mr.Exists("al:a@b.c") {
		t.Fatal("expected per-email counter to be cleared")
	}
	if err := l.CheckLogin(ctx, "x@b.c", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected IP budget to remain exhausted, got %v", err)
	}
	if err := l.CheckLogin(ctx, "x@b.c", ""); err != nil {
		t.Fatalf("no IP means no IP check, got %v", err)
	}
}

func TestTwoFABudgetIsSeparate(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, Config{MaxAttempts: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		if err := l.RecordTwoFAFailure(ctx, "a@b.c"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := l.CheckTwoFA(ctx, "a@b.c"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := l.CheckLogin(ctx, "a@b.c", ""); err != nil {
		t.Fatalf("login budget must be independent, got %v", err)
	}
	if err := l.ResetTwoFA(ctx, "a@b.c"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := l.CheckTwoFA(ctx, "a@b.c"); err != nil {
		t.Fatalf("expected reset budget, got %v", err)
	}
}

func TestRedisFailureIsReported(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, Config{MaxAttempts: 2, Window: time.Minute})
	mr.Close()

	if err := l.CheckLogin(ctx, "a@b.c", ""); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from check, got %v", err)
	}
	if err := l.RecordTwoFAFailure(ctx, "a@b.c"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from record, got %v", err)
	}
	if _, err := l.Attempts(ctx, "a@b.c"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from attempts, got %v", err)
	}
}
