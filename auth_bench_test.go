package authservice

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authservice/stores/redisstore"
)

func BenchmarkVerifyTokenMemory(b *testing.B) {
	engine := newBenchmarkEngine(b, false)

	res, err := engine.Login(context.Background(), "alice@example.com", "correct-password-123")
	if err != nil {
		b.Fatalf("login failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.VerifyToken(context.Background(), res.Token.Value); err != nil {
			b.Fatalf("verify failed: %v", err)
		}
	}
}

func BenchmarkVerifyTokenRedis(b *testing.B) {
	engine := newBenchmarkEngine(b, true)

	res, err := engine.Login(context.Background(), "alice@example.com", "correct-password-123")
	if err != nil {
		b.Fatalf("login failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.VerifyToken(context.Background(), res.Token.Value); err != nil {
			b.Fatalf("verify failed: %v", err)
		}
	}
}

func BenchmarkLogin(b *testing.B) {
	engine := newBenchmarkEngine(b, true)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := engine.Login(context.Background(), "alice@example.com", "correct-password-123")
		if err != nil {
			b.Fatalf("login failed: %v", err)
		}
		_ = engine.Logout(context.Background(), res.Token.Value)
	}
}

func newBenchmarkEngine(tb testing.TB, useRedis bool) *Engine {
	tb.Helper()

	cfg := validTestConfig()
	cfg.Password.Parallelism = 1
	cfg.Metrics.Enabled = false

	b := New().WithConfig(cfg)
	if useRedis {
		mr := miniredis.RunT(tb)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		tb.Cleanup(func() { _ = rdb.Close() })
		b = b.WithBannedTokenStore(redisstore.NewBannedTokenStore(rdb, cfg.JWT.TTL)).
			WithTwoFACodeStore(redisstore.NewTwoFACodeStore(rdb, cfg.TwoFA.TTL))
	}

	engine, err := b.Build()
	if err != nil {
		tb.Fatalf("Build: %v", err)
	}
	if err := engine.Signup(context.Background(), SignupInput{
		Email:    "alice@example.com",
		Password: "correct-password-123",
	}); err != nil {
		tb.Fatalf("Signup: %v", err)
	}
	return engine
}
