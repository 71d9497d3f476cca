package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/authservice/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func mustEmail(t *testing.T, raw string) domain.Email {
	t.Helper()
	e, err := domain.ParseEmail(raw)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	return e
}

func TestBannedTokenStore(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewBannedTokenStore(rdb, 10*time.Minute)
	ctx := context.Background()

	if banned, err := s.CheckBannedToken(ctx, "tok"); err != nil || banned {
		t.Fatalf("fresh token: banned=%v err=%v", banned, err)
	}
	if err := s.AddBannedToken(ctx, "tok"); err != nil {
		t.Fatalf("AddBannedToken: %v", err)
	}
	if err := s.AddBannedToken(ctx, "tok"); err != nil {
		t.Fatalf("AddBannedToken must be idempotent: %v", err)
	}
	if banned, err := s.CheckBannedToken(ctx, "tok"); err != nil || !banned {
		t.Fatalf("expected banned, got banned=%v err=%v", banned, err)
	}

	if !mr.Exists("banned_token:tok") {
		t.Fatal("expected banned_token:tok key")
	}
	if ttl := mr.TTL("banned_token:tok"); ttl != 10*time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	mr.FastForward(10*time.Minute + time.Second)
	if banned, _ := s.CheckBannedToken(ctx, "tok"); banned {
		t.Fatal("ban must lapse after ttl")
	}
}

func TestTwoFACodeStoreRoundTrip(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewTwoFACodeStore(rdb, 10*time.Minute)
	ctx := context.Background()
	email := mustEmail(t, "alice@example.com")

	if _, _, err := s.GetCode(ctx, email); !errors.Is(err, domain.ErrLoginAttemptNotFound) {
		t.Fatalf("expected ErrLoginAttemptNotFound, got %v", err)
	}

	id := domain.NewLoginAttemptID()
	code, _ := domain.ParseTwoFACode("012345")
	if err := s.AddCode(ctx, email, id, code); err != nil {
		t.Fatalf("AddCode: %v", err)
	}
	if ttl := mr.TTL("two_fa_code:alice@example.com"); ttl != 10*time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	gotID, gotCode, err := s.GetCode(ctx, email)
	if err != nil {
		t.Fatalf("GetCode: %v", err)
	}
	if gotID != id || gotCode != code {
		t.Fatal("challenge did not round trip")
	}

	if err := s.RemoveCode(ctx, email); err != nil {
		t.Fatalf("RemoveCode: %v", err)
	}
	if err := s.RemoveCode(ctx, email); !errors.Is(err, domain.ErrLoginAttemptNotFound) {
		t.Fatalf("expected ErrLoginAttemptNotFound, got %v", err)
	}
}

func TestTwoFACodeStoreOverwriteAndExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewTwoFACodeStore(rdb, 10*time.Minute)
	ctx := context.Background()
	email := mustEmail(t, "alice@example.com")

	first, _ := domain.ParseTwoFACode("111111")
	second, _ := domain.ParseTwoFACode("222222")
	_ = s.AddCode(ctx, email, domain.NewLoginAttemptID(), first)
	mr.FastForward(5 * time.Minute)
	secondID := domain.NewLoginAttemptID()
	_ = s.AddCode(ctx, email, secondID, second)

	gotID, gotCode, err := s.GetCode(ctx, email)
	if err != nil || gotID != secondID || gotCode != second {
		t.Fatalf("expected second challenge, err=%v", err)
	}

	// Overwrite resets the ttl.
	mr.FastForward(9 * time.Minute)
	if _, _, err := s.GetCode(ctx, email); err != nil {
		t.Fatalf("challenge expired early: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, _, err := s.GetCode(ctx, email); !errors.Is(err, domain.ErrLoginAttemptNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestTwoFACodeStoreCorruptRecord(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewTwoFACodeStore(rdb, time.Minute)
	email := mustEmail(t, "alice@example.com")

	if err := mr.Set("two_fa_code:alice@example.com", "\x09garbage"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := s.GetCode(context.Background(), email); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestStoresReportBackendFailure(t *testing.T) {
	mr, rdb := newTestRedis(t)
	banned := NewBannedTokenStore(rdb, time.Minute)
	codes := NewTwoFACodeStore(rdb, time.Minute)
	email := mustEmail(t, "alice@example.com")
	ctx := context.Background()

	mr.Close()

	if err := banned.AddBannedToken(ctx, "tok"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("AddBannedToken: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := banned.CheckBannedToken(ctx, "tok"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("CheckBannedToken: expected ErrStoreUnavailable, got %v", err)
	}
	code, _ := domain.ParseTwoFACode("123456")
	if err := codes.AddCode(ctx, email, domain.NewLoginAttemptID(), code); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("AddCode: expected ErrStoreUnavailable, got %v", err)
	}
	if _, _, err := codes.GetCode(ctx, email); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("GetCode: expected ErrStoreUnavailable, got %v", err)
	}
	if err := codes.RemoveCode(ctx, email); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("RemoveCode: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestChallengeCodec(t *testing.T) {
	encoded, err := encodeChallenge("id", "123456")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	id, code, err := decodeChallenge(encoded)
	if err != nil || id != "id" || code != "123456" {
		t.Fatalf("decode: id=%q code=%q err=%v", id, code, err)
	}

	for _, bad := range [][]byte{nil, {2}, {1, 0}, {1, 0, 5, 'a'}, append(encoded, 0)} {
		if _, _, err := decodeChallenge(bad); !errors.Is(err, errCorruptChallenge) {
			t.Fatalf("decode(%v): expected errCorruptChallenge, got %v", bad, err)
		}
	}
}
