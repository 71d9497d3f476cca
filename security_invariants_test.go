package authservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/authservice/jwt"
)

func TestSecurityInvariantRevokedTokenRejectedBeforeExpiry(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()
	mustSignup(t, e, "a@x.com", "password123", false)

	res, err := e.Login(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if time.Until(res.Token.ExpiresAt) <= 0 {
		t.Fatal("token should not be expired yet")
	}
	if err := e.Logout(ctx, res.Token.Value); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := e.VerifyToken(ctx, res.Token.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if got := e.MetricsSnapshot().Counters[MetricTokenRevoked]; got != 1 {
		t.Fatalf("expected revoked counter 1, got %d", got)
	}
}

func TestSecurityInvariantForeignSecretRejected(t *testing.T) {
	e := newTestEngine(t, nil)

	other, err := jwt.NewManager(jwt.Config{Secret: []byte(strings.Repeat("z", 32)), TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	tok, err := other.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := e.VerifyToken(context.Background(), tok.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSecurityInvariantLogsNeverCarrySecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := newTestEngine(t, func(b *Builder) { b.WithLogger(logger) })
	ctx := context.Background()

	mustSignup(t, e, "secret.user@x.com", "hunter2hunter2", true)
	_, _ = e.Login(ctx, "secret.user@x.com", "wrong-password")
	res, err := e.Login(ctx, "secret.user@x.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, _ = e.Verify2FA(ctx, "secret.user@x.com", res.LoginAttemptID, "000000")

	out := buf.String()
	for _, secret := range []string{"secret.user@x.com", "hunter2hunter2"} {
		if strings.Contains(out, secret) {
			t.Fatalf("log output leaked %q:\n%s", secret, out)
		}
	}
}

func TestSecurityInvariantUnexpectedHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	err := unexpected(cause)

	if !errors.Is(err, ErrUnexpected) || !errors.Is(err, cause) {
		t.Fatal("unexpected error must match both sentinel and cause")
	}
	if strings.Contains(fmt.Sprint(err), "10.0.0.5") {
		t.Fatalf("message leaked cause: %v", err)
	}
}
