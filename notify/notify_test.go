package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrEthical07/authservice/domain"
)

func mustEmail(t *testing.T, raw string) domain.Email {
	t.Helper()
	e, err := domain.ParseEmail(raw)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	return e
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(slog.New(slog.NewJSONHandler(&buf, nil)))

	if err := n.Send(context.Background(), mustEmail(t, "alice@example.com"), "Your 2FA Code", "123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"body":"123456"`) || !strings.Contains(out, `"subject":"Your 2FA Code"`) {
		t.Fatalf("unexpected log output %s", out)
	}
	if strings.Contains(out, "alice@example.com") {
		t.Fatalf("recipient must be redacted: %s", out)
	}
}

func TestWebhookPostsSlackPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := NewWebhook(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}
	if err := n.Send(context.Background(), mustEmail(t, "alice@example.com"), "Your 2FA Code", "654321"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := "Email to: alice@example.com\nSubject: Your 2FA Code\n\n654321"
	if got.Text != want {
		t.Fatalf("payload text = %q, want %q", got.Text, want)
	}
}

func TestWebhookRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	n, err := NewWebhook(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}
	err = n.Send(context.Background(), mustEmail(t, "alice@example.com"), "s", "b")
	if !errors.Is(err, ErrWebhookRejected) {
		t.Fatalf("expected ErrWebhookRejected, got %v", err)
	}
}

func TestWebhookDefaultClientBlocksLoopback(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("loopback request must not reach the server")
	}))
	defer srv.Close()

	n, err := NewWebhook(srv.URL)
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}
	if err := n.Send(context.Background(), mustEmail(t, "alice@example.com"), "s", "b"); err == nil {
		t.Fatal("expected default client to refuse a loopback target")
	}
}

func TestNewWebhookValidatesURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com/hook", "/relative"} {
		if _, err := NewWebhook(raw); err == nil {
			t.Fatalf("NewWebhook(%q) expected error", raw)
		}
	}
}

func TestNewWebhookRequiresHTTPSWithDefaultClient(t *testing.T) {
	if _, err := NewWebhook("http://hooks.example.com/x"); err == nil {
		t.Fatal("expected plain http to be rejected for the default client")
	}
	if _, err := NewWebhook("https://hooks.example.com/x"); err != nil {
		t.Fatalf("https url: %v", err)
	}
	if _, err := NewWebhook("http://hooks.example.com/x", WithHTTPClient(http.DefaultClient)); err != nil {
		t.Fatalf("http url with a custom client: %v", err)
	}
}
