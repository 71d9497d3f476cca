package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MrEthical07/authservice/domain"
	"github.com/doyensec/safeurl"
)

const defaultWebhookTimeout = 5 * time.Second

// ErrWebhookRejected is returned when the endpoint answers with a non-2xx
// status.
var ErrWebhookRejected = errors.New("notify: webhook rejected message")

// WebhookOption configures a Webhook.
type WebhookOption func(*Webhook)

// WithHTTPClient replaces the default SSRF-guarded client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = c }
}

// Webhook posts {"text": "..."} to an incoming-webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook validates rawURL and returns a notifier. The default client
// only dials public addresses over https on port 443, so without
// WithHTTPClient rawURL must be https.
func NewWebhook(rawURL string, opts ...WebhookOption) (*Webhook, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("notify: invalid webhook url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" || u.Host == "" {
		return nil, fmt.Errorf("notify: webhook url must be absolute http(s), got %q", u.Redacted())
	}

	w := &Webhook{url: rawURL}
	for _, opt := range opts {
		opt(w)
	}
	if w.client == nil {
		if u.Scheme != "https" {
			return nil, fmt.Errorf("notify: webhook url must be https, got %q", u.Redacted())
		}
		cfg := safeurl.GetConfigBuilder().
			SetTimeout(defaultWebhookTimeout).
			SetAllowedSchemes("https").
			SetAllowedPorts(443).
			Build()
		w.client = safeurl.Client(cfg).Client
	}
	return w, nil
}

type webhookPayload struct {
	Text string `json:"text"`
}

func (w *Webhook) Send(ctx context.Context, recipient domain.Email, subject, body string) error {
	payload, err := json.Marshal(webhookPayload{
		Text: fmt.Sprintf("Email to: %s\nSubject: %s\n\n%s", recipient.Expose(), subject, body),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrWebhookRejected, resp.StatusCode)
	}
	return nil
}

var _ domain.Notifier = (*Webhook)(nil)
