// Package notify delivers 2FA codes to users.
//
// [Log] writes messages to a slog.Logger and is meant for development: the
// body, which carries the code, is logged verbatim. [Webhook] posts a
// Slack-compatible JSON payload to an incoming-webhook URL.
package notify
