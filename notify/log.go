package notify

import (
	"context"
	"log/slog"

	"github.com/MrEthical07/authservice/domain"
)

// Log writes each message as one Info record.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (n *Log) Send(ctx context.Context, recipient domain.Email, subject, body string) error {
	n.logger.InfoContext(ctx, "notification",
		slog.Any("recipient", recipient),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}

var _ domain.Notifier = (*Log)(nil)
