package notify

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the logger instead of delivering them. It
// is meant for local development only since the code ends up in the logs.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (l *LogSender) Driver() string { return DriverLog }

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "email captured", "to", msg.To, "subject", msg.Subject, "tag", msg.Tag, "body", msg.TextBody)
	return nil
}
