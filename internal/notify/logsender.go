package notify

import (
	"context"
	"log/slog"
)

// LogSender records messages instead of delivering them. Used in development
// when no email provider credential is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	attachment := ""
	if msg.Attachment != nil {
		attachment = msg.Attachment.Filename
	}
	s.logger.Info("email suppressed, no provider configured",
		"to", msg.To.Email,
		"subject", msg.Subject,
		"attachment", attachment,
	)
	return nil
}
