package mail

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/logging"
)

// LogSender logs mail instead of delivering it. Used when no SMTP relay is configured.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.log.Info(ctx, "mail not sent, no smtp relay configured", "to", to, "subject", subject, "body", htmlBody)
	return nil
}
