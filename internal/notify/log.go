package notify

import (
	"context"
	"log/slog"
)

var _ Gateway = (*LogGateway)(nil)

// LogGateway writes notifications to the log. It is used when SMTP is not
// configured.
type LogGateway struct {
	logger *slog.Logger
}

func NewLogGateway(logger *slog.Logger) *LogGateway {
	return &LogGateway{logger: logger.With("service", "notify.LogGateway")}
}

func (g *LogGateway) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	g.logger.InfoContext(ctx, "notification",
		slog.Any("recipients", recipients),
		slog.String("subject", subject),
		slog.String("body", body),
	)

	return nil
}
