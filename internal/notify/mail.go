package notify

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/tuanvumaihuynh/warehouse/internal/config"
)

// Dialer sends mail messages. It is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var _ Gateway = (*MailGateway)(nil)

// MailGateway sends notifications over SMTP. Recipients are put in Bcc so
// they do not see each other.
type MailGateway struct {
	logger   *slog.Logger
	dialer   Dialer
	from     string
	fromName string
}

func NewMailGateway(logger *slog.Logger, cfg config.Mail) *MailGateway {
	return NewMailGatewayWithDialer(
		logger,
		gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg.From,
		cfg.FromName,
	)
}

func NewMailGatewayWithDialer(logger *slog.Logger, dialer Dialer, from, fromName string) *MailGateway {
	return &MailGateway{
		logger:   logger.With("service", "notify.MailGateway"),
		dialer:   dialer,
		from:     from,
		fromName: fromName,
	}
}

func (g *MailGateway) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", g.from, g.fromName)
	m.SetHeader("Bcc", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := g.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("dial and send: %w", err)
	}

	g.logger.DebugContext(ctx, "mail sent",
		slog.String("subject", subject),
		slog.Int("recipients", len(recipients)),
	)

	return nil
}
