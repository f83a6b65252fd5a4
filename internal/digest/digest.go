// Package digest mails a periodic summary of items running low on stock.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tuanvumaihuynh/warehouse/internal/alert"
	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/notify"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
)

const subject = "Low Stock Digest"

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Service struct {
	cfg           config.Digest
	logger        *slog.Logger
	itemRepo      repository.ItemRepository
	recipients    alert.RecipientDirectory
	gateway       notify.Gateway
	recipientRole model.Role
}

func NewService(
	cfg config.Digest,
	logger *slog.Logger,
	itemRepo repository.ItemRepository,
	recipients alert.RecipientDirectory,
	gateway notify.Gateway,
	recipientRole model.Role,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "digest")),
		itemRepo:      itemRepo,
		recipients:    recipients,
		gateway:       gateway,
		recipientRole: recipientRole,
	}
}

type CleanupFunc func()

// Run schedules the digest. The returned cleanup waits for a running digest
// to finish.
func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	sched := cron.New(cron.WithParser(cronParser), cron.WithLocation(time.Local))

	if _, err := sched.AddFunc(s.cfg.Schedule, func() {
		if err := s.Send(ctx); err != nil {
			s.logger.ErrorContext(ctx, "failed to send low stock digest", slog.Any("error", err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule digest %q: %w", s.cfg.Schedule, err)
	}

	sched.Start()
	s.logger.InfoContext(ctx, "low stock digest scheduled", slog.String("schedule", s.cfg.Schedule))

	return func() {
		<-sched.Stop().Done()
	}, nil
}

// Send mails the current low stock items to the recipient role. Nothing is
// sent when no item is low or nobody holds the role.
func (s *Service) Send(ctx context.Context) error {
	items, err := s.itemRepo.ListLowStockItems(ctx)
	if err != nil {
		return fmt.Errorf("item repository list low stock items: %w", err)
	}
	if len(items) == 0 {
		s.logger.DebugContext(ctx, "no low stock items")
		return nil
	}

	recipients, err := s.recipients.FindEmailsByRole(ctx, s.recipientRole)
	if err != nil {
		return fmt.Errorf("find emails by role: %w", err)
	}
	if len(recipients) == 0 {
		s.logger.WarnContext(ctx, "no digest recipients", slog.String("role", string(s.recipientRole)))
		return nil
	}

	if err := s.gateway.Send(ctx, recipients, subject, Body(items)); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	s.logger.InfoContext(ctx, "low stock digest sent", slog.Int("items", len(items)))
	return nil
}

func Body(items []model.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d item(s) are below their low stock threshold:\n\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (SKU %s): quantity %d, threshold %d\n",
			item.Name, item.Sku, item.Quantity, item.LowStockThreshold)
	}
	return b.String()
}
