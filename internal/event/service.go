package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/mq"
)

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Record(ctx context.Context, event model.AuditEvent) error
}

// Service is the event service.
type Service struct {
	logger        *slog.Logger
	mqConsumer    mq.Consumer
	auditRecorder AuditRecorder
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	auditRecorder AuditRecorder,
) *Service {
	return &Service{
		logger:        logger.With(slog.String("service", "event")),
		mqConsumer:    mqConsumer,
		auditRecorder: auditRecorder,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(
		TopicAuditRecorded,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev AuditRecordedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal audit recorded event: %w", err)
			}

			if err := s.handleAuditRecordedEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle audit recorded event: %w", err)
			}

			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("register audit recorded event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}
