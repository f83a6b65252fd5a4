package event

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/mq"
)

// AuditPublisher hands audit events to the background recorder. Publishing
// never fails the caller.
type AuditPublisher interface {
	PublishAudit(ctx context.Context, ev model.AuditEvent)
}

var _ AuditPublisher = (*Publisher)(nil)

type Publisher struct {
	logger     *slog.Logger
	mqProducer mq.Producer
}

func NewPublisher(logger *slog.Logger, mqProducer mq.Producer) *Publisher {
	return &Publisher{
		logger:     logger.With(slog.String("service", "event.Publisher")),
		mqProducer: mqProducer,
	}
}

func (p *Publisher) PublishAudit(ctx context.Context, ev model.AuditEvent) {
	payload, err := json.Marshal(newAuditRecordedEvent(ev))
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal audit event", slog.Any("error", err))
		return
	}

	// Drops are already logged and counted by the queue.
	_ = p.mqProducer.Produce(ctx, mq.ProduceMsg{
		Topic:   TopicAuditRecorded,
		Payload: payload,
	})
}
