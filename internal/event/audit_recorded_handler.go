package event

import (
	"context"
	"log/slog"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

const TopicAuditRecorded = "audit.recorded"

type AuditRecordedEvent struct {
	ActorID    int64  `json:"actor_id"`
	Action     string `json:"action"`
	EntityKind string `json:"entity_kind"`
	EntityID   int64  `json:"entity_id"`
	Details    string `json:"details"`
}

func newAuditRecordedEvent(ev model.AuditEvent) AuditRecordedEvent {
	return AuditRecordedEvent{
		ActorID:    ev.ActorID,
		Action:     string(ev.Action),
		EntityKind: string(ev.EntityKind),
		EntityID:   ev.EntityID,
		Details:    ev.Details,
	}
}

func (e AuditRecordedEvent) toModel() model.AuditEvent {
	return model.AuditEvent{
		ActorID:    e.ActorID,
		Action:     model.AuditAction(e.Action),
		EntityKind: model.EntityKind(e.EntityKind),
		EntityID:   e.EntityID,
		Details:    e.Details,
	}
}

func (s *Service) handleAuditRecordedEvent(ctx context.Context, ev AuditRecordedEvent) error {
	s.logger.DebugContext(ctx, "handling audit recorded event",
		slog.String("action", ev.Action),
		slog.String("entity_kind", ev.EntityKind),
		slog.Int64("entity_id", ev.EntityID),
	)
	return s.auditRecorder.Record(ctx, ev.toModel())
}
