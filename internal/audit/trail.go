// Package audit records who changed what, and when.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
)

var recordFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warehouse_audit_record_failures_total",
	Help: "Number of audit events that could not be persisted.",
})

type Trail struct {
	logger         *slog.Logger
	auditEntryRepo repository.AuditEntryRepository
}

func NewTrail(logger *slog.Logger, auditEntryRepo repository.AuditEntryRepository) *Trail {
	return &Trail{
		logger:         logger.With(slog.String("service", "audit")),
		auditEntryRepo: auditEntryRepo,
	}
}

// Record persists event with its details unchanged. It runs off the request
// path, so failures are logged and counted here.
func (t *Trail) Record(ctx context.Context, event model.AuditEvent) error {
	id, err := t.auditEntryRepo.CreateAuditEntry(ctx, event)
	if err != nil {
		recordFailuresTotal.Inc()
		t.logger.ErrorContext(ctx, "failed to record audit entry",
			slog.Int64("actor_id", event.ActorID),
			slog.String("action", string(event.Action)),
			slog.String("entity_kind", string(event.EntityKind)),
			slog.Int64("entity_id", event.EntityID),
			slog.Any("error", err),
		)
		return fmt.Errorf("audit entry repository create audit entry: %w", err)
	}

	t.logger.DebugContext(ctx, "audit entry recorded", slog.Int64("audit_entry_id", id))
	return nil
}

func (t *Trail) ListEntries(ctx context.Context, req model.PageRequest) (model.Page[model.AuditEntry], error) {
	req = req.Normalize(string(model.AuditSortByCreatedAt))
	if err := model.ValidateSort[model.AuditSortBy](req); err != nil {
		return model.Page[model.AuditEntry]{}, apperr.ValidationErr.WithMsg(err.Error()).WrapParent(err)
	}

	entries, total, err := t.auditEntryRepo.ListAuditEntries(ctx, req)
	if err != nil {
		return model.Page[model.AuditEntry]{}, fmt.Errorf("audit entry repository list audit entries: %w", err)
	}

	return model.NewPage(entries, req, total), nil
}
