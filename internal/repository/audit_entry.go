package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type AuditEntryRepository interface {
	WithDB(db db.DB) AuditEntryRepository
	CreateAuditEntry(ctx context.Context, event model.AuditEvent) (int64, error)
	ListAuditEntries(ctx context.Context, req model.PageRequest) ([]model.AuditEntry, int64, error)
}

type auditEntryRepository struct {
	db db.DB
}

func NewAuditEntryRepository(db db.DB) AuditEntryRepository {
	return &auditEntryRepository{db: db}
}

func (r auditEntryRepository) WithDB(db db.DB) AuditEntryRepository {
	return &auditEntryRepository{db: db}
}

var auditSortColumns = map[string]string{
	string(model.AuditSortByCreatedAt): "created_at",
	string(model.AuditSortByAction):    "action",
}

func (r auditEntryRepository) CreateAuditEntry(ctx context.Context, event model.AuditEvent) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `
		INSERT INTO audit_entries (actor_id, action, entity_kind, entity_id, details)
		VALUES (@actor_id, @action, @entity_kind, @entity_id, @details)
		RETURNING id
	`, pgx.NamedArgs{
		"actor_id":    event.ActorID,
		"action":      string(event.Action),
		"entity_kind": string(event.EntityKind),
		"entity_id":   event.EntityID,
		"details":     event.Details,
	}).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert audit entry: %w", err)
	}

	return id, nil
}

func (r auditEntryRepository) ListAuditEntries(ctx context.Context, req model.PageRequest) ([]model.AuditEntry, int64, error) {
	orderBy, err := orderByClause(req, auditSortColumns, "id")
	if err != nil {
		return nil, 0, err
	}

	batch := &pgx.Batch{}
	batch.Queue(`SELECT COUNT(*) FROM audit_entries`)
	batch.Queue(`
		SELECT id, actor_id, action, entity_kind, entity_id, details, created_at
		FROM audit_entries
		`+orderBy+`
		LIMIT @limit OFFSET @offset
	`, pgx.NamedArgs{
		"limit":  req.Size,
		"offset": req.Offset(),
	})

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.AuditEntry, error) {
		var (
			e          model.AuditEntry
			action     string
			entityKind string
		)
		err := row.Scan(&e.ID, &e.ActorID, &action, &entityKind, &e.EntityID, &e.Details, &e.CreatedAt)
		e.Action = model.AuditAction(action)
		e.EntityKind = model.EntityKind(entityKind)
		return e, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("collect audit entries: %w", err)
	}

	return entries, total, nil
}
