package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/audit"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type fakeAuditEntryRepo struct {
	repository.AuditEntryRepository
	created []model.AuditEvent
	listReq model.PageRequest
	err     error
}

func (r *fakeAuditEntryRepo) WithDB(db.DB) repository.AuditEntryRepository { return r }

func (r *fakeAuditEntryRepo) CreateAuditEntry(_ context.Context, ev model.AuditEvent) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.created = append(r.created, ev)
	return int64(len(r.created)), nil
}

func (r *fakeAuditEntryRepo) ListAuditEntries(_ context.Context, req model.PageRequest) ([]model.AuditEntry, int64, error) {
	r.listReq = req
	return []model.AuditEntry{{ID: 1}}, 21, r.err
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, time.June, 1, 12, 30, 0, 0, time.UTC)

	t.Run("Should render create details", func(t *testing.T) {
		ev := audit.NewEvent(7, model.AuditActionCreate, model.EntityKindItem, 3, at)

		assert.Equal(t, "User 7 created a ITEM with ID 3 at 2025-06-01T12:30:00Z", ev.Details)
		assert.Equal(t, model.AuditActionCreate, ev.Action)
	})

	t.Run("Should render delete of category", func(t *testing.T) {
		ev := audit.NewEvent(1, model.AuditActionDelete, model.EntityKindCategory, 9, at)

		assert.Equal(t, "User 1 deleted a CATEGORY with ID 9 at 2025-06-01T12:30:00Z", ev.Details)
	})

	t.Run("Should render resulting quantity", func(t *testing.T) {
		ev := audit.NewQuantityEvent(7, 1, model.QuantityOperationDecrease, 5, at)

		assert.Equal(t, "User 7 decreased quantity of item with ID 1 to 5 at 2025-06-01T12:30:00Z", ev.Details)
		assert.Equal(t, model.AuditActionUpdate, ev.Action)
		assert.Equal(t, model.EntityKindItem, ev.EntityKind)
	})
}

func TestTrail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("Should persist details unchanged", func(t *testing.T) {
		repo := &fakeAuditEntryRepo{}
		ev := model.AuditEvent{ActorID: 1, Action: model.AuditActionUpdate, Details: "custom details"}

		require.NoError(t, audit.NewTrail(logger, repo).Record(ctx, ev))
		assert.Equal(t, []model.AuditEvent{ev}, repo.created)
	})

	t.Run("Should return storage failure for logging", func(t *testing.T) {
		storeErr := errors.New("db down")
		err := audit.NewTrail(logger, &fakeAuditEntryRepo{err: storeErr}).Record(ctx, model.AuditEvent{})

		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("Should page entries with defaults", func(t *testing.T) {
		repo := &fakeAuditEntryRepo{}

		page, err := audit.NewTrail(logger, repo).ListEntries(ctx, model.PageRequest{Page: 1, Size: 10})
		require.NoError(t, err)

		assert.Equal(t, string(model.AuditSortByCreatedAt), repo.listReq.SortBy)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasNext)
		assert.True(t, page.HasPrevious)
	})
}

func TestTrail_ListEntriesValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := audit.NewTrail(logger, &fakeAuditEntryRepo{}).ListEntries(context.Background(), model.PageRequest{SortBy: "details"})
	assert.ErrorIs(t, err, apperr.ValidationErr)
}
