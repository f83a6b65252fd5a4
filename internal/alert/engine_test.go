package alert_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/warehouse/internal/alert"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type fakeDirectory struct {
	emails []string
	err    error
	calls  int
}

func (d *fakeDirectory) FindEmailsByRole(_ context.Context, _ model.Role) ([]string, error) {
	d.calls++
	return d.emails, d.err
}

type sentMessage struct {
	recipients []string
	subject    string
	body       string
}

type fakeGateway struct {
	sent []sentMessage
	err  error
}

func (g *fakeGateway) Send(_ context.Context, recipients []string, subject, body string) error {
	g.sent = append(g.sent, sentMessage{recipients: recipients, subject: subject, body: body})
	return g.err
}

type fakeStockAlertRepo struct {
	repository.StockAlertRepository
	created []bool
	err     error
}

func (r *fakeStockAlertRepo) WithDB(db.DB) repository.StockAlertRepository { return r }

func (r *fakeStockAlertRepo) CreateStockAlert(_ context.Context, itemID int64, notified bool) (model.StockAlert, error) {
	if r.err != nil {
		return model.StockAlert{}, r.err
	}
	r.created = append(r.created, notified)
	return model.StockAlert{ID: int64(len(r.created)), ItemID: itemID, Notified: notified}, nil
}

func TestEngine_AlertIfLow(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	item := model.Item{ID: 1, Sku: "WI-EL-2025-00001", Name: "Widget", LowStockThreshold: 10}

	type deps struct {
		directory *fakeDirectory
		gateway   *fakeGateway
		repo      *fakeStockAlertRepo
	}

	newDeps := func() deps {
		return deps{
			directory: &fakeDirectory{emails: []string{"manager@example.com"}},
			gateway:   &fakeGateway{},
			repo:      &fakeStockAlertRepo{},
		}
	}
	newEngine := func(d deps) *alert.Engine {
		return alert.NewEngine(logger, d.directory, d.gateway, d.repo, model.RoleManager)
	}

	t.Run("Should do nothing at or above threshold", func(t *testing.T) {
		for _, q := range []int{10, 11, 100} {
			d := newDeps()
			require.NoError(t, newEngine(d).AlertIfLow(ctx, item, q))

			assert.Empty(t, d.gateway.sent)
			assert.Empty(t, d.repo.created)
			assert.Zero(t, d.directory.calls)
		}
	})

	t.Run("Should notify and persist one alert below threshold", func(t *testing.T) {
		d := newDeps()
		require.NoError(t, newEngine(d).AlertIfLow(ctx, item, 5))

		require.Len(t, d.gateway.sent, 1)
		assert.Equal(t, []string{"manager@example.com"}, d.gateway.sent[0].recipients)
		assert.Equal(t, "Low Stock Alert: Widget", d.gateway.sent[0].subject)
		assert.Contains(t, d.gateway.sent[0].body, "Current quantity: 5")
		assert.Contains(t, d.gateway.sent[0].body, "Threshold: 10")
		assert.Equal(t, []bool{true}, d.repo.created)
	})

	t.Run("Should persist unnotified alert when delivery fails", func(t *testing.T) {
		d := newDeps()
		d.gateway.err = errors.New("smtp down")

		require.NoError(t, newEngine(d).AlertIfLow(ctx, item, 0))
		assert.Equal(t, []bool{false}, d.repo.created)
	})

	t.Run("Should persist unnotified alert when recipient lookup fails", func(t *testing.T) {
		d := newDeps()
		d.directory.err = errors.New("db down")

		require.NoError(t, newEngine(d).AlertIfLow(ctx, item, 3))
		assert.Empty(t, d.gateway.sent)
		assert.Equal(t, []bool{false}, d.repo.created)
	})

	t.Run("Should skip sending without recipients", func(t *testing.T) {
		d := newDeps()
		d.directory.emails = nil

		require.NoError(t, newEngine(d).AlertIfLow(ctx, item, 3))
		assert.Empty(t, d.gateway.sent)
		assert.Equal(t, []bool{false}, d.repo.created)
	})

	t.Run("Should propagate storage failure", func(t *testing.T) {
		d := newDeps()
		storeErr := errors.New("insert failed")
		d.repo.err = storeErr

		err := newEngine(d).AlertIfLow(ctx, item, 3)
		assert.ErrorIs(t, err, storeErr)
		assert.Len(t, d.gateway.sent, 1)
	})
}
