package digest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/digest"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
)

type fakeItemRepo struct {
	repository.ItemRepository
	items []model.Item
	err   error
}

func (r *fakeItemRepo) ListLowStockItems(context.Context) ([]model.Item, error) {
	return r.items, r.err
}

type fakeDirectory struct {
	emails []string
}

func (d fakeDirectory) FindEmailsByRole(context.Context, model.Role) ([]string, error) {
	return d.emails, nil
}

type fakeGateway struct {
	bodies []string
}

func (g *fakeGateway) Send(_ context.Context, _ []string, _ string, body string) error {
	g.bodies = append(g.bodies, body)
	return nil
}

func TestService_Send(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	cfg := config.Digest{Enabled: true, Schedule: "@daily"}
	low := []model.Item{
		{Name: "Widget", Sku: "WI-EL-2025-00001", Quantity: 2, LowStockThreshold: 10},
		{Name: "Hammer", Sku: "HA-TO-2025-00002", Quantity: 0, LowStockThreshold: 1},
	}

	t.Run("Should mail one summary of low items", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := digest.NewService(cfg, logger, &fakeItemRepo{items: low}, fakeDirectory{emails: []string{"m@example.com"}}, gw, model.RoleManager)

		require.NoError(t, svc.Send(ctx))
		require.Len(t, gw.bodies, 1)
		assert.Contains(t, gw.bodies[0], "2 item(s)")
		assert.Contains(t, gw.bodies[0], "Widget (SKU WI-EL-2025-00001): quantity 2, threshold 10")
	})

	t.Run("Should skip when nothing is low or nobody listens", func(t *testing.T) {
		gw := &fakeGateway{}

		svc := digest.NewService(cfg, logger, &fakeItemRepo{}, fakeDirectory{emails: []string{"m@example.com"}}, gw, model.RoleManager)
		require.NoError(t, svc.Send(ctx))

		svc = digest.NewService(cfg, logger, &fakeItemRepo{items: low}, fakeDirectory{}, gw, model.RoleManager)
		require.NoError(t, svc.Send(ctx))

		assert.Empty(t, gw.bodies)
	})

	t.Run("Should surface storage failure", func(t *testing.T) {
		storeErr := errors.New("db down")
		svc := digest.NewService(cfg, logger, &fakeItemRepo{err: storeErr}, fakeDirectory{}, &fakeGateway{}, model.RoleManager)

		assert.ErrorIs(t, svc.Send(ctx), storeErr)
	})
}

func TestService_Run(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Should reject invalid schedule", func(t *testing.T) {
		svc := digest.NewService(config.Digest{Schedule: "every tuesday"}, logger, &fakeItemRepo{}, fakeDirectory{}, &fakeGateway{}, model.RoleManager)

		_, err := svc.Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("Should start and stop", func(t *testing.T) {
		svc := digest.NewService(config.Digest{Schedule: "0 3 * * *"}, logger, &fakeItemRepo{}, fakeDirectory{}, &fakeGateway{}, model.RoleManager)

		cleanup, err := svc.Run(context.Background())
		require.NoError(t, err)
		cleanup()
	})
}
