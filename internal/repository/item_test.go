package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
)

func TestItemRepository(t *testing.T) {
	client := newTestDB(t)
	ctx := context.Background()

	categoryRepo := repository.NewCategoryRepository(client)
	itemRepo := repository.NewItemRepository(client)

	categoryID, err := categoryRepo.CreateCategory(ctx, "Electronics", 1)
	require.NoError(t, err)

	createParams := repository.CreateItemParams{
		Sku:               "LA-EL-2025-00001",
		Name:              "Laptop",
		Description:       "14 inch",
		Quantity:          10,
		LowStockThreshold: 5,
		Dimensions: model.Dimensions{
			Weight: decimal.NewNullDecimal(decimal.RequireFromString("1.250")),
		},
		CategoryID: categoryID,
		ActorID:    1,
	}

	id, err := itemRepo.CreateItem(ctx, createParams)
	require.NoError(t, err)

	t.Run("Should find created item with category", func(t *testing.T) {
		item, err := itemRepo.FindItemByID(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, "Laptop", item.Name)
		assert.Equal(t, "Electronics", item.Category.Name)
		assert.True(t, item.Dimensions.Weight.Valid)
		assert.True(t, item.Dimensions.Weight.Decimal.Equal(decimal.RequireFromString("1.25")))
		assert.False(t, item.Dimensions.Height.Valid)
	})

	t.Run("Should reject duplicate sku and active name", func(t *testing.T) {
		dup := createParams
		dup.Name = "Other"
		_, err := itemRepo.CreateItem(ctx, dup)
		assert.ErrorIs(t, err, repository.ErrItemSkuTaken)

		dup = createParams
		dup.Sku = "LA-EL-2025-00002"
		_, err = itemRepo.CreateItem(ctx, dup)
		assert.ErrorIs(t, err, repository.ErrItemNameTaken)
	})

	t.Run("Should never drop below zero under concurrent decreases", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			success atomic.Int32
		)
		for range 15 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := itemRepo.ApplyQuantityDelta(ctx, id, -1, 1); err == nil {
					success.Add(1)
				} else {
					assert.ErrorIs(t, err, repository.ErrInsufficientQuantity)
				}
			}()
		}
		wg.Wait()

		item, err := itemRepo.FindItemByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, item.Quantity)
		assert.Equal(t, int32(10), success.Load())
	})

	t.Run("Should refuse to raise quantity past int4", func(t *testing.T) {
		q, err := itemRepo.ApplyQuantityDelta(ctx, id, model.MaxQuantity, 1)
		require.NoError(t, err)
		assert.Equal(t, model.MaxQuantity, q)

		_, err = itemRepo.ApplyQuantityDelta(ctx, id, 1, 1)
		assert.ErrorIs(t, err, repository.ErrQuantityLimitExceeded)

		q, err = itemRepo.ApplyQuantityDelta(ctx, id, -model.MaxQuantity, 1)
		require.NoError(t, err)
		assert.Zero(t, q)
	})

	t.Run("Should list low stock items", func(t *testing.T) {
		items, err := itemRepo.ListLowStockItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, id, items[0].ID)
	})

	t.Run("Should refuse deleting referenced category", func(t *testing.T) {
		err := categoryRepo.DeleteCategory(ctx, categoryID)
		assert.ErrorIs(t, err, repository.ErrCategoryInUse)
	})

	t.Run("Should hide soft deleted item and free its name", func(t *testing.T) {
		require.NoError(t, itemRepo.SoftDeleteItem(ctx, id, 1))

		_, err := itemRepo.FindItemByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = itemRepo.ApplyQuantityDelta(ctx, id, 1, 1)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		exists, err := itemRepo.ExistsItemByName(ctx, "Laptop", 0)
		require.NoError(t, err)
		assert.False(t, exists)

		items, total, err := itemRepo.ListItems(ctx, model.PageRequest{Size: 10}.Normalize(string(model.ItemSortByName)))
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Zero(t, total)
	})
}
