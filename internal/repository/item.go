package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type CreateItemParams struct {
	Sku               string
	Name              string
	Description       string
	Quantity          int
	LowStockThreshold int
	Dimensions        model.Dimensions
	CategoryID        int64
	ActorID           int64
}

type UpdateItemParams struct {
	ID                int64
	Name              string
	Description       string
	Quantity          int
	LowStockThreshold int
	Dimensions        model.Dimensions
	CategoryID        int64
	ActorID           int64
}

type ItemRepository interface {
	WithDB(db db.DB) ItemRepository
	FindItemByID(ctx context.Context, id int64) (model.Item, error)
	// ExistsItemByName reports whether an active item other than excludeID
	// has the given name. Pass 0 to check every active item.
	ExistsItemByName(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateItem(ctx context.Context, params CreateItemParams) (int64, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) error
	// ApplyQuantityDelta atomically adds delta to the item quantity and
	// returns the stored result. It never lets the quantity drop below zero.
	ApplyQuantityDelta(ctx context.Context, id int64, delta int, actorID int64) (int, error)
	SoftDeleteItem(ctx context.Context, id int64, actorID int64) error
	ListItems(ctx context.Context, req model.PageRequest) ([]model.Item, int64, error)
	ListLowStockItems(ctx context.Context) ([]model.Item, error)
}

type itemRepository struct {
	db db.DB
}

func NewItemRepository(db db.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r itemRepository) WithDB(db db.DB) ItemRepository {
	return &itemRepository{db: db}
}

const selectItem = `
	SELECT
		i.id,
		i.sku,
		i.name,
		i.description,
		i.quantity,
		i.low_stock_threshold,
		i.weight,
		i.height,
		i.length,
		i.category_id,
		c.name,
		i.created_at,
		i.updated_at,
		i.created_by,
		i.updated_by
	FROM items AS i
	JOIN categories AS c ON c.id = i.category_id
	WHERE i.deleted_at IS NULL`

var itemSortColumns = map[string]string{
	string(model.ItemSortByName):      "i.name",
	string(model.ItemSortByCreatedAt): "i.created_at",
}

func (r itemRepository) FindItemByID(ctx context.Context, id int64) (model.Item, error) {
	row := r.db.QueryRow(ctx, selectItem+` AND i.id = @id`, pgx.NamedArgs{"id": id})

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, ErrNotFound
		}
		return model.Item{}, fmt.Errorf("find item by id: %w", err)
	}

	return item, nil
}

func (r itemRepository) ExistsItemByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM items
			WHERE name = @name AND id <> @exclude_id AND deleted_at IS NULL
		)
	`, pgx.NamedArgs{
		"name":       name,
		"exclude_id": excludeID,
	}).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists item by name: %w", err)
	}

	return exists, nil
}

func (r itemRepository) CreateItem(ctx context.Context, params CreateItemParams) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `
		INSERT INTO items (
			sku, name, description, quantity, low_stock_threshold,
			weight, height, length, category_id, created_by, updated_by
		) VALUES (
			@sku, @name, @description, @quantity, @low_stock_threshold,
			@weight, @height, @length, @category_id, @actor_id, @actor_id
		)
		RETURNING id
	`, pgx.NamedArgs{
		"sku":                 params.Sku,
		"name":                params.Name,
		"description":         params.Description,
		"quantity":            params.Quantity,
		"low_stock_threshold": params.LowStockThreshold,
		"weight":              params.Dimensions.Weight,
		"height":              params.Dimensions.Height,
		"length":              params.Dimensions.Length,
		"category_id":         params.CategoryID,
		"actor_id":            params.ActorID,
	}).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert item: %w", translateConstraintErr(err))
	}

	return id, nil
}

// UpdateItem overwrites the mutable fields of an active item. The sku column
// is never written.
func (r itemRepository) UpdateItem(ctx context.Context, params UpdateItemParams) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE items
		SET
			name                = @name,
			description         = @description,
			quantity            = @quantity,
			low_stock_threshold = @low_stock_threshold,
			weight              = @weight,
			height              = @height,
			length              = @length,
			category_id         = @category_id,
			updated_at          = NOW(),
			updated_by          = @actor_id
		WHERE id = @id AND deleted_at IS NULL
	`, pgx.NamedArgs{
		"id":                  params.ID,
		"name":                params.Name,
		"description":         params.Description,
		"quantity":            params.Quantity,
		"low_stock_threshold": params.LowStockThreshold,
		"weight":              params.Dimensions.Weight,
		"height":              params.Dimensions.Height,
		"length":              params.Dimensions.Length,
		"category_id":         params.CategoryID,
		"actor_id":            params.ActorID,
	})
	if err != nil {
		return fmt.Errorf("update item: %w", translateConstraintErr(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r itemRepository) ApplyQuantityDelta(ctx context.Context, id int64, delta int, actorID int64) (int, error) {
	var quantity int
	err := r.db.QueryRow(ctx, `
		UPDATE items
		SET
			quantity   = quantity + @delta::bigint,
			updated_at = NOW(),
			updated_by = @actor_id
		WHERE id = @id
			AND deleted_at IS NULL
			AND quantity + @delta::bigint BETWEEN 0 AND @max_quantity
		RETURNING quantity
	`, pgx.NamedArgs{
		"id":           id,
		"delta":        delta,
		"max_quantity": model.MaxQuantity,
		"actor_id":     actorID,
	}).Scan(&quantity)
	if err == nil {
		return quantity, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("apply quantity delta: %w", err)
	}

	// No row matched: either the item is gone or the delta lost a race and
	// would leave the allowed range.
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM items WHERE id = @id AND deleted_at IS NULL)
	`, pgx.NamedArgs{"id": id}).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check item exists: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}
	if delta > 0 {
		return 0, ErrQuantityLimitExceeded
	}

	return 0, ErrInsufficientQuantity
}

func (r itemRepository) SoftDeleteItem(ctx context.Context, id int64, actorID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE items
		SET
			deleted_at = NOW(),
			updated_at = NOW(),
			updated_by = @actor_id
		WHERE id = @id AND deleted_at IS NULL
	`, pgx.NamedArgs{
		"id":       id,
		"actor_id": actorID,
	})
	if err != nil {
		return fmt.Errorf("soft delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r itemRepository) ListItems(ctx context.Context, req model.PageRequest) ([]model.Item, int64, error) {
	orderBy, err := orderByClause(req, itemSortColumns, "i.id")
	if err != nil {
		return nil, 0, err
	}

	batch := &pgx.Batch{}
	batch.Queue(`SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`)
	batch.Queue(selectItem+" "+orderBy+` LIMIT @limit OFFSET @offset`, pgx.NamedArgs{
		"limit":  req.Size,
		"offset": req.Offset(),
	})

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Item, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("collect items: %w", err)
	}

	return items, total, nil
}

func (r itemRepository) ListLowStockItems(ctx context.Context) ([]model.Item, error) {
	rows, err := r.db.Query(ctx, selectItem+`
		AND i.quantity < i.low_stock_threshold
		ORDER BY i.quantity ASC, i.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Item, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect low stock items: %w", err)
	}

	return items, nil
}

func scanItem(row pgx.Row) (model.Item, error) {
	var item model.Item
	err := row.Scan(
		&item.ID,
		&item.Sku,
		&item.Name,
		&item.Description,
		&item.Quantity,
		&item.LowStockThreshold,
		&item.Dimensions.Weight,
		&item.Dimensions.Height,
		&item.Dimensions.Length,
		&item.Category.ID,
		&item.Category.Name,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.CreatedBy,
		&item.UpdatedBy,
	)
	return item, err
}
