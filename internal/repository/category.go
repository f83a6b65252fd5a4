package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type CategoryRepository interface {
	WithDB(db db.DB) CategoryRepository
	FindCategoryByID(ctx context.Context, id int64) (model.Category, error)
	// ExistsCategoryByName reports whether a category other than excludeID has
	// the given name. Pass 0 to check every category.
	ExistsCategoryByName(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateCategory(ctx context.Context, name string, actorID int64) (int64, error)
	UpdateCategory(ctx context.Context, id int64, name string, actorID int64) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, req model.PageRequest) ([]model.Category, int64, error)
}

type categoryRepository struct {
	db db.DB
}

func NewCategoryRepository(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r categoryRepository) WithDB(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const selectCategory = `
	SELECT id, name, created_at, updated_at, created_by, updated_by
	FROM categories`

var categorySortColumns = map[string]string{
	string(model.CategorySortByName):      "name",
	string(model.CategorySortByCreatedAt): "created_at",
}

func (r categoryRepository) FindCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	row := r.db.QueryRow(ctx, selectCategory+` WHERE id = @id`, pgx.NamedArgs{"id": id})

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("find category by id: %w", err)
	}

	return category, nil
}

func (r categoryRepository) ExistsCategoryByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM categories WHERE name = @name AND id <> @exclude_id)
	`, pgx.NamedArgs{
		"name":       name,
		"exclude_id": excludeID,
	}).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists category by name: %w", err)
	}

	return exists, nil
}

func (r categoryRepository) CreateCategory(ctx context.Context, name string, actorID int64) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, created_by, updated_by)
		VALUES (@name, @actor_id, @actor_id)
		RETURNING id
	`, pgx.NamedArgs{
		"name":     name,
		"actor_id": actorID,
	}).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert category: %w", translateConstraintErr(err))
	}

	return id, nil
}

func (r categoryRepository) UpdateCategory(ctx context.Context, id int64, name string, actorID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET
			name       = @name,
			updated_at = NOW(),
			updated_by = @actor_id
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":       id,
		"name":     name,
		"actor_id": actorID,
	})
	if err != nil {
		return fmt.Errorf("update category: %w", translateConstraintErr(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteCategory removes a category. Categories still referenced by an item
// row, including soft deleted ones, cannot be removed.
func (r categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", translateConstraintErr(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r categoryRepository) ListCategories(ctx context.Context, req model.PageRequest) ([]model.Category, int64, error) {
	orderBy, err := orderByClause(req, categorySortColumns, "id")
	if err != nil {
		return nil, 0, err
	}

	batch := &pgx.Batch{}
	batch.Queue(`SELECT COUNT(*) FROM categories`)
	batch.Queue(selectCategory+" "+orderBy+` LIMIT @limit OFFSET @offset`, pgx.NamedArgs{
		"limit":  req.Size,
		"offset": req.Offset(),
	})

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("collect categories: %w", err)
	}

	return categories, total, nil
}

func scanCategory(row pgx.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy)
	return c, err
}
