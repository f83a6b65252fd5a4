package repository

import (
	"errors"

	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientQuantity is returned when a quantity delta would take an
	// item below zero.
	ErrInsufficientQuantity  = errors.New("insufficient quantity")
	// ErrQuantityLimitExceeded is returned when a quantity delta would take an
	// item above model.MaxQuantity.
	ErrQuantityLimitExceeded = errors.New("quantity limit exceeded")

	ErrItemNameTaken     = errors.New("item name taken")
	ErrItemSkuTaken      = errors.New("item sku taken")
	ErrCategoryNameTaken = errors.New("category name taken")
	ErrCategoryInUse     = errors.New("category in use")
	ErrUsernameTaken     = errors.New("username taken")
	ErrEmailTaken        = errors.New("email taken")
)

// constraintErrors maps database constraint names to repository errors.
var constraintErrors = map[string]error{
	"items_sku_key":          ErrItemSkuTaken,
	"items_name_active_key":  ErrItemNameTaken,
	"categories_name_key":    ErrCategoryNameTaken,
	"items_category_id_fkey": ErrCategoryInUse,
	"users_username_key":     ErrUsernameTaken,
	"users_email_key":        ErrEmailTaken,
}

// translateConstraintErr converts a known constraint violation to its
// repository error, joined with the original. Other errors are returned as is.
func translateConstraintErr(err error) error {
	constraint, ok := db.UniqueViolation(err)
	if !ok {
		constraint, ok = db.ForeignKeyViolation(err)
	}
	if !ok {
		return err
	}

	if mapped, found := constraintErrors[constraint]; found {
		return errors.Join(mapped, err)
	}
	return err
}
