package model

import (
	"fmt"
	"time"
)

// Category groups items, e.g. "Electronics".
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy int64
	UpdatedBy int64
}

func (c Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name}
}

type CategorySortBy string

const (
	CategorySortByName      CategorySortBy = "name"
	CategorySortByCreatedAt CategorySortBy = "created_at"
)

func (s CategorySortBy) Validate() error {
	switch s {
	case CategorySortByName, CategorySortByCreatedAt:
		return nil
	default:
		return fmt.Errorf("invalid category sort field: %q", string(s))
	}
}
