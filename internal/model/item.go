package model

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity or threshold the store can hold.
const MaxQuantity = math.MaxInt32

// Item is a stock-keeping product stored in the warehouse.
type Item struct {
	ID                int64
	Sku               string
	Name              string
	Description       string
	Quantity          int
	LowStockThreshold int
	Dimensions        Dimensions
	Category          CategoryRef
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CreatedBy         int64
	UpdatedBy         int64
}

// IsLowStock reports whether quantity is strictly below the item's threshold.
func (i Item) IsLowStock(quantity int) bool {
	return quantity < i.LowStockThreshold
}

// Dimensions are optional physical measurements of an item.
type Dimensions struct {
	Weight decimal.NullDecimal
	Height decimal.NullDecimal
	Length decimal.NullDecimal
}

// CategoryRef is the category an item belongs to.
type CategoryRef struct {
	ID   int64
	Name string
}

// QuantityOperation is the direction of a quantity adjustment.
type QuantityOperation string

const (
	QuantityOperationIncrease QuantityOperation = "INCREASE"
	QuantityOperationDecrease QuantityOperation = "DECREASE"
)

func (o QuantityOperation) Validate() error {
	switch o {
	case QuantityOperationIncrease, QuantityOperationDecrease:
		return nil
	default:
		return fmt.Errorf("invalid quantity operation: %q", string(o))
	}
}

// Delta returns the signed quantity change for amount.
func (o QuantityOperation) Delta(amount int) int {
	if o == QuantityOperationDecrease {
		return -amount
	}
	return amount
}

// ItemSortBy lists the columns items can be sorted by.
type ItemSortBy string

const (
	ItemSortByName      ItemSortBy = "name"
	ItemSortByCreatedAt ItemSortBy = "created_at"
)

func (s ItemSortBy) Validate() error {
	switch s {
	case ItemSortByName, ItemSortByCreatedAt:
		return nil
	default:
		return fmt.Errorf("invalid item sort field: %q", string(s))
	}
}
