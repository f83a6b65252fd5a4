package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/service"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Username  string       `json:"username"`
	Roles     []model.Role `json:"roles"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=20"`
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=6,max=40"`
	// Roles are checked by the auth service so unknown values report
	// INVALID_ROLE.
	Roles []model.Role `json:"roles"`
}

type ItemRequest struct {
	Name              string              `json:"name" validate:"required,notblank,min=2,max=100"`
	Description       string              `json:"description" validate:"max=500"`
	Quantity          *int                `json:"quantity" validate:"required,max=2147483647"`
	LowStockThreshold *int                `json:"low_stock_threshold" validate:"required,max=2147483647"`
	Weight            decimal.NullDecimal `json:"weight"`
	Height            decimal.NullDecimal `json:"height"`
	Length            decimal.NullDecimal `json:"length"`
	CategoryID        int64               `json:"category_id" validate:"required,gt=0"`
}

func (r ItemRequest) dimensions() (model.Dimensions, error) {
	for name, d := range map[string]decimal.NullDecimal{
		"weight": r.Weight,
		"height": r.Height,
		"length": r.Length,
	} {
		if d.Valid && !d.Decimal.IsPositive() {
			return model.Dimensions{}, apperr.ValidationErr.WithMsg(name + " must be positive")
		}
	}

	return model.Dimensions{
		Weight: r.Weight,
		Height: r.Height,
		Length: r.Length,
	}, nil
}

func (r ItemRequest) toCreateParams() (service.CreateItemParams, error) {
	dims, err := r.dimensions()
	if err != nil {
		return service.CreateItemParams{}, err
	}

	return service.CreateItemParams{
		Name:              r.Name,
		Description:       r.Description,
		Quantity:          *r.Quantity,
		LowStockThreshold: *r.LowStockThreshold,
		Dimensions:        dims,
		CategoryID:        r.CategoryID,
	}, nil
}

func (r ItemRequest) toUpdateParams() (service.UpdateItemParams, error) {
	dims, err := r.dimensions()
	if err != nil {
		return service.UpdateItemParams{}, err
	}

	return service.UpdateItemParams{
		Name:              r.Name,
		Description:       r.Description,
		Quantity:          *r.Quantity,
		LowStockThreshold: *r.LowStockThreshold,
		Dimensions:        dims,
		CategoryID:        r.CategoryID,
	}, nil
}

type AdjustQuantityRequest struct {
	Operation model.QuantityOperation `json:"operation" validate:"required,enum"`
	// The lower bound of Amount is checked by the inventory service.
	Amount *int `json:"amount" validate:"required,max=2147483647"`
}

type QuantityResponse struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,min=2,max=50"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type CategoryRefResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemResponse struct {
	ID                int64               `json:"id"`
	Sku               string              `json:"sku"`
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	Quantity          int                 `json:"quantity"`
	LowStockThreshold int                 `json:"low_stock_threshold"`
	Weight            decimal.NullDecimal `json:"weight"`
	Height            decimal.NullDecimal `json:"height"`
	Length            decimal.NullDecimal `json:"length"`
	Category          CategoryRefResponse `json:"category"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	CreatedBy         int64               `json:"created_by"`
	UpdatedBy         int64               `json:"updated_by"`
}

func toItemResponse(i model.Item) ItemResponse {
	return ItemResponse{
		ID:                i.ID,
		Sku:               i.Sku,
		Name:              i.Name,
		Description:       i.Description,
		Quantity:          i.Quantity,
		LowStockThreshold: i.LowStockThreshold,
		Weight:            i.Dimensions.Weight,
		Height:            i.Dimensions.Height,
		Length:            i.Dimensions.Length,
		Category: CategoryRefResponse{
			ID:   i.Category.ID,
			Name: i.Category.Name,
		},
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
		CreatedBy: i.CreatedBy,
		UpdatedBy: i.UpdatedBy,
	}
}

type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy int64     `json:"created_by"`
	UpdatedBy int64     `json:"updated_by"`
}

func toCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		CreatedBy: c.CreatedBy,
		UpdatedBy: c.UpdatedBy,
	}
}

type StockAlertResponse struct {
	ID          int64     `json:"id"`
	ItemID      int64     `json:"item_id"`
	Notified    bool      `json:"notified"`
	TriggeredAt time.Time `json:"triggered_at"`
}

func toStockAlertResponse(a model.StockAlert) StockAlertResponse {
	return StockAlertResponse{
		ID:          a.ID,
		ItemID:      a.ItemID,
		Notified:    a.Notified,
		TriggeredAt: a.TriggeredAt,
	}
}

type AuditEntryResponse struct {
	ID         int64             `json:"id"`
	ActorID    int64             `json:"actor_id"`
	Action     model.AuditAction `json:"action"`
	EntityKind model.EntityKind  `json:"entity_kind"`
	EntityID   int64             `json:"entity_id"`
	Details    string            `json:"details"`
	CreatedAt  time.Time         `json:"created_at"`
}

func toAuditEntryResponse(e model.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt,
	}
}

type PageResponse[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	PageSize    int   `json:"page_size"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

func toPageResponse[T, U any](p model.Page[T], fn func(T) U) PageResponse[U] {
	mapped := model.MapPage(p, fn)
	return PageResponse[U]{
		Data:        mapped.Data,
		CurrentPage: mapped.CurrentPage,
		TotalPages:  mapped.TotalPages,
		TotalItems:  mapped.TotalItems,
		PageSize:    mapped.PageSize,
		HasNext:     mapped.HasNext,
		HasPrevious: mapped.HasPrevious,
	}
}

type HealthResponse struct {
	Status string `json:"status"`
}
