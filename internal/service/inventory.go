package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/audit"
	"github.com/tuanvumaihuynh/warehouse/internal/event"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type CreateItemParams struct {
	Name              string
	Description       string
	Quantity          int
	LowStockThreshold int
	Dimensions        model.Dimensions
	CategoryID        int64
}

type UpdateItemParams struct {
	Name              string
	Description       string
	Quantity          int
	LowStockThreshold int
	Dimensions        model.Dimensions
	CategoryID        int64
}

type InventoryService interface {
	CreateItem(ctx context.Context, params CreateItemParams, actorID int64) (int64, error)
	UpdateItem(ctx context.Context, id int64, params UpdateItemParams, actorID int64) error
	DeleteItem(ctx context.Context, id int64, actorID int64) error
	GetItem(ctx context.Context, id int64) (model.Item, error)
	ListItems(ctx context.Context, req model.PageRequest) (model.Page[model.Item], error)
	// AdjustQuantity applies an increase or decrease of amount and returns the
	// stored quantity.
	AdjustQuantity(ctx context.Context, id int64, op model.QuantityOperation, amount int, actorID int64) (int, error)
	ListItemAlerts(ctx context.Context, id int64) ([]model.StockAlert, error)
}

type inventoryService struct {
	logger         *slog.Logger
	db             db.DB
	itemRepo       repository.ItemRepository
	categoryRepo   repository.CategoryRepository
	stockAlertRepo repository.StockAlertRepository
	skuGenerator   SkuGenerator
	stockAlerter   StockAlerter
	auditPublisher event.AuditPublisher
	now            func() time.Time
}

func NewInventoryService(
	logger *slog.Logger,
	db db.DB,
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	stockAlertRepo repository.StockAlertRepository,
	skuGenerator SkuGenerator,
	stockAlerter StockAlerter,
	auditPublisher event.AuditPublisher,
) InventoryService {
	return &inventoryService{
		logger:         logger.With(slog.String("service", "inventory")),
		db:             db,
		itemRepo:       itemRepo,
		categoryRepo:   categoryRepo,
		stockAlertRepo: stockAlertRepo,
		skuGenerator:   skuGenerator,
		stockAlerter:   stockAlerter,
		auditPublisher: auditPublisher,
		now:            time.Now,
	}
}

func (s *inventoryService) CreateItem(ctx context.Context, params CreateItemParams, actorID int64) (int64, error) {
	if err := validateStockLevels(params.Quantity, params.LowStockThreshold); err != nil {
		return 0, err
	}

	exists, err := s.itemRepo.ExistsItemByName(ctx, params.Name, 0)
	if err != nil {
		return 0, fmt.Errorf("item repository exists item by name: %w", err)
	}
	if exists {
		return 0, apperr.ItemNameConflictErr
	}

	category, err := s.resolveCategory(ctx, params.CategoryID)
	if err != nil {
		return 0, err
	}

	sku := s.skuGenerator.Generate(params.Name, category.Name)

	var id int64
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		id, err = s.itemRepo.
			WithDB(db).
			CreateItem(ctx, repository.CreateItemParams{
				Sku:               sku,
				Name:              params.Name,
				Description:       params.Description,
				Quantity:          params.Quantity,
				LowStockThreshold: params.LowStockThreshold,
				Dimensions:        params.Dimensions,
				CategoryID:        category.ID,
				ActorID:           actorID,
			})
		if err != nil {
			return fmt.Errorf("item repository create item: %w", err)
		}
		return nil
	}); err != nil {
		if appErr := itemWriteErr(err); appErr != nil {
			return 0, appErr
		}
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "item created", slog.Int64("item_id", id), slog.String("sku", sku))
	s.auditPublisher.PublishAudit(ctx, audit.NewEvent(actorID, model.AuditActionCreate, model.EntityKindItem, id, s.now()))

	return id, nil
}

// UpdateItem overwrites every mutable field of an item. The SKU is kept.
func (s *inventoryService) UpdateItem(ctx context.Context, id int64, params UpdateItemParams, actorID int64) error {
	if err := validateStockLevels(params.Quantity, params.LowStockThreshold); err != nil {
		return err
	}

	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}

	category, err := s.resolveCategory(ctx, params.CategoryID)
	if err != nil {
		return err
	}

	exists, err := s.itemRepo.ExistsItemByName(ctx, params.Name, id)
	if err != nil {
		return fmt.Errorf("item repository exists item by name: %w", err)
	}
	if exists {
		return apperr.ItemNameConflictErr
	}

	if err := s.itemRepo.UpdateItem(ctx, repository.UpdateItemParams{
		ID:                id,
		Name:              params.Name,
		Description:       params.Description,
		Quantity:          params.Quantity,
		LowStockThreshold: params.LowStockThreshold,
		Dimensions:        params.Dimensions,
		CategoryID:        category.ID,
		ActorID:           actorID,
	}); err != nil {
		if appErr := itemWriteErr(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("item repository update item: %w", err)
	}

	s.auditPublisher.PublishAudit(ctx, audit.NewEvent(actorID, model.AuditActionUpdate, model.EntityKindItem, id, s.now()))

	return nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id int64, actorID int64) error {
	if err := s.itemRepo.SoftDeleteItem(ctx, id, actorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ItemNotFoundErr
		}
		return fmt.Errorf("item repository soft delete item: %w", err)
	}

	s.logger.InfoContext(ctx, "item deleted", slog.Int64("item_id", id))
	s.auditPublisher.PublishAudit(ctx, audit.NewEvent(actorID, model.AuditActionDelete, model.EntityKindItem, id, s.now()))

	return nil
}

func (s *inventoryService) GetItem(ctx context.Context, id int64) (model.Item, error) {
	item, err := s.itemRepo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Item{}, apperr.ItemNotFoundErr
		}
		return model.Item{}, fmt.Errorf("item repository find item by id: %w", err)
	}

	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, req model.PageRequest) (model.Page[model.Item], error) {
	req = req.Normalize(string(model.ItemSortByName))
	if err := model.ValidateSort[model.ItemSortBy](req); err != nil {
		return model.Page[model.Item]{}, validationErr(err)
	}

	items, total, err := s.itemRepo.ListItems(ctx, req)
	if err != nil {
		return model.Page[model.Item]{}, fmt.Errorf("item repository list items: %w", err)
	}

	return model.NewPage(items, req, total), nil
}

func (s *inventoryService) AdjustQuantity(
	ctx context.Context,
	id int64,
	op model.QuantityOperation,
	amount int,
	actorID int64,
) (int, error) {
	ctx, span := tracer.Start(ctx, "InventoryService.AdjustQuantity",
		trace.WithAttributes(
			attribute.Int64("item.id", id),
			attribute.String("quantity.operation", string(op)),
			attribute.Int("quantity.amount", amount),
		),
	)
	defer span.End()

	if err := op.Validate(); err != nil {
		return 0, validationErr(err)
	}
	if amount < 1 {
		return 0, apperr.InvalidQuantityErr
	}
	if amount > model.MaxQuantity {
		return 0, apperr.InvalidQuantityErr.WithMsg(fmt.Sprintf("quantity amount must be at most %d", model.MaxQuantity))
	}

	item, err := s.GetItem(ctx, id)
	if err != nil {
		return 0, err
	}

	// Both operands are within [-MaxQuantity, MaxQuantity], so the sum cannot
	// overflow int.
	delta := op.Delta(amount)
	switch next := item.Quantity + delta; {
	case next < 0:
		return 0, apperr.QuantityBelowZeroErr
	case next > model.MaxQuantity:
		return 0, apperr.QuantityAboveMaxErr
	}

	// The store re-checks the bound, so a concurrent decrease cannot take the
	// quantity below zero after the check above.
	newQuantity, err := s.itemRepo.ApplyQuantityDelta(ctx, id, delta, actorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return 0, apperr.ItemNotFoundErr
		case errors.Is(err, repository.ErrInsufficientQuantity):
			return 0, apperr.QuantityBelowZeroErr
		case errors.Is(err, repository.ErrQuantityLimitExceeded):
			return 0, apperr.QuantityAboveMaxErr
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply quantity delta failed")
		return 0, fmt.Errorf("item repository apply quantity delta: %w", err)
	}
	item.Quantity = newQuantity
	span.SetAttributes(attribute.Int("quantity.new", newQuantity))

	if err := s.stockAlerter.AlertIfLow(ctx, item, newQuantity); err != nil {
		s.logger.ErrorContext(ctx, "failed to raise stock alert",
			slog.Int64("item_id", id),
			slog.Any("error", err),
		)
	}

	s.auditPublisher.PublishAudit(ctx, audit.NewQuantityEvent(actorID, id, op, newQuantity, s.now()))

	return newQuantity, nil
}

func (s *inventoryService) ListItemAlerts(ctx context.Context, id int64) ([]model.StockAlert, error) {
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	alerts, err := s.stockAlertRepo.ListStockAlertsByItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("stock alert repository list stock alerts by item: %w", err)
	}

	return alerts, nil
}

func (s *inventoryService) resolveCategory(ctx context.Context, id int64) (model.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Category{}, apperr.CategoryNotFoundErr
		}
		return model.Category{}, fmt.Errorf("category repository find category by id: %w", err)
	}

	return category, nil
}

// itemWriteErr maps repository errors of an item insert or update to
// application errors. It returns nil for anything else.
func itemWriteErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.ItemNotFoundErr
	case errors.Is(err, repository.ErrItemSkuTaken):
		return apperr.ItemSkuConflictErr.WrapParent(err)
	case errors.Is(err, repository.ErrItemNameTaken):
		return apperr.ItemNameConflictErr.WrapParent(err)
	case errors.Is(err, repository.ErrCategoryInUse):
		// The category was removed between lookup and write.
		return apperr.CategoryNotFoundErr.WrapParent(err)
	default:
		return nil
	}
}

func validateStockLevels(quantity, threshold int) error {
	if quantity < 0 {
		return apperr.ValidationErr.WithMsg("quantity must be greater than or equal to 0")
	}
	if quantity > model.MaxQuantity {
		return apperr.ValidationErr.WithMsg(fmt.Sprintf("quantity must be less than or equal to %d", model.MaxQuantity))
	}
	if threshold < 0 {
		return apperr.ValidationErr.WithMsg("low stock threshold must be greater than or equal to 0")
	}
	if threshold > model.MaxQuantity {
		return apperr.ValidationErr.WithMsg(fmt.Sprintf("low stock threshold must be less than or equal to %d", model.MaxQuantity))
	}
	return nil
}
