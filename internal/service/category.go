package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/audit"
	"github.com/tuanvumaihuynh/warehouse/internal/event"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, name string, actorID int64) (int64, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	ListCategories(ctx context.Context, req model.PageRequest) (model.Page[model.Category], error)
	UpdateCategory(ctx context.Context, id int64, name string, actorID int64) error
	DeleteCategory(ctx context.Context, id int64, actorID int64) error
}

type categoryService struct {
	logger         *slog.Logger
	categoryRepo   repository.CategoryRepository
	auditPublisher event.AuditPublisher
	now            func() time.Time
}

func NewCategoryService(
	logger *slog.Logger,
	categoryRepo repository.CategoryRepository,
	auditPublisher event.AuditPublisher,
) CategoryService {
	return &categoryService{
		logger:         logger.With(slog.String("service", "category")),
		categoryRepo:   categoryRepo,
		auditPublisher: auditPublisher,
		now:            time.Now,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, name string, actorID int64) (int64, error) {
	exists, err := s.categoryRepo.ExistsCategoryByName(ctx, name, 0)
	if err != nil {
		return 0, fmt.Errorf("category repository exists category by name: %w", err)
	}
	if exists {
		return 0, apperr.CategoryNameConflictErr
	}

	id, err := s.categoryRepo.CreateCategory(ctx, name, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return 0, apperr.CategoryNameConflictErr.WrapParent(err)
		}
		return 0, fmt.Errorf("category repository create category: %w", err)
	}

	s.auditPublisher.PublishAudit(ctx, audit.NewEvent(actorID, model.AuditActionCreate, model.EntityKindCategory, id, s.now()))

	return id, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Category{}, apperr.CategoryNotFoundErr
		}
		return model.Category{}, fmt.Errorf("category repository find category by id: %w", err)
	}

	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, req model.PageRequest) (model.Page[model.Category], error) {
	req = req.Normalize(string(model.CategorySortByName))
	if err := model.ValidateSort[model.CategorySortBy](req); err != nil {
		return model.Page[model.Category]{}, validationErr(err)
	}

	categories, total, err := s.categoryRepo.ListCategories(ctx, req)
	if err != nil {
		return model.Page[model.Category]{}, fmt.Errorf("category repository list categories: %w", err)
	}

	return model.NewPage(categories, req, total), nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, name string, actorID int64) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	exists, err := s.categoryRepo.ExistsCategoryByName(ctx, name, id)
	if err != nil {
		return fmt.Errorf("category repository exists category by name: %w", err)
	}
	if exists {
		return apperr.CategoryNameConflictErr
	}

	if err := s.categoryRepo.UpdateCategory(ctx, id, name, actorID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperr.CategoryNotFoundErr
		case errors.Is(err, repository.ErrCategoryNameTaken):
			return apperr.CategoryNameConflictErr.WrapParent(err)
		}
		return fmt.Errorf("category repository update category: %w", err)
	}

	s.auditPublisher.PublishAudit(ctx, audit.NewEvent(actorID, model.AuditActionUpdate, model.EntityKindCategory, id, s.now()))

	return nil
}

// DeleteCategory removes a category that no item references.
func (s *categoryService) DeleteCategory(ctx context.Context, id int64, actorID int64) error {
	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperr.CategoryNotFoundErr
		case errors.Is(err, repository.ErrCategoryInUse):
			return apperr.CategoryInUseErr.WrapParent(err)
		}
		return fmt.Errorf("category repository delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "category deleted", slog.Int64("category_id", id))
	s.auditPublisher.PublishAudit(ctx, audit.NewEvent(actorID, model.AuditActionDelete, model.EntityKindCategory, id, s.now()))

	return nil
}
