package service

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

var tracer = otel.Tracer("internal/service")

// SkuGenerator derives the code of a new item.
type SkuGenerator interface {
	Generate(name, categoryName string) string
}

// StockAlerter raises low stock alerts after a quantity change.
type StockAlerter interface {
	AlertIfLow(ctx context.Context, item model.Item, newQuantity int) error
}

func validationErr(err error) error {
	return apperr.ValidationErr.WithMsg(err.Error()).WrapParent(err)
}
