package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type StockAlertRepository interface {
	WithDB(db db.DB) StockAlertRepository
	CreateStockAlert(ctx context.Context, itemID int64, notified bool) (model.StockAlert, error)
	// ListStockAlertsByItem returns the alerts of an item, newest first.
	ListStockAlertsByItem(ctx context.Context, itemID int64) ([]model.StockAlert, error)
}

type stockAlertRepository struct {
	db db.DB
}

func NewStockAlertRepository(db db.DB) StockAlertRepository {
	return &stockAlertRepository{db: db}
}

func (r stockAlertRepository) WithDB(db db.DB) StockAlertRepository {
	return &stockAlertRepository{db: db}
}

func (r stockAlertRepository) CreateStockAlert(ctx context.Context, itemID int64, notified bool) (model.StockAlert, error) {
	alert := model.StockAlert{
		ItemID:   itemID,
		Notified: notified,
	}

	if err := r.db.QueryRow(ctx, `
		INSERT INTO stock_alerts (item_id, notified)
		VALUES (@item_id, @notified)
		RETURNING id, triggered_at
	`, pgx.NamedArgs{
		"item_id":  itemID,
		"notified": notified,
	}).Scan(&alert.ID, &alert.TriggeredAt); err != nil {
		return model.StockAlert{}, fmt.Errorf("insert stock alert: %w", err)
	}

	return alert, nil
}

func (r stockAlertRepository) ListStockAlertsByItem(ctx context.Context, itemID int64) ([]model.StockAlert, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_id, notified, triggered_at
		FROM stock_alerts
		WHERE item_id = @item_id
		ORDER BY triggered_at DESC, id DESC
	`, pgx.NamedArgs{"item_id": itemID})
	if err != nil {
		return nil, fmt.Errorf("list stock alerts: %w", err)
	}

	alerts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.StockAlert, error) {
		var a model.StockAlert
		err := row.Scan(&a.ID, &a.ItemID, &a.Notified, &a.TriggeredAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect stock alerts: %w", err)
	}

	return alerts, nil
}
