// Package alert raises low stock alerts.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/notify"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
)

var alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warehouse_stock_alerts_total",
	Help: "Number of low stock alerts recorded, by whether a notification was delivered.",
}, []string{"notified"})

// RecipientDirectory resolves who receives alerts.
type RecipientDirectory interface {
	FindEmailsByRole(ctx context.Context, role model.Role) ([]string, error)
}

type Engine struct {
	logger         *slog.Logger
	recipients     RecipientDirectory
	gateway        notify.Gateway
	stockAlertRepo repository.StockAlertRepository
	recipientRole  model.Role
}

func NewEngine(
	logger *slog.Logger,
	recipients RecipientDirectory,
	gateway notify.Gateway,
	stockAlertRepo repository.StockAlertRepository,
	recipientRole model.Role,
) *Engine {
	return &Engine{
		logger:         logger.With(slog.String("service", "alert")),
		recipients:     recipients,
		gateway:        gateway,
		stockAlertRepo: stockAlertRepo,
		recipientRole:  recipientRole,
	}
}

// AlertIfLow records a stock alert when newQuantity is strictly below the
// item threshold, notifying the recipient role first. Recipient lookup and
// delivery failures only clear the notified flag. Only a failure to store the
// alert is returned.
func (e *Engine) AlertIfLow(ctx context.Context, item model.Item, newQuantity int) error {
	if !item.IsLowStock(newQuantity) {
		e.logger.DebugContext(ctx, "stock level ok",
			slog.Int64("item_id", item.ID),
			slog.Int("quantity", newQuantity),
			slog.Int("threshold", item.LowStockThreshold),
		)
		return nil
	}

	e.logger.WarnContext(ctx, "low stock detected",
		slog.Int64("item_id", item.ID),
		slog.String("item_name", item.Name),
		slog.Int("quantity", newQuantity),
		slog.Int("threshold", item.LowStockThreshold),
	)

	notified := e.notify(ctx, item, newQuantity)

	alert, err := e.stockAlertRepo.CreateStockAlert(ctx, item.ID, notified)
	if err != nil {
		return fmt.Errorf("stock alert repository create stock alert: %w", err)
	}

	alertsTotal.WithLabelValues(strconv.FormatBool(notified)).Inc()
	e.logger.InfoContext(ctx, "stock alert recorded",
		slog.Int64("alert_id", alert.ID),
		slog.Int64("item_id", item.ID),
		slog.Bool("notified", notified),
	)

	return nil
}

func (e *Engine) notify(ctx context.Context, item model.Item, quantity int) bool {
	recipients, err := e.recipients.FindEmailsByRole(ctx, e.recipientRole)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to resolve alert recipients",
			slog.String("role", string(e.recipientRole)),
			slog.Any("error", err),
		)
		return false
	}
	if len(recipients) == 0 {
		e.logger.WarnContext(ctx, "no alert recipients", slog.String("role", string(e.recipientRole)))
		return false
	}

	if err := e.gateway.Send(ctx, recipients, Subject(item), Body(item, quantity)); err != nil {
		e.logger.WarnContext(ctx, "failed to send low stock notification",
			slog.Int64("item_id", item.ID),
			slog.Any("error", err),
		)
		return false
	}

	return true
}

func Subject(item model.Item) string {
	return "Low Stock Alert: " + item.Name
}

func Body(item model.Item, quantity int) string {
	return fmt.Sprintf(`Warning: The stock for item '%s' (SKU %s) is low!

Current quantity: %d
Threshold: %d

Please restock as soon as possible.
`, item.Name, item.Sku, quantity, item.LowStockThreshold)
}
