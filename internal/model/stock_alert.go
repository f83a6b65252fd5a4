package model

import "time"

// StockAlert records that an item dropped below its low-stock threshold.
// Alerts are append-only: every low-stock adjustment adds one.
type StockAlert struct {
	ID          int64
	ItemID      int64
	Notified    bool
	TriggeredAt time.Time
}
