package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	OrderEventPlaced        OrderEventType = "order.placed"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
)

// 外部（Kafka）に流す注文イベント
type OrderEvent struct {
	Type       OrderEventType  `json:"type"`
	OrderID    int64           `json:"order_id"`
	CheckoutID string          `json:"checkout_id"`
	UserID     int64           `json:"user_id"`
	VendorID   int64           `json:"vendor_id"`
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}
