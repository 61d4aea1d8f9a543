package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 出店者が進められる遷移
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusCompleted},
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// fromからtoへ進めてよいか
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// 1回のチェックアウトで出店者ごとに1件作られる
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"not null;index" json:"user_id"`
	VendorID       int64           `gorm:"not null;index" json:"vendor_id"`
	CheckoutID     string          `gorm:"type:uuid;not null;index" json:"checkout_id"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	ServiceFee     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"service_fee"`
	Discount       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discount"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	Notes          string          `gorm:"type:text" json:"notes"`
	IdempotencyKey string          `gorm:"type:varchar(255);index" json:"-"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
