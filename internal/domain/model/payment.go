package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodOnline  PaymentMethod = "online"
	PaymentMethodEwallet PaymentMethod = "ewallet"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodCash, PaymentMethodOnline, PaymentMethodEwallet:
		return m, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// 現金は受け取り時払いなのでpending、それ以外は即paid（ゲートウェイ連携なし）
func InitialPaymentStatus(m PaymentMethod) PaymentStatus {
	if m == PaymentMethodCash {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

type Payment struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;uniqueIndex" json:"order_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Method    PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Status    PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PaidAt    *time.Time      `json:"paid_at"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
