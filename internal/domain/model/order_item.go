package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文時点の名前と価格を保存する
type OrderItem struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64           `gorm:"not null;index" json:"order_id"`
	MenuItemID        int64           `gorm:"not null;index" json:"menu_item_id"`
	NameSnapshot      string          `gorm:"type:varchar(255);not null" json:"name"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity          int64           `gorm:"not null" json:"quantity"`
	SpecialRequest    string          `gorm:"type:varchar(255)" json:"special_request"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPriceSnapshot.Mul(decimal.NewFromInt(i.Quantity))
}
