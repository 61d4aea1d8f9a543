package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RewardType string

const (
	// 固定額引き（最低利用金額あり）
	RewardTypeVoucher RewardType = "voucher"
	// 割合引き（上限額あり）
	RewardTypePercentage RewardType = "percentage"
)

// ポイントで交換できる特典
type Reward struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string           `gorm:"type:varchar(255);not null" json:"name"`
	Description    string           `gorm:"type:text" json:"description"`
	Type           RewardType       `gorm:"type:varchar(20);not null" json:"type"`
	Value          decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"value"`
	MinSpend       decimal.Decimal  `gorm:"type:numeric(10,2);not null;default:0" json:"min_spend"`
	MaxDiscount    *decimal.Decimal `gorm:"type:numeric(10,2)" json:"max_discount"`
	PointsRequired int64            `gorm:"not null" json:"points_required"`
	IsActive       bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
