package model

import "time"

// ポイント残高（整数のみ）
type LoyaltyAccount struct {
	UserID    int64     `gorm:"primaryKey" json:"user_id"`
	Points    int64     `gorm:"not null;default:0" json:"points"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type LoyaltyReason string

const (
	LoyaltyReasonCheckout LoyaltyReason = "checkout"
	LoyaltyReasonRedeem   LoyaltyReason = "reward_redeem"
)

// ポイントの増減履歴
type LoyaltyTransaction struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64         `gorm:"not null;index" json:"user_id"`
	Points    int64         `gorm:"not null" json:"points"`
	Reason    LoyaltyReason `gorm:"type:varchar(30);not null" json:"reason"`
	Reference string        `gorm:"type:varchar(64)" json:"reference"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
