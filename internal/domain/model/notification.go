package model

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationOrderPlaced     NotificationType = "order_placed"
	NotificationOrderStatus     NotificationType = "order_status"
	NotificationVoucherRedeemed NotificationType = "voucher_redeemed"
	NotificationPointsEarned    NotificationType = "points_earned"
)

// ポーリングで読むだけの受信箱
type Notification struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64            `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Data      json.RawMessage  `gorm:"type:jsonb" json:"data"`
	ReadAt    *time.Time       `gorm:"index" json:"read_at"`
	CreatedAt time.Time        `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
