package model

import "time"

type PickupStatus string

const (
	PickupStatusWaiting   PickupStatus = "waiting"
	PickupStatusReady     PickupStatus = "ready"
	PickupStatusCollected PickupStatus = "collected"
	PickupStatusCancelled PickupStatus = "cancelled"
)

// 注文ステータスに連動する受け取りステータス（変化なしはfalse）
func PickupStatusFor(s OrderStatus) (PickupStatus, bool) {
	switch s {
	case OrderStatusReady:
		return PickupStatusReady, true
	case OrderStatusCompleted:
		return PickupStatusCollected, true
	case OrderStatusCancelled:
		return PickupStatusCancelled, true
	}
	return "", false
}

type Pickup struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64        `gorm:"not null;uniqueIndex" json:"order_id"`
	VendorID    int64        `gorm:"not null;index:ix_pickup_vendor_day" json:"vendor_id"`
	QueueDate   time.Time    `gorm:"type:date;not null;index:ix_pickup_vendor_day" json:"queue_date"`
	QueueNumber int64        `gorm:"not null" json:"queue_number"`
	Status      PickupStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 出店者・日付ごとの整理番号カウンタ
// この行をupsertで加算することで同時チェックアウトを直列化する
type PickupQueueCounter struct {
	VendorID   int64     `gorm:"primaryKey" json:"vendor_id"`
	QueueDate  time.Time `gorm:"type:date;primaryKey" json:"queue_date"`
	LastNumber int64     `gorm:"not null" json:"last_number"`
}
