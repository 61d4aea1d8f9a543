package model

import "time"

// 出店者（屋台・店舗）
// vendorロールのユーザーが1店舗を持つ
type Vendor struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerUserID int64     `gorm:"not null;uniqueIndex" json:"owner_user_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsOpen      bool      `gorm:"not null;default:true" json:"is_open"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
