package model

import "time"

// 1明細あたりの最大数量
const MaxCartItemQuantity = 10

// カートの明細
// 価格は持たない。チェックアウト時にメニューの現在価格を読む
type CartItem struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"not null;uniqueIndex:ux_cart_user_item" json:"user_id"`
	MenuItemID     int64     `gorm:"not null;uniqueIndex:ux_cart_user_item" json:"menu_item_id"`
	Quantity       int64     `gorm:"not null" json:"quantity"`
	SpecialRequest string    `gorm:"type:varchar(255)" json:"special_request"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
