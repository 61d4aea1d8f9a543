package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID    int64           `gorm:"not null;index" json:"vendor_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}
