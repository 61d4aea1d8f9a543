package db

import (
	"foodcourt/internal/config"
	"foodcourt/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{}
	if !cfg.IsDev() {
		gcfg.Logger = logger.Default.LogMode(logger.Warn)
	}
	return gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
}

// 全テーブルのAutoMigrate
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Vendor{},
		&model.MenuItem{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Pickup{},
		&model.PickupQueueCounter{},
		&model.Reward{},
		&model.VoucherRedemption{},
		&model.LoyaltyAccount{},
		&model.LoyaltyTransaction{},
		&model.Notification{},
		&model.AuditLog{},
	)
}
