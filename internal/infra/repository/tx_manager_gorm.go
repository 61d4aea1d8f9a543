package repository

import (
	"context"

	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	payments      repo.PaymentRepository
	pickups       repo.PickupRepository
	cartItems     repo.CartItemRepository
	vouchers      repo.VoucherRepository
	loyalty       repo.LoyaltyRepository
	notifications repo.NotificationRepository
	auditLogs     repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *txReposGorm) Payments() repo.PaymentRepository           { return r.payments }
func (r *txReposGorm) Pickups() repo.PickupRepository             { return r.pickups }
func (r *txReposGorm) CartItems() repo.CartItemRepository         { return r.cartItems }
func (r *txReposGorm) Vouchers() repo.VoucherRepository           { return r.vouchers }
func (r *txReposGorm) Loyalty() repo.LoyaltyRepository            { return r.loyalty }
func (r *txReposGorm) Notifications() repo.NotificationRepository { return r.notifications }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository         { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返せばrollback、nilならcommit
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			payments:      NewPaymentGormRepository(tx),
			pickups:       NewPickupGormRepository(tx),
			cartItems:     NewCartItemGormRepository(tx),
			vouchers:      NewVoucherGormRepository(tx),
			loyalty:       NewLoyaltyGormRepository(tx),
			notifications: NewNotificationGormRepository(tx),
			auditLogs:     NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
