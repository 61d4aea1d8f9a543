package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

type VendorOrderListFilter struct {
	VendorID int64
	Status   string
	Page     int
	Limit    int
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// SELECT ... FOR UPDATE（ステータス更新用）
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	ListByVendor(ctx context.Context, f VendorOrderListFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//同じキーなら同じ結果を返すための検索
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) ([]model.Order, error)
}
