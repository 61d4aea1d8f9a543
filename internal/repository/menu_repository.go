package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

// 一覧検索
type MenuListQuery struct {
	Page     int
	Limit    int
	Q        string
	VendorID *int64
	Category string
	Sort     string
}

// メニューの取得。Vendorはpreloadして返す
type MenuRepository interface {
	ListAvailable(ctx context.Context, q MenuListQuery) ([]model.MenuItem, int64, error)
	FindByID(ctx context.Context, id int64) (model.MenuItem, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.MenuItem, error)
}
