package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
)

type PickupRepository interface {
	// 出店者・日付ごとの次の整理番号（カウンタ行をロックして加算）
	NextQueueNumber(ctx context.Context, vendorID int64, day time.Time) (int64, error)
	Create(ctx context.Context, p *model.Pickup) error
	FindByOrderID(ctx context.Context, orderID int64) (model.Pickup, error)
	UpdateStatusByOrderID(ctx context.Context, orderID int64, status model.PickupStatus) error
}
