package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
)

// 交換済みバウチャーの保存・取得。Rewardはpreloadして返す
type VoucherRepository interface {
	// 本人のコードだけを探す（他人のコードはErrNotFound）
	FindByCode(ctx context.Context, userID int64, code string) (model.VoucherRedemption, error)
	// SELECT ... FOR UPDATE 版
	FindByCodeForUpdate(ctx context.Context, userID int64, code string) (model.VoucherRedemption, error)
	// is_used=false のときだけ使用済みにする。更新できなければfalse
	MarkUsed(ctx context.Context, redemptionID int64, checkoutID string, usedAt time.Time) (bool, error)
	// code重複はErrConflict
	Create(ctx context.Context, v *model.VoucherRedemption) error
	ListByUserID(ctx context.Context, userID int64) ([]model.VoucherRedemption, error)
}
