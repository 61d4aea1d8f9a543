package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	// Tx内で行ロックして読む（チェックアウト用）
	ListByUserIDForUpdate(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	// 同じメニューが既にあるか
	FindByUserAndMenuItem(ctx context.Context, userID, menuItemID int64) (model.CartItem, bool, error)
	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	Update(ctx context.Context, cartItemID int64, qty int64, specialRequest string) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	// 削除件数を返す（0件でもエラーにしない）
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}
