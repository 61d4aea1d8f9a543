package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

type LoyaltyRepository interface {
	// 口座が無ければ0ポイントで返す
	GetAccount(ctx context.Context, userID int64) (model.LoyaltyAccount, error)
	// 加算して履歴を残す。加算後の残高を返す
	AddPoints(ctx context.Context, userID int64, points int64, reason model.LoyaltyReason, reference string) (int64, error)
	// 残高が足りるときだけ減算して履歴を残す
	DeductPointsIfEnough(ctx context.Context, userID int64, points int64, reason model.LoyaltyReason, reference string) (bool, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]model.LoyaltyTransaction, error)
}
