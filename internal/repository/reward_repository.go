package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

type RewardRepository interface {
	ListActive(ctx context.Context) ([]model.Reward, error)
	FindByID(ctx context.Context, rewardID int64) (model.Reward, error)
}
