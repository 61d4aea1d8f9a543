package repository

import (
	"context"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
)

type RewardGormRepository struct {
	db *gorm.DB
}

func NewRewardGormRepository(db *gorm.DB) *RewardGormRepository {
	return &RewardGormRepository{db: db}
}

// 交換可能な特典（必要ポイントの少ない順）
func (r *RewardGormRepository) ListActive(ctx context.Context) ([]model.Reward, error) {
	var rewards []model.Reward
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("points_required asc").Order("id asc").
		Find(&rewards).Error; err != nil {
		return []model.Reward{}, err
	}
	return rewards, nil
}

func (r *RewardGormRepository) FindByID(ctx context.Context, rewardID int64) (model.Reward, error) {
	var rw model.Reward
	err := r.db.WithContext(ctx).First(&rw, rewardID).Error
	if isNotFound(err) {
		return model.Reward{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Reward{}, err
	}
	return rw, nil
}
