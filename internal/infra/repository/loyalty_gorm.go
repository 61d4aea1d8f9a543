package repository

import (
	"context"

	"foodcourt/internal/domain/model"

	"gorm.io/gorm"
)

type LoyaltyGormRepository struct {
	db *gorm.DB
}

func NewLoyaltyGormRepository(db *gorm.DB) *LoyaltyGormRepository {
	return &LoyaltyGormRepository{db: db}
}

func (r *LoyaltyGormRepository) GetAccount(ctx context.Context, userID int64) (model.LoyaltyAccount, error) {
	var acc model.LoyaltyAccount
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&acc).Error
	if isNotFound(err) {
		return model.LoyaltyAccount{UserID: userID}, nil
	}
	if err != nil {
		return model.LoyaltyAccount{}, err
	}
	return acc, nil
}

// 口座が無ければ作ってから加算する（upsert）
func (r *LoyaltyGormRepository) AddPoints(ctx context.Context, userID int64, points int64, reason model.LoyaltyReason, reference string) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Raw(`
INSERT INTO loyalty_accounts (user_id, points, updated_at)
VALUES (?, ?, NOW())
ON CONFLICT (user_id)
DO UPDATE SET points = loyalty_accounts.points + EXCLUDED.points, updated_at = NOW()
RETURNING points`, userID, points).Scan(&balance).Error
	if err != nil {
		return 0, err
	}

	if err := r.logTransaction(ctx, userID, points, reason, reference); err != nil {
		return 0, err
	}
	return balance, nil
}

// 残高不足ならfalse（何も変えない）
func (r *LoyaltyGormRepository) DeductPointsIfEnough(ctx context.Context, userID int64, points int64, reason model.LoyaltyReason, reference string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.LoyaltyAccount{}).
		Where("user_id = ? AND points >= ?", userID, points).
		Updates(map[string]interface{}{
			"points":     gorm.Expr("points - ?", points),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if err := r.logTransaction(ctx, userID, -points, reason, reference); err != nil {
		return false, err
	}
	return true, nil
}

func (r *LoyaltyGormRepository) logTransaction(ctx context.Context, userID, points int64, reason model.LoyaltyReason, reference string) error {
	tx := model.LoyaltyTransaction{
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		Reference: reference,
	}
	return r.db.WithContext(ctx).Create(&tx).Error
}

func (r *LoyaltyGormRepository) ListTransactions(ctx context.Context, userID int64, limit int) ([]model.LoyaltyTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var items []model.LoyaltyTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return []model.LoyaltyTransaction{}, err
	}
	return items, nil
}
