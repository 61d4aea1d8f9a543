package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoucherGormRepository struct {
	db *gorm.DB
}

func NewVoucherGormRepository(db *gorm.DB) *VoucherGormRepository {
	return &VoucherGormRepository{db: db}
}

func (r *VoucherGormRepository) FindByCode(ctx context.Context, userID int64, code string) (model.VoucherRedemption, error) {
	return r.findByCode(r.db.WithContext(ctx), userID, code)
}

func (r *VoucherGormRepository) FindByCodeForUpdate(ctx context.Context, userID int64, code string) (model.VoucherRedemption, error) {
	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findByCode(q, userID, code)
}

func (r *VoucherGormRepository) findByCode(q *gorm.DB, userID int64, code string) (model.VoucherRedemption, error) {
	var v model.VoucherRedemption
	// 他人のコードは「存在しない」と同じ扱い
	err := q.Preload("Reward").
		Where("user_id = ? AND code = ?", userID, code).
		First(&v).Error
	if isNotFound(err) {
		return model.VoucherRedemption{}, repo.ErrNotFound
	}
	if err != nil {
		return model.VoucherRedemption{}, err
	}
	return v, nil
}

// is_used=false の行だけ更新する。0件なら先に使われている
func (r *VoucherGormRepository) MarkUsed(ctx context.Context, redemptionID int64, checkoutID string, usedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.VoucherRedemption{}).
		Where("id = ? AND is_used = ?", redemptionID, false).
		Updates(map[string]interface{}{
			"is_used":     true,
			"used_at":     usedAt,
			"checkout_id": checkoutID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *VoucherGormRepository) Create(ctx context.Context, v *model.VoucherRedemption) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *VoucherGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.VoucherRedemption, error) {
	var items []model.VoucherRedemption
	if err := r.db.WithContext(ctx).
		Preload("Reward").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&items).Error; err != nil {
		return []model.VoucherRedemption{}, err
	}
	return items, nil
}
