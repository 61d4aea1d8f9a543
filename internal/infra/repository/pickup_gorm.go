package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
)

type PickupGormRepository struct {
	db *gorm.DB
}

func NewPickupGormRepository(db *gorm.DB) *PickupGormRepository {
	return &PickupGormRepository{db: db}
}

// カウンタ行をupsertで+1する。
// 同じ(vendor, 日付)への同時チェックアウトはこの行のロックで直列化される。
func (r *PickupGormRepository) NextQueueNumber(ctx context.Context, vendorID int64, day time.Time) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw(`
INSERT INTO pickup_queue_counters (vendor_id, queue_date, last_number)
VALUES (?, ?, 1)
ON CONFLICT (vendor_id, queue_date)
DO UPDATE SET last_number = pickup_queue_counters.last_number + 1
RETURNING last_number`, vendorID, day.Format("2006-01-02")).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *PickupGormRepository) Create(ctx context.Context, p *model.Pickup) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *PickupGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Pickup, error) {
	var p model.Pickup
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error
	if isNotFound(err) {
		return model.Pickup{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Pickup{}, err
	}
	return p, nil
}

func (r *PickupGormRepository) UpdateStatusByOrderID(ctx context.Context, orderID int64, status model.PickupStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Pickup{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
