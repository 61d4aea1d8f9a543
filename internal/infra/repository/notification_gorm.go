package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationGormRepository) List(ctx context.Context, f repo.NotificationListFilter) ([]model.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ?", f.UserID)
	if f.UnreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Notification{}, 0, err
	}

	var items []model.Notification
	limit, offset := pageOffset(f.Page, f.Limit, 20, 100)
	if err := q.Order("id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Notification{}, 0, err
	}
	return items, total, nil
}

func (r *NotificationGormRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&n).Error
	return n, err
}

// 既読済みでも本人のものならエラーにしない
func (r *NotificationGormRepository) MarkRead(ctx context.Context, notificationID int64, userID int64, at time.Time) error {
	var n model.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&n).Error
	if isNotFound(err) {
		return repo.ErrNotFound
	}
	if err != nil {
		return err
	}
	if n.ReadAt != nil {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND read_at IS NULL", notificationID).
		Update("read_at", at).Error
}

func (r *NotificationGormRepository) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
