package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
)

type NotificationListFilter struct {
	UserID     int64
	UnreadOnly bool
	Page       int
	Limit      int
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, f NotificationListFilter) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	// 本人のものだけ既読にする（他人のものはErrNotFound）
	MarkRead(ctx context.Context, notificationID int64, userID int64, at time.Time) error
	MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error)
}
