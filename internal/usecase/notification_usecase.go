package usecase

import (
	"context"
	"errors"
	"net/http"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"
)

type NotificationUsecase struct {
	notifications repo.NotificationRepository
	clock         Clock
}

func NewNotificationUsecase(notifications repo.NotificationRepository, clock Clock) *NotificationUsecase {
	return &NotificationUsecase{notifications: notifications, clock: clock}
}

type NotificationListInput struct {
	UnreadOnly bool
	Page       int
	Limit      int
}

type NotificationListOutput struct {
	Items       []model.Notification `json:"items"`
	Total       int64                `json:"total"`
	UnreadCount int64                `json:"unread_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

func (u *NotificationUsecase) List(ctx context.Context, userID int64, in NotificationListInput) (NotificationListOutput, error) {
	if userID <= 0 {
		return NotificationListOutput{}, errUnauthorized
	}
	if in.Page < 1 {
		return NotificationListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return NotificationListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.notifications.List(ctx, repo.NotificationListFilter{
		UserID:     userID,
		UnreadOnly: in.UnreadOnly,
		Page:       in.Page,
		Limit:      in.Limit,
	})
	if err != nil {
		return NotificationListOutput{}, NewInternalError(err)
	}
	unread, err := u.notifications.CountUnread(ctx, userID)
	if err != nil {
		return NotificationListOutput{}, NewInternalError(err)
	}
	if items == nil {
		items = []model.Notification{}
	}

	return NotificationListOutput{
		Items:       items,
		Total:       total,
		UnreadCount: unread,
		Page:        in.Page,
		Limit:       in.Limit,
	}, nil
}

func (u *NotificationUsecase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, errUnauthorized
	}
	n, err := u.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, NewInternalError(err)
	}
	return n, nil
}

// 既読済みでも200（何もしない）
func (u *NotificationUsecase) MarkRead(ctx context.Context, userID int64, notificationID int64) error {
	if userID <= 0 {
		return errUnauthorized
	}
	if notificationID <= 0 {
		return errInvalidID
	}
	err := u.notifications.MarkRead(ctx, notificationID, userID, u.clock.Now())
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound
	}
	if err != nil {
		return NewInternalError(err)
	}
	return nil
}

func (u *NotificationUsecase) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, errUnauthorized
	}
	n, err := u.notifications.MarkAllRead(ctx, userID, u.clock.Now())
	if err != nil {
		return 0, NewInternalError(err)
	}
	return n, nil
}
