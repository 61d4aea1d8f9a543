package usecase

import (
	"context"
	"encoding/json"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"github.com/rs/zerolog"
)

// 通知の作成。失敗してもエラーは返さずログだけ残す
type Notifier struct {
	notifications repo.NotificationRepository
	log           zerolog.Logger
}

func NewNotifier(notifications repo.NotificationRepository, log zerolog.Logger) *Notifier {
	return &Notifier{notifications: notifications, log: log}
}

func (n *Notifier) Notify(ctx context.Context, userID int64, typ model.NotificationType, title, message string, data interface{}) {
	nt, err := buildNotification(userID, typ, title, message, data)
	if err == nil {
		err = n.notifications.Create(ctx, &nt)
	}
	if err != nil {
		n.log.Warn().Err(err).
			Int64("user_id", userID).
			Str("type", string(typ)).
			Msg("notification dispatch failed")
	}
}

func buildNotification(userID int64, typ model.NotificationType, title, message string, data interface{}) (model.Notification, error) {
	nt := model.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return model.Notification{}, err
		}
		nt.Data = b
	}
	return nt, nil
}
