package usecase

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 注文イベントの送信先（Kafkaなど）
type OrderEventPublisher interface {
	PublishOrderEvents(ctx context.Context, events []model.OrderEvent) error
}
