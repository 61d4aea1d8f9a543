package event

import (
	"context"
	"errors"

	"foodcourt/internal/domain/model"
)

var ErrPublisherClosed = errors.New("publisher closed")

// KAFKA_BROKERS が無いときに使う
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvents(context.Context, []model.OrderEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
