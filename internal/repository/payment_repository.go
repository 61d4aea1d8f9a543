package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.PaymentStatus, paidAt *time.Time) error
}
