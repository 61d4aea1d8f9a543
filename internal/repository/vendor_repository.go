package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

type VendorRepository interface {
	List(ctx context.Context, openOnly bool) ([]model.Vendor, error)
	FindByID(ctx context.Context, vendorID int64) (model.Vendor, error)
	FindByOwnerUserID(ctx context.Context, userID int64) (model.Vendor, error)
}
