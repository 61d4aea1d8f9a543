package repository

import (
	"context"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
)

type VendorGormRepository struct {
	db *gorm.DB
}

func NewVendorGormRepository(db *gorm.DB) *VendorGormRepository {
	return &VendorGormRepository{db: db}
}

func (r *VendorGormRepository) List(ctx context.Context, openOnly bool) ([]model.Vendor, error) {
	q := r.db.WithContext(ctx).Model(&model.Vendor{})
	if openOnly {
		q = q.Where("is_open = ?", true)
	}

	var vendors []model.Vendor
	if err := q.Order("name asc").Order("id asc").Find(&vendors).Error; err != nil {
		return []model.Vendor{}, err
	}
	return vendors, nil
}

func (r *VendorGormRepository) FindByID(ctx context.Context, vendorID int64) (model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).First(&v, vendorID).Error
	if isNotFound(err) {
		return model.Vendor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}

func (r *VendorGormRepository) FindByOwnerUserID(ctx context.Context, userID int64) (model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("owner_user_id = ?", userID).First(&v).Error
	if isNotFound(err) {
		return model.Vendor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}
