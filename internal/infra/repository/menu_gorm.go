package repository

import (
	"context"
	"strings"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
)

type MenuGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

// 注文可能なメニューだけを、検索/出店者/カテゴリ/ソート/ページング付きで返す。
func (r *MenuGormRepository) ListAvailable(ctx context.Context, q repo.MenuListQuery) ([]model.MenuItem, int64, error) {
	var items []model.MenuItem
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.MenuItem{})

	// 提供中（is_available=true）かつ削除されていないものだけ
	tx = tx.Where("menu_items.is_available = ?", true)

	// q nameとdescriptionを対象
	if kw := strings.TrimSpace(q.Q); kw != "" {
		like := "%" + kw + "%"
		tx = tx.Where("(menu_items.name ILIKE ? OR menu_items.description ILIKE ?)", like, like)
	}

	if q.VendorID != nil {
		tx = tx.Where("menu_items.vendor_id = ?", *q.VendorID)
	}
	if q.Category != "" {
		tx = tx.Where("menu_items.category = ?", q.Category)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.MenuItem{}, 0, err
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("menu_items.price asc").Order("menu_items.id asc")
	case "price_desc":
		tx = tx.Order("menu_items.price desc").Order("menu_items.id desc")
	case "name":
		tx = tx.Order("menu_items.name asc").Order("menu_items.id asc")
	default:
		tx = tx.Order("menu_items.created_at desc").Order("menu_items.id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Preload("Vendor").Offset(offset).Limit(q.Limit).Find(&items).Error; err != nil {
		return []model.MenuItem{}, 0, err
	}

	return items, total, nil
}

// IDでメニューを取得（提供停止中も返す）
func (r *MenuGormRepository) FindByID(ctx context.Context, id int64) (model.MenuItem, error) {
	var m model.MenuItem
	err := r.db.WithContext(ctx).Preload("Vendor").First(&m, id).Error
	if isNotFound(err) {
		return model.MenuItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MenuItem{}, err
	}
	return m, nil
}

// まとめて取得。見つからないIDは結果に含まれない
func (r *MenuGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.MenuItem, error) {
	if len(ids) == 0 {
		return []model.MenuItem{}, nil
	}

	var items []model.MenuItem
	if err := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return []model.MenuItem{}, err
	}
	return items, nil
}
