package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"
)

type MenuUsecase struct {
	menuRepo   repo.MenuRepository
	vendorRepo repo.VendorRepository
}

// DI
func NewMenuUsecase(menuRepo repo.MenuRepository, vendorRepo repo.VendorRepository) *MenuUsecase {
	return &MenuUsecase{menuRepo: menuRepo, vendorRepo: vendorRepo}
}

// GET /api/menu の入力
type ListMenuInput struct {
	Page     int
	Limit    int
	Q        string
	VendorID *int64
	Category string
	Sort     string
}

type MenuItemOutput struct {
	ID          int64  `json:"id"`
	VendorID    int64  `json:"vendor_id"`
	VendorName  string `json:"vendor_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	IsAvailable bool   `json:"is_available"`
}

type MenuListOutput struct {
	Items []MenuItemOutput `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type VendorOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsOpen      bool   `json:"is_open"`
}

func (u *MenuUsecase) ListMenu(ctx context.Context, in ListMenuInput) (MenuListOutput, error) {
	if in.Page < 1 {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.VendorID != nil && *in.VendorID <= 0 {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid vendor_id")
	}
	switch in.Sort {
	case "", "new", "name", "price_asc", "price_desc":
	default:
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.menuRepo.ListAvailable(ctx, repo.MenuListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		VendorID: in.VendorID,
		Category: strings.TrimSpace(in.Category),
		Sort:     in.Sort,
	})
	if err != nil {
		return MenuListOutput{}, NewInternalError(err)
	}

	out := MenuListOutput{
		Items: make([]MenuItemOutput, 0, len(items)),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}
	for _, m := range items {
		out.Items = append(out.Items, toMenuItemOutput(m))
	}
	return out, nil
}

// キーワード必須の検索
func (u *MenuUsecase) SearchMenu(ctx context.Context, in ListMenuInput) (MenuListOutput, error) {
	if strings.TrimSpace(in.Q) == "" {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "q required")
	}
	return u.ListMenu(ctx, in)
}

func (u *MenuUsecase) GetMenuItem(ctx context.Context, menuItemID int64) (MenuItemOutput, error) {
	if menuItemID <= 0 {
		return MenuItemOutput{}, errInvalidID
	}

	m, err := u.menuRepo.FindByID(ctx, menuItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return MenuItemOutput{}, errNotFound
	}
	if err != nil {
		return MenuItemOutput{}, NewInternalError(err)
	}

	//提供停止中は見せない
	if !m.IsAvailable {
		return MenuItemOutput{}, errNotFound
	}
	return toMenuItemOutput(m), nil
}

func (u *MenuUsecase) ListVendors(ctx context.Context, openOnly bool) ([]VendorOutput, error) {
	vendors, err := u.vendorRepo.List(ctx, openOnly)
	if err != nil {
		return []VendorOutput{}, NewInternalError(err)
	}

	out := make([]VendorOutput, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, VendorOutput{
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Description,
			IsOpen:      v.IsOpen,
		})
	}
	return out, nil
}

func toMenuItemOutput(m model.MenuItem) MenuItemOutput {
	out := MenuItemOutput{
		ID:          m.ID,
		VendorID:    m.VendorID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       money(m.Price),
		IsAvailable: m.IsAvailable,
	}
	if m.Vendor != nil {
		out.VendorName = m.Vendor.Name
	}
	return out
}
