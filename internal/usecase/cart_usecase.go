package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/domain/pricing"
	repo "foodcourt/internal/repository"
	"foodcourt/internal/validator"

	"github.com/shopspring/decimal"
)

// CartUsecase は /api/cart の業務ロジックです。
// カートは価格を持たないので、表示のたびにメニューの現在価格で計算する。
type CartUsecase struct {
	cartItems  repo.CartItemRepository
	menu       repo.MenuRepository
	vouchers   *VoucherEngine
	serviceFee decimal.Decimal
}

func NewCartUsecase(
	cartItems repo.CartItemRepository,
	menu repo.MenuRepository,
	vouchers *VoucherEngine,
	serviceFee decimal.Decimal,
) *CartUsecase {
	return &CartUsecase{
		cartItems:  cartItems,
		menu:       menu,
		vouchers:   vouchers,
		serviceFee: serviceFee,
	}
}

type CartItemOutput struct {
	ID             int64  `json:"id"`
	MenuItemID     int64  `json:"menu_item_id"`
	VendorID       int64  `json:"vendor_id"`
	VendorName     string `json:"vendor_name"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	Quantity       int64  `json:"quantity"`
	SpecialRequest string `json:"special_request"`
	LineTotal      string `json:"line_total"`
	IsAvailable    bool   `json:"is_available"`
}

type CartOutput struct {
	Items      []CartItemOutput `json:"items"`
	CartCount  int64            `json:"cart_count"`
	Subtotal   string           `json:"subtotal"`
	ServiceFee string           `json:"service_fee"`
	Total      string           `json:"total"`
}

type AddCartInput struct {
	MenuItemID     int64
	Quantity       int64
	SpecialRequest string
}

type UpdateCartItemInput struct {
	Quantity       int64
	SpecialRequest string
}

type ClearCartOutput struct {
	Removed   int64 `json:"removed"`
	CartCount int64 `json:"cart_count"`
}

type ApplyVoucherOutput struct {
	Subtotal   string         `json:"subtotal"`
	ServiceFee string         `json:"service_fee"`
	Discount   string         `json:"discount"`
	Total      string         `json:"total"`
	Voucher    *VoucherOutput `json:"voucher"`
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, errUnauthorized
	}
	return u.buildCartOutput(ctx, userID)
}

// 同じメニューは数量を足す（合計10まで）
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, errUnauthorized
	}
	in.SpecialRequest = strings.TrimSpace(in.SpecialRequest)
	if errs := validator.ValidateAddCart(in.MenuItemID, in.Quantity, in.SpecialRequest); !errs.Empty() {
		return CartOutput{}, NewValidationError(errs)
	}

	m, err := u.menu.FindByID(ctx, in.MenuItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, errNotFound
	}
	if err != nil {
		return CartOutput{}, NewInternalError(err)
	}
	if !m.IsAvailable {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "item unavailable")
	}
	if m.Vendor != nil && !m.Vendor.IsOpen {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "vendor closed")
	}

	if err := u.addOrMerge(ctx, userID, in); err != nil {
		return CartOutput{}, err
	}
	return u.buildCartOutput(ctx, userID)
}

func (u *CartUsecase) addOrMerge(ctx context.Context, userID int64, in AddCartInput) error {
	// 同時に同じメニューを追加した場合は一意制約で負けるので1回だけやり直す
	for attempt := 0; attempt < 2; attempt++ {
		existing, found, err := u.cartItems.FindByUserAndMenuItem(ctx, userID, in.MenuItemID)
		if err != nil {
			return NewInternalError(err)
		}

		if found {
			newQty := existing.Quantity + in.Quantity
			if newQty > model.MaxCartItemQuantity {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("maximum quantity per item is %d", model.MaxCartItemQuantity))
			}
			req := existing.SpecialRequest
			if in.SpecialRequest != "" {
				req = in.SpecialRequest
			}
			if err := u.cartItems.Update(ctx, existing.ID, newQty, req); err != nil {
				return NewInternalError(err)
			}
			return nil
		}

		_, err = u.cartItems.Create(ctx, model.CartItem{
			UserID:         userID,
			MenuItemID:     in.MenuItemID,
			Quantity:       in.Quantity,
			SpecialRequest: in.SpecialRequest,
		})
		if errors.Is(err, repo.ErrConflict) {
			continue
		}
		if err != nil {
			return NewInternalError(err)
		}
		return nil
	}
	return NewHTTPError(http.StatusConflict, "cart changed, please retry")
}

// 数量と要望の変更（他人の明細は404）
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, errUnauthorized
	}
	if cartItemID <= 0 {
		return CartOutput{}, errInvalidID
	}
	in.SpecialRequest = strings.TrimSpace(in.SpecialRequest)
	if errs := validator.ValidateUpdateCart(in.Quantity, in.SpecialRequest); !errs.Empty() {
		return CartOutput{}, NewValidationError(errs)
	}

	if _, err := u.findOwnedItem(ctx, userID, cartItemID); err != nil {
		return CartOutput{}, err
	}

	if err := u.cartItems.Update(ctx, cartItemID, in.Quantity, in.SpecialRequest); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, errNotFound
		}
		return CartOutput{}, NewInternalError(err)
	}
	return u.buildCartOutput(ctx, userID)
}

// 明細削除
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, errUnauthorized
	}
	if cartItemID <= 0 {
		return CartOutput{}, errInvalidID
	}

	if _, err := u.findOwnedItem(ctx, userID, cartItemID); err != nil {
		return CartOutput{}, err
	}

	if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, errNotFound
		}
		return CartOutput{}, NewInternalError(err)
	}
	return u.buildCartOutput(ctx, userID)
}

// 空のカートをクリアしても成功（cart_count=0）
func (u *CartUsecase) Clear(ctx context.Context, userID int64) (ClearCartOutput, error) {
	if userID <= 0 {
		return ClearCartOutput{}, errUnauthorized
	}

	removed, err := u.cartItems.DeleteByUserID(ctx, userID)
	if err != nil {
		return ClearCartOutput{}, NewInternalError(err)
	}
	return ClearCartOutput{Removed: removed, CartCount: 0}, nil
}

// 現在のカート小計でバウチャーを試算する（使用済みにはしない）
func (u *CartUsecase) ApplyVoucher(ctx context.Context, userID int64, code string) (ApplyVoucherOutput, error) {
	if userID <= 0 {
		return ApplyVoucherOutput{}, errUnauthorized
	}
	if errs := validator.ValidateVoucherCode(code); !errs.Empty() {
		return ApplyVoucherOutput{}, NewValidationError(errs)
	}

	lines, _, err := u.loadLines(ctx, userID)
	if err != nil {
		return ApplyVoucherOutput{}, err
	}
	if len(lines) == 0 {
		return ApplyVoucherOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	subtotal := pricing.Subtotal(lines)

	res, err := u.vouchers.Apply(ctx, userID, code, subtotal)
	if err != nil {
		return ApplyVoucherOutput{}, err
	}
	if !res.Success {
		return ApplyVoucherOutput{}, NewHTTPError(http.StatusBadRequest, res.Message)
	}

	return ApplyVoucherOutput{
		Subtotal:   money(subtotal),
		ServiceFee: money(u.serviceFee),
		Discount:   money(res.Discount),
		Total:      money(pricing.Total(subtotal, u.serviceFee, res.Discount)),
		Voucher:    res.Voucher,
	}, nil
}

func (u *CartUsecase) findOwnedItem(ctx context.Context, userID, cartItemID int64) (model.CartItem, error) {
	item, err := u.cartItems.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, errNotFound
	}
	if err != nil {
		return model.CartItem{}, NewInternalError(err)
	}
	//他人の明細は「存在しない扱い」にする
	if item.UserID != userID {
		return model.CartItem{}, errNotFound
	}
	return item, nil
}

// 注文可能な明細だけを計算材料にする
func (u *CartUsecase) loadLines(ctx context.Context, userID int64) ([]pricing.Line, []CartItemOutput, error) {
	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return nil, nil, NewInternalError(err)
	}
	if len(items) == 0 {
		return []pricing.Line{}, []CartItemOutput{}, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuItemID)
	}
	menuItems, err := u.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, NewInternalError(err)
	}
	byID := make(map[int64]model.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	lines := make([]pricing.Line, 0, len(items))
	outs := make([]CartItemOutput, 0, len(items))
	for _, it := range items {
		m, ok := byID[it.MenuItemID]
		out := CartItemOutput{
			ID:             it.ID,
			MenuItemID:     it.MenuItemID,
			Quantity:       it.Quantity,
			SpecialRequest: it.SpecialRequest,
		}
		if !ok {
			// 削除されたメニュー
			out.Price = money(decimal.Zero)
			out.LineTotal = money(decimal.Zero)
			outs = append(outs, out)
			continue
		}

		line := pricing.Line{VendorID: m.VendorID, UnitPrice: m.Price, Quantity: it.Quantity}
		out.VendorID = m.VendorID
		out.Name = m.Name
		out.Price = money(m.Price)
		out.LineTotal = money(line.Amount())
		out.IsAvailable = m.IsAvailable && (m.Vendor == nil || m.Vendor.IsOpen)
		if m.Vendor != nil {
			out.VendorName = m.Vendor.Name
		}
		outs = append(outs, out)

		if out.IsAvailable {
			lines = append(lines, line)
		}
	}
	return lines, outs, nil
}

func (u *CartUsecase) buildCartOutput(ctx context.Context, userID int64) (CartOutput, error) {
	lines, items, err := u.loadLines(ctx, userID)
	if err != nil {
		return CartOutput{}, err
	}

	var count int64
	for _, it := range items {
		count += it.Quantity
	}

	subtotal := pricing.Subtotal(lines)
	fee := decimal.Zero
	if len(lines) > 0 {
		fee = u.serviceFee
	}

	return CartOutput{
		Items:      items,
		CartCount:  count,
		Subtotal:   money(subtotal),
		ServiceFee: money(fee),
		Total:      money(pricing.Total(subtotal, fee, decimal.Zero)),
	}, nil
}
