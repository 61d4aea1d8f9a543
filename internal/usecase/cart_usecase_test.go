package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"
	"foodcourt/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*usecase.CartUsecase, *CartItemRepoMock, *MenuRepoMock, *VoucherRepoMock) {
	cart := new(CartItemRepoMock)
	menu := new(MenuRepoMock)
	vouchers := new(VoucherRepoMock)
	engine := usecase.NewVoucherEngine(vouchers, fixedClock{now: testNow}, 30*24*time.Hour)
	return usecase.NewCartUsecase(cart, menu, engine, decimal.RequireFromString("2.00")), cart, menu, vouchers
}

var nasiLemak = model.MenuItem{
	ID:          11,
	VendorID:    1,
	Name:        "Nasi Lemak",
	Price:       decimal.RequireFromString("8.50"),
	IsAvailable: true,
	Vendor:      &model.Vendor{ID: 1, Name: "Mak Cik", IsOpen: true},
}

func TestCartUsecase_AddItem_NewLine(t *testing.T) {
	uc, cart, menu, _ := newCartFixture()

	menu.On("FindByID", mock.Anything, int64(11)).Return(nasiLemak, nil)
	cart.On("FindByUserAndMenuItem", mock.Anything, int64(1), int64(11)).Return(model.CartItem{}, false, nil)
	cart.On("Create", mock.Anything, mock.MatchedBy(func(it model.CartItem) bool {
		return it.UserID == 1 && it.Quantity == 2 && it.SpecialRequest == "no sambal"
	})).Return(model.CartItem{ID: 5}, nil)
	cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 5, UserID: 1, MenuItemID: 11, Quantity: 2, SpecialRequest: "no sambal"},
	}, nil)
	menu.On("FindByIDs", mock.Anything, []int64{11}).Return([]model.MenuItem{nasiLemak}, nil)

	out, err := uc.AddItem(context.Background(), 1, usecase.AddCartInput{MenuItemID: 11, Quantity: 2, SpecialRequest: "  no sambal "})
	require.NoError(t, err)

	assert.Equal(t, int64(2), out.CartCount)
	assert.Equal(t, "17.00", out.Subtotal)
	assert.Equal(t, "2.00", out.ServiceFee)
	assert.Equal(t, "19.00", out.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Mak Cik", out.Items[0].VendorName)
	cart.AssertExpectations(t)
}

func TestCartUsecase_AddItem_MergeOverMaxQuantity(t *testing.T) {
	uc, cart, menu, _ := newCartFixture()

	menu.On("FindByID", mock.Anything, int64(11)).Return(nasiLemak, nil)
	cart.On("FindByUserAndMenuItem", mock.Anything, int64(1), int64(11)).Return(model.CartItem{ID: 5, Quantity: 8}, true, nil)

	_, err := uc.AddItem(context.Background(), 1, usecase.AddCartInput{MenuItemID: 11, Quantity: 3})

	assertStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "maximum quantity per item is 10")
	cart.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddItem_MergeKeepsRequestWhenBlank(t *testing.T) {
	uc, cart, menu, _ := newCartFixture()

	menu.On("FindByID", mock.Anything, int64(11)).Return(nasiLemak, nil)
	cart.On("FindByUserAndMenuItem", mock.Anything, int64(1), int64(11)).
		Return(model.CartItem{ID: 5, Quantity: 8, SpecialRequest: "extra egg"}, true, nil)
	cart.On("Update", mock.Anything, int64(5), int64(10), "extra egg").Return(nil)
	cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil)

	_, err := uc.AddItem(context.Background(), 1, usecase.AddCartInput{MenuItemID: 11, Quantity: 2})

	require.NoError(t, err)
	cart.AssertExpectations(t)
}

func TestCartUsecase_AddItem_ValidationAndAvailability(t *testing.T) {
	uc, _, menu, _ := newCartFixture()

	_, err := uc.AddItem(context.Background(), 1, usecase.AddCartInput{MenuItemID: 11, Quantity: 11})
	assertStatus(t, err, http.StatusUnprocessableEntity)

	soldOut := nasiLemak
	soldOut.ID = 12
	soldOut.IsAvailable = false
	menu.On("FindByID", mock.Anything, int64(12)).Return(soldOut, nil)
	_, err = uc.AddItem(context.Background(), 1, usecase.AddCartInput{MenuItemID: 12, Quantity: 1})
	assertErrContains(t, err, "item unavailable")

	menu.On("FindByID", mock.Anything, int64(99)).Return(model.MenuItem{}, repo.ErrNotFound)
	_, err = uc.AddItem(context.Background(), 1, usecase.AddCartInput{MenuItemID: 99, Quantity: 1})
	assertStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_UpdateItem_OtherUsersLineIsNotFound(t *testing.T) {
	uc, cart, _, _ := newCartFixture()
	cart.On("FindByID", mock.Anything, int64(5)).Return(model.CartItem{ID: 5, UserID: 2}, nil)

	_, err := uc.UpdateItem(context.Background(), 1, 5, usecase.UpdateCartItemInput{Quantity: 3})

	assertStatus(t, err, http.StatusNotFound)
	cart.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_RemoveItem_OtherUsersLineIsNotFound(t *testing.T) {
	uc, cart, _, _ := newCartFixture()
	cart.On("FindByID", mock.Anything, int64(5)).Return(model.CartItem{ID: 5, UserID: 2}, nil)

	_, err := uc.RemoveItem(context.Background(), 1, 5)

	assertStatus(t, err, http.StatusNotFound)
	cart.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestCartUsecase_Clear_EmptyCartSucceeds(t *testing.T) {
	uc, cart, _, _ := newCartFixture()
	cart.On("DeleteByUserID", mock.Anything, int64(1)).Return(int64(0), nil)

	out, err := uc.Clear(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Removed)
	assert.Equal(t, int64(0), out.CartCount)
}

func TestCartUsecase_GetCart_ExcludesUnavailableFromTotals(t *testing.T) {
	uc, cart, menu, _ := newCartFixture()

	closed := model.MenuItem{
		ID: 21, VendorID: 2, Name: "Teh Tarik", Price: decimal.RequireFromString("3.00"), IsAvailable: true,
		Vendor: &model.Vendor{ID: 2, Name: "Ah Seng", IsOpen: false},
	}
	cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 5, MenuItemID: 11, Quantity: 1},
		{ID: 6, MenuItemID: 21, Quantity: 2},
	}, nil)
	menu.On("FindByIDs", mock.Anything, []int64{11, 21}).Return([]model.MenuItem{nasiLemak, closed}, nil)

	out, err := uc.GetCart(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(3), out.CartCount)
	assert.Equal(t, "8.50", out.Subtotal)
	assert.Equal(t, "10.50", out.Total)
	assert.False(t, out.Items[1].IsAvailable)
}

func TestCartUsecase_GetCart_EmptyHasNoServiceFee(t *testing.T) {
	uc, cart, _, _ := newCartFixture()
	cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil)

	out, err := uc.GetCart(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, out.Items)
	assert.Equal(t, "0.00", out.ServiceFee)
	assert.Equal(t, "0.00", out.Total)
}

func TestCartUsecase_ApplyVoucher_PercentageCapped(t *testing.T) {
	uc, cart, menu, vouchers := newCartFixture()

	item := nasiLemak
	item.Price = decimal.RequireFromString("50")
	cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{{ID: 5, MenuItemID: 11, Quantity: 2}}, nil)
	menu.On("FindByIDs", mock.Anything, []int64{11}).Return([]model.MenuItem{item}, nil)

	maxDisc := decimal.RequireFromString("15")
	vouchers.On("FindByCode", mock.Anything, int64(1), "RW-ABC123").Return(model.VoucherRedemption{
		ID: 7, UserID: 1, Code: "RW-ABC123", RedeemedAt: testNow.Add(-24 * time.Hour),
		Reward: &model.Reward{Type: model.RewardTypePercentage, Value: decimal.RequireFromString("20"), MaxDiscount: &maxDisc},
	}, nil)

	out, err := uc.ApplyVoucher(context.Background(), 1, " rw-abc123 ")
	require.NoError(t, err)

	assert.Equal(t, "100.00", out.Subtotal)
	assert.Equal(t, "15.00", out.Discount)
	assert.Equal(t, "87.00", out.Total)
	require.NotNil(t, out.Voucher)
	vouchers.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_ApplyVoucher_EmptyCart(t *testing.T) {
	uc, cart, _, _ := newCartFixture()
	cart.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil)

	_, err := uc.ApplyVoucher(context.Background(), 1, "RW-ABC123")

	assertErrContains(t, err, "cart is empty")
}
