package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"
	"foodcourt/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type vendorOrderFixture struct {
	tx        *TxManagerMock
	vendors   *VendorRepoMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	payments  *PaymentRepoMock
	pickups   *PickupRepoMock
	audit     *AuditRepoMock
	notes     *NotificationRepoMock
	publisher *PublisherMock
	uc        *usecase.VendorOrderUsecase
}

func newVendorOrderFixture() *vendorOrderFixture {
	f := &vendorOrderFixture{
		tx:        new(TxManagerMock),
		vendors:   new(VendorRepoMock),
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		payments:  new(PaymentRepoMock),
		pickups:   new(PickupRepoMock),
		audit:     new(AuditRepoMock),
		notes:     new(NotificationRepoMock),
		publisher: new(PublisherMock),
	}
	f.tx.Repos = &TxReposMock{
		orders:     f.orders,
		orderItems: f.items,
		payments:   f.payments,
		pickups:    f.pickups,
		auditLogs:  f.audit,
	}
	f.uc = usecase.NewVendorOrderUsecase(f.tx, f.vendors, usecase.NewNotifier(f.notes, zerolog.Nop()),
		f.publisher, fixedClock{now: testNow}, zerolog.Nop())

	f.vendors.On("FindByOwnerUserID", mock.Anything, int64(500)).Return(model.Vendor{ID: 1, OwnerUserID: 500, Name: "Mak Cik"}, nil)
	return f
}

// 更新後の詳細読み込み
func (f *vendorOrderFixture) givenDetail(orderID int64, p model.Payment) {
	f.items.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{}, nil)
	f.payments.On("FindByOrderID", mock.Anything, orderID).Return(p, nil)
	f.pickups.On("FindByOrderID", mock.Anything, orderID).Return(model.Pickup{}, repo.ErrNotFound)
}

func TestVendorOrderUsecase_List_NoVendorProfile(t *testing.T) {
	f := newVendorOrderFixture()
	f.vendors.On("FindByOwnerUserID", mock.Anything, int64(9)).Return(model.Vendor{}, repo.ErrNotFound)

	_, err := f.uc.List(context.Background(), 9, usecase.VendorOrderListInput{Page: 1, Limit: 20})

	assertStatus(t, err, http.StatusForbidden)
}

func TestVendorOrderUsecase_List_InvalidStatus(t *testing.T) {
	f := newVendorOrderFixture()

	_, err := f.uc.List(context.Background(), 500, usecase.VendorOrderListInput{Status: "shipped", Page: 1, Limit: 20})

	assertErrContains(t, err, "invalid status")
}

func TestVendorOrderUsecase_List_FiltersByOwnVendor(t *testing.T) {
	f := newVendorOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	filter := repo.VendorOrderListFilter{VendorID: 1, Status: "pending", Page: 1, Limit: 50}
	f.orders.On("ListByVendor", mock.Anything, filter).Return([]model.Order{
		{ID: 10, VendorID: 1, Status: model.OrderStatusPending},
	}, int64(1), nil)
	f.givenDetail(10, model.Payment{Status: model.PaymentStatusPending})

	out, err := f.uc.List(context.Background(), 500, usecase.VendorOrderListInput{Status: "pending", Page: 1, Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "pending", out.Items[0].Payment.Status)
	f.orders.AssertExpectations(t)
}

func TestVendorOrderUsecase_UpdateStatus_OtherVendorsOrderIsNotFound(t *testing.T) {
	f := newVendorOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(10)).Return(model.Order{ID: 10, VendorID: 2, Status: model.OrderStatusPending}, nil)

	_, err := f.uc.UpdateStatus(context.Background(), 500, 10, usecase.VendorUpdateOrderStatusInput{Status: "accepted"})

	assertStatus(t, err, http.StatusNotFound)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_RejectsSkippingSteps(t *testing.T) {
	f := newVendorOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(10)).Return(model.Order{ID: 10, VendorID: 1, Status: model.OrderStatusPending}, nil)

	_, err := f.uc.UpdateStatus(context.Background(), 500, 10, usecase.VendorUpdateOrderStatusInput{Status: "completed"})

	assertStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "cannot change status from pending to completed")
}

func TestVendorOrderUsecase_UpdateStatus_SameStatusIsNoop(t *testing.T) {
	f := newVendorOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(10)).Return(model.Order{ID: 10, VendorID: 1, Status: model.OrderStatusReady}, nil)
	f.givenDetail(10, model.Payment{Status: model.PaymentStatusPaid})

	out, err := f.uc.UpdateStatus(context.Background(), 500, 10, usecase.VendorUpdateOrderStatusInput{Status: "ready"})
	require.NoError(t, err)

	assert.Equal(t, "ready", out.Status)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOrderEvents", mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_CompletedCollectsCashPayment(t *testing.T) {
	f := newVendorOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	order := model.Order{ID: 10, UserID: 42, VendorID: 1, Status: model.OrderStatusReady}
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(10)).Return(order, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(10), model.OrderStatusCompleted).Return(nil)
	f.pickups.On("UpdateStatusByOrderID", mock.Anything, int64(10), model.PickupStatusCollected).Return(nil)
	f.givenDetail(10, model.Payment{OrderID: 10, Method: model.PaymentMethodCash, Status: model.PaymentStatusPending})
	f.payments.On("UpdateStatus", mock.Anything, int64(10), model.PaymentStatusPaid, mock.MatchedBy(func(at *time.Time) bool {
		return at != nil && at.Equal(testNow)
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 500 && l.Action == model.AuditActionUpdateOrderStatus && l.ResourceID == 10
	})).Return(nil)
	f.notes.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.UserID == 42 && n.Type == model.NotificationOrderStatus
	})).Return(nil)
	f.publisher.On("PublishOrderEvents", mock.Anything, mock.MatchedBy(func(evs []model.OrderEvent) bool {
		return len(evs) == 1 && evs[0].Type == model.OrderEventStatusChanged && evs[0].Status == model.OrderStatusCompleted
	})).Return(nil)

	out, err := f.uc.UpdateStatus(context.Background(), 500, 10, usecase.VendorUpdateOrderStatusInput{Status: " completed "})
	require.NoError(t, err)

	assert.Equal(t, "completed", out.Status)
	f.payments.AssertExpectations(t)
	f.pickups.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	f.notes.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestVendorOrderUsecase_UpdateStatus_NotificationFailureDoesNotFail(t *testing.T) {
	f := newVendorOrderFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIDForUpdate", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 42, VendorID: 1, Status: model.OrderStatusPending}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(10), model.OrderStatusAccepted).Return(nil)
	f.givenDetail(10, model.Payment{Status: model.PaymentStatusPaid})
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.notes.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)
	f.publisher.On("PublishOrderEvents", mock.Anything, mock.Anything).Return(assert.AnError)

	out, err := f.uc.UpdateStatus(context.Background(), 500, 10, usecase.VendorUpdateOrderStatusInput{Status: "accepted"})

	require.NoError(t, err)
	assert.Equal(t, "accepted", out.Status)
}
