package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"
	"foodcourt/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	payments      repo.PaymentRepository
	pickups       repo.PickupRepository
	cartItems     repo.CartItemRepository
	vouchers      repo.VoucherRepository
	loyalty       repo.LoyaltyRepository
	notifications repo.NotificationRepository
	auditLogs     repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository               { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *TxReposMock) Payments() repo.PaymentRepository           { return r.payments }
func (r *TxReposMock) Pickups() repo.PickupRepository             { return r.pickups }
func (r *TxReposMock) CartItems() repo.CartItemRepository         { return r.cartItems }
func (r *TxReposMock) Vouchers() repo.VoucherRepository           { return r.vouchers }
func (r *TxReposMock) Loyalty() repo.LoyaltyRepository            { return r.loyalty }
func (r *TxReposMock) Notifications() repo.NotificationRepository { return r.notifications }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository         { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByVendor(ctx context.Context, f repo.VendorOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) ([]model.Order, error) {
	args := m.Called(ctx, userID, key)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p *model.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PaymentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.PaymentStatus, paidAt *time.Time) error {
	args := m.Called(ctx, orderID, status, paidAt)
	return args.Error(0)
}

type PickupRepoMock struct{ mock.Mock }

func (m *PickupRepoMock) NextQueueNumber(ctx context.Context, vendorID int64, day time.Time) (int64, error) {
	args := m.Called(ctx, vendorID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PickupRepoMock) Create(ctx context.Context, p *model.Pickup) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PickupRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Pickup, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.Pickup)
	return p, args.Error(1)
}

func (m *PickupRepoMock) UpdateStatusByOrderID(ctx context.Context, orderID int64, status model.PickupStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) ListByUserIDForUpdate(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) FindByUserAndMenuItem(ctx context.Context, userID, menuItemID int64) (model.CartItem, bool, error) {
	args := m.Called(ctx, userID, menuItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Bool(1), args.Error(2)
}

func (m *CartItemRepoMock) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	args := m.Called(ctx, item)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) Update(ctx context.Context, cartItemID int64, qty int64, specialRequest string) error {
	args := m.Called(ctx, cartItemID, qty, specialRequest)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartItemRepoMock) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type VoucherRepoMock struct{ mock.Mock }

func (m *VoucherRepoMock) FindByCode(ctx context.Context, userID int64, code string) (model.VoucherRedemption, error) {
	args := m.Called(ctx, userID, code)
	v, _ := args.Get(0).(model.VoucherRedemption)
	return v, args.Error(1)
}

func (m *VoucherRepoMock) FindByCodeForUpdate(ctx context.Context, userID int64, code string) (model.VoucherRedemption, error) {
	args := m.Called(ctx, userID, code)
	v, _ := args.Get(0).(model.VoucherRedemption)
	return v, args.Error(1)
}

func (m *VoucherRepoMock) MarkUsed(ctx context.Context, redemptionID int64, checkoutID string, usedAt time.Time) (bool, error) {
	args := m.Called(ctx, redemptionID, checkoutID, usedAt)
	return args.Bool(0), args.Error(1)
}

func (m *VoucherRepoMock) Create(ctx context.Context, v *model.VoucherRedemption) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VoucherRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.VoucherRedemption, error) {
	args := m.Called(ctx, userID)
	vs, _ := args.Get(0).([]model.VoucherRedemption)
	return vs, args.Error(1)
}

type LoyaltyRepoMock struct{ mock.Mock }

func (m *LoyaltyRepoMock) GetAccount(ctx context.Context, userID int64) (model.LoyaltyAccount, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(model.LoyaltyAccount)
	return a, args.Error(1)
}

func (m *LoyaltyRepoMock) AddPoints(ctx context.Context, userID int64, points int64, reason model.LoyaltyReason, reference string) (int64, error) {
	args := m.Called(ctx, userID, points, reason, reference)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LoyaltyRepoMock) DeductPointsIfEnough(ctx context.Context, userID int64, points int64, reason model.LoyaltyReason, reference string) (bool, error) {
	args := m.Called(ctx, userID, points, reason, reference)
	return args.Bool(0), args.Error(1)
}

func (m *LoyaltyRepoMock) ListTransactions(ctx context.Context, userID int64, limit int) ([]model.LoyaltyTransaction, error) {
	args := m.Called(ctx, userID, limit)
	txs, _ := args.Get(0).([]model.LoyaltyTransaction)
	return txs, args.Error(1)
}

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepoMock) List(ctx context.Context, f repo.NotificationListFilter) ([]model.Notification, int64, error) {
	args := m.Called(ctx, f)
	ns, _ := args.Get(0).([]model.Notification)
	return ns, args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepoMock) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, notificationID int64, userID int64, at time.Time) error {
	args := m.Called(ctx, notificationID, userID, at)
	return args.Error(0)
}

func (m *NotificationRepoMock) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type MenuRepoMock struct{ mock.Mock }

func (m *MenuRepoMock) ListAvailable(ctx context.Context, q repo.MenuListQuery) ([]model.MenuItem, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MenuRepoMock) FindByID(ctx context.Context, id int64) (model.MenuItem, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(model.MenuItem)
	return it, args.Error(1)
}

func (m *MenuRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.MenuItem, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Error(1)
}

type VendorRepoMock struct{ mock.Mock }

func (m *VendorRepoMock) List(ctx context.Context, openOnly bool) ([]model.Vendor, error) {
	args := m.Called(ctx, openOnly)
	vs, _ := args.Get(0).([]model.Vendor)
	return vs, args.Error(1)
}

func (m *VendorRepoMock) FindByID(ctx context.Context, vendorID int64) (model.Vendor, error) {
	args := m.Called(ctx, vendorID)
	v, _ := args.Get(0).(model.Vendor)
	return v, args.Error(1)
}

func (m *VendorRepoMock) FindByOwnerUserID(ctx context.Context, userID int64) (model.Vendor, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(model.Vendor)
	return v, args.Error(1)
}

type RewardRepoMock struct{ mock.Mock }

func (m *RewardRepoMock) ListActive(ctx context.Context) ([]model.Reward, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]model.Reward)
	return rs, args.Error(1)
}

func (m *RewardRepoMock) FindByID(ctx context.Context, rewardID int64) (model.Reward, error) {
	args := m.Called(ctx, rewardID)
	r, _ := args.Get(0).(model.Reward)
	return r, args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderEvents(ctx context.Context, events []model.OrderEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var (
	_ repo.OrderRepository        = (*OrderRepoMock)(nil)
	_ repo.OrderItemRepository    = (*OrderItemRepoMock)(nil)
	_ repo.PaymentRepository      = (*PaymentRepoMock)(nil)
	_ repo.PickupRepository       = (*PickupRepoMock)(nil)
	_ repo.CartItemRepository     = (*CartItemRepoMock)(nil)
	_ repo.VoucherRepository      = (*VoucherRepoMock)(nil)
	_ repo.LoyaltyRepository      = (*LoyaltyRepoMock)(nil)
	_ repo.NotificationRepository = (*NotificationRepoMock)(nil)
	_ repo.AuditLogRepository     = (*AuditRepoMock)(nil)
	_ repo.MenuRepository         = (*MenuRepoMock)(nil)
	_ repo.VendorRepository       = (*VendorRepoMock)(nil)
	_ repo.RewardRepository       = (*RewardRepoMock)(nil)
	_ usecase.OrderEventPublisher = (*PublisherMock)(nil)
	_ repo.TransactionManager     = (*TxManagerMock)(nil)
)

// =====================
// Clock / IDGenerator
// =====================

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedID struct{ id string }

func (g fixedID) NewID() string { return g.id }

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "want HTTPError, got %v", err) {
		assert.Equal(t, want, he.Status)
	}
}
