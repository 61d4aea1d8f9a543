package repository

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/infra/db"
	"foodcourt/internal/infra/event"
	repo "foodcourt/internal/repository"
	"foodcourt/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 実DBに対する確認。TEST_DATABASE_DSN があるときだけ動かす
type PostgresSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
}

func TestPostgresSuite(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}
	suite.Run(t, &PostgresSuite{db: gdb})
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	s.Require().NoError(db.Migrate(s.db))
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(`TRUNCATE
users, refresh_tokens, vendors, menu_items, cart_items, orders, order_items, payments, pickups,
pickup_queue_counters, rewards, voucher_redemptions, loyalty_accounts, loyalty_transactions,
notifications, audit_logs RESTART IDENTITY CASCADE`).Error)
}

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

func (s *PostgresSuite) seedVendor(ownerID int64, name string, open bool) model.Vendor {
	v := model.Vendor{OwnerUserID: ownerID, Name: name, IsOpen: open}
	s.Require().NoError(s.db.Create(&v).Error)
	if !open {
		// default:true があるのでfalseは明示的に更新する
		s.Require().NoError(s.db.Model(&v).Update("is_open", false).Error)
	}
	return v
}

func (s *PostgresSuite) seedMenuItem(vendorID int64, name, price string) model.MenuItem {
	m := model.MenuItem{VendorID: vendorID, Name: name, Category: "rice", Price: decimal.RequireFromString(price), IsAvailable: true}
	s.Require().NoError(s.db.Create(&m).Error)
	return m
}

func (s *PostgresSuite) seedVoucher(userID int64, code string, redeemedAt time.Time) model.VoucherRedemption {
	r := model.Reward{
		Name: "RM10 off", Type: model.RewardTypeVoucher,
		Value: decimal.RequireFromString("10"), MinSpend: decimal.RequireFromString("20"),
		PointsRequired: 100, IsActive: true,
	}
	s.Require().NoError(s.db.Create(&r).Error)
	v := model.VoucherRedemption{UserID: userID, RewardID: r.ID, Code: code, RedeemedAt: redeemedAt}
	s.Require().NoError(s.db.Create(&v).Error)
	return v
}

func (s *PostgresSuite) TestQueueNumbersArePerVendorPerDay() {
	pickups := NewPickupGormRepository(s.db)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	for want := int64(1); want <= 3; want++ {
		n, err := pickups.NextQueueNumber(s.ctx, 1, day)
		s.Require().NoError(err)
		s.Equal(want, n)
	}

	other, err := pickups.NextQueueNumber(s.ctx, 2, day)
	s.Require().NoError(err)
	s.Equal(int64(1), other)

	nextDay, err := pickups.NextQueueNumber(s.ctx, 1, day.AddDate(0, 0, 1))
	s.Require().NoError(err)
	s.Equal(int64(1), nextDay)
}

func (s *PostgresSuite) TestVoucherMarkUsedOnlyOnce() {
	vouchers := NewVoucherGormRepository(s.db)
	v := s.seedVoucher(1, "RW-ONCE", time.Now())

	ok, err := vouchers.MarkUsed(s.ctx, v.ID, uuid.NewString(), time.Now())
	s.Require().NoError(err)
	s.True(ok)

	ok, err = vouchers.MarkUsed(s.ctx, v.ID, uuid.NewString(), time.Now())
	s.Require().NoError(err)
	s.False(ok)

	// 他人のコードは見つからない
	_, err = vouchers.FindByCode(s.ctx, 2, "RW-ONCE")
	s.ErrorIs(err, repo.ErrNotFound)
}

func (s *PostgresSuite) TestDuplicateVoucherCodeIsConflict() {
	vouchers := NewVoucherGormRepository(s.db)
	v := s.seedVoucher(1, "RW-DUP", time.Now())

	err := vouchers.Create(s.ctx, &model.VoucherRedemption{UserID: 2, RewardID: v.RewardID, Code: "RW-DUP", RedeemedAt: time.Now()})
	s.ErrorIs(err, repo.ErrConflict)
}

func (s *PostgresSuite) TestPointsNeverGoNegative() {
	loyalty := NewLoyaltyGormRepository(s.db)

	balance, err := loyalty.AddPoints(s.ctx, 1, 120, model.LoyaltyReasonCheckout, "c-1")
	s.Require().NoError(err)
	s.Equal(int64(120), balance)

	ok, err := loyalty.DeductPointsIfEnough(s.ctx, 1, 100, model.LoyaltyReasonRedeem, "RW-1")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = loyalty.DeductPointsIfEnough(s.ctx, 1, 100, model.LoyaltyReasonRedeem, "RW-2")
	s.Require().NoError(err)
	s.False(ok)

	acc, err := loyalty.GetAccount(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(20), acc.Points)

	txs, err := loyalty.ListTransactions(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Len(txs, 2)
}

func (s *PostgresSuite) TestCartLineIsUniquePerMenuItem() {
	v := s.seedVendor(100, "Mak Cik", true)
	m := s.seedMenuItem(v.ID, "Nasi Lemak", "8.50")
	cart := NewCartItemGormRepository(s.db)

	_, err := cart.Create(s.ctx, model.CartItem{UserID: 1, MenuItemID: m.ID, Quantity: 1})
	s.Require().NoError(err)

	_, err = cart.Create(s.ctx, model.CartItem{UserID: 1, MenuItemID: m.ID, Quantity: 2})
	s.ErrorIs(err, repo.ErrConflict)
}

// チェックアウト全体（按分・整理番号・バウチャー消費・ポイント・カート削除）
func (s *PostgresSuite) TestCheckoutEndToEnd() {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := stubClock{now: now}

	v1 := s.seedVendor(100, "Mak Cik", true)
	v2 := s.seedVendor(200, "Ah Seng", true)
	m1 := s.seedMenuItem(v1.ID, "Nasi Lemak", "30.00")
	m2 := s.seedMenuItem(v2.ID, "Teh Tarik", "10.00")
	s.seedVoucher(1, "RW-E2E", now.Add(-time.Hour))

	cart := NewCartItemGormRepository(s.db)
	fill := func() {
		_, err := cart.Create(s.ctx, model.CartItem{UserID: 1, MenuItemID: m1.ID, Quantity: 1})
		s.Require().NoError(err)
		_, err = cart.Create(s.ctx, model.CartItem{UserID: 1, MenuItemID: m2.ID, Quantity: 2})
		s.Require().NoError(err)
	}
	fill()

	notifications := NewNotificationGormRepository(s.db)
	vouchers := usecase.NewVoucherEngine(NewVoucherGormRepository(s.db), clock, 0)
	uc := usecase.NewOrderUsecase(
		NewTxManagerGorm(s.db), cart, NewMenuGormRepository(s.db), NewVendorGormRepository(s.db),
		vouchers, usecase.NewNotifier(notifications, zerolog.Nop()), event.NoopPublisher{},
		uuidGen{}, clock, decimal.RequireFromString("2.00"), zerolog.Nop(),
	)

	out, err := uc.Checkout(s.ctx, 1, usecase.CheckoutInput{PaymentMethod: "ewallet", VoucherCode: "rw-e2e", IdempotencyKey: "key-1"})
	s.Require().NoError(err)

	s.Equal("42.00", out.Total)
	s.Equal(int64(42), out.PointsEarned)
	s.Require().Len(out.Orders, 2)
	s.Equal("25.20", out.Orders[0].TotalPrice)
	s.Equal("16.80", out.Orders[1].TotalPrice)
	for _, o := range out.Orders {
		s.Require().NotNil(o.Pickup)
		s.Equal(int64(1), o.Pickup.QueueNumber)
		s.Equal("paid", o.Payment.Status)
	}

	var left int64
	s.Require().NoError(s.db.Model(&model.CartItem{}).Where("user_id = ?", 1).Count(&left).Error)
	s.Zero(left)

	acc, err := NewLoyaltyGormRepository(s.db).GetAccount(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(42), acc.Points)

	// 同じキーの再送は同じチェックアウト
	again, err := uc.Checkout(s.ctx, 1, usecase.CheckoutInput{PaymentMethod: "ewallet", VoucherCode: "rw-e2e", IdempotencyKey: "key-1"})
	s.Require().NoError(err)
	s.True(again.Replayed)
	s.Equal(out.CheckoutID, again.CheckoutID)

	// バウチャーは使用済み
	fill()
	_, err = uc.Checkout(s.ctx, 1, usecase.CheckoutInput{PaymentMethod: "cash", VoucherCode: "RW-E2E"})
	he, ok := usecase.AsHTTPError(err)
	s.Require().True(ok)
	s.Equal(http.StatusBadRequest, he.Status)

	// バウチャーなしなら通り、整理番号は2番
	second, err := uc.Checkout(s.ctx, 1, usecase.CheckoutInput{PaymentMethod: "cash"})
	s.Require().NoError(err)
	s.Equal(int64(2), second.Orders[0].Pickup.QueueNumber)
	s.Equal("pending", second.Orders[0].Payment.Status)

	unread, err := notifications.CountUnread(s.ctx, 100)
	s.Require().NoError(err)
	s.Equal(int64(2), unread)
}

func (s *PostgresSuite) TestUserEmailConflictAndTokenVersion() {
	users := NewUserGormRepository(s.db)

	u := &model.User{Name: "Aina", Email: "aina@example.com", PasswordHash: "x", Role: model.RoleCustomer}
	s.Require().NoError(users.Create(s.ctx, u))
	dup := &model.User{Name: "Aina 2", Email: "aina@example.com", PasswordHash: "x", Role: model.RoleCustomer}
	s.ErrorIs(users.Create(s.ctx, dup), repo.ErrConflict)

	got, err := users.FindByEmail(s.ctx, " AINA@example.com ")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	s.Require().NoError(users.IncrementTokenVersion(s.ctx, u.ID))
	got, err = users.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(1, got.TokenVersion)

	s.ErrorIs(users.IncrementTokenVersion(s.ctx, 9999), repo.ErrUserNotFound)
	_, err = users.FindByID(s.ctx, 9999)
	s.ErrorIs(err, repo.ErrUserNotFound)
}

func (s *PostgresSuite) TestRefreshTokenMarkUsedOnceAndRevokeAll() {
	users := NewUserGormRepository(s.db)
	tokens := NewRefreshTokenGormRepository(s.db)
	now := time.Now().UTC()

	u := &model.User{Name: "Ben", Email: "ben@example.com", PasswordHash: "x", Role: model.RoleCustomer}
	s.Require().NoError(users.Create(s.ctx, u))

	t1 := &model.RefreshToken{ID: uuid.NewString(), UserID: u.ID, TokenHash: "h1", ExpiresAt: now.Add(time.Hour)}
	t2 := &model.RefreshToken{ID: uuid.NewString(), UserID: u.ID, TokenHash: "h2", ExpiresAt: now.Add(time.Hour)}
	s.Require().NoError(tokens.Create(s.ctx, t1))
	s.Require().NoError(tokens.Create(s.ctx, t2))

	s.NoError(tokens.MarkUsed(s.ctx, t1.ID, now))
	s.ErrorIs(tokens.MarkUsed(s.ctx, t1.ID, now), repo.ErrRefreshTokenNotFound)

	s.Require().NoError(tokens.RevokeAllByUserID(s.ctx, u.ID, now))
	got, err := tokens.FindByTokenHash(s.ctx, "h2")
	s.Require().NoError(err)
	s.NotNil(got.RevokedAt)
	s.False(got.IsActive(now))
	s.ErrorIs(tokens.MarkUsed(s.ctx, t2.ID, now), repo.ErrRefreshTokenNotFound)

	_, err = tokens.FindByTokenHash(s.ctx, "missing")
	s.ErrorIs(err, repo.ErrRefreshTokenNotFound)
}

// ロック付きで読んだカートは別Txからの数量変更を待たせる
func (s *PostgresSuite) TestCartRowsLockedDuringCheckoutRead() {
	v := s.seedVendor(100, "Mak Cik", true)
	m := s.seedMenuItem(v.ID, "Nasi Lemak", "8.50")
	carts := NewCartItemGormRepository(s.db)
	item, err := carts.Create(s.ctx, model.CartItem{UserID: 1, MenuItemID: m.ID, Quantity: 1})
	s.Require().NoError(err)

	tm := NewTxManagerGorm(s.db)
	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- tm.WithinTx(s.ctx, func(r repo.TxRepos) error {
			rows, err := r.CartItems().ListByUserIDForUpdate(s.ctx, 1)
			if err != nil {
				return err
			}
			if len(rows) != 1 {
				return repo.ErrNotFound
			}
			close(locked)
			<-release
			return nil
		})
	}()
	select {
	case <-locked:
	case err := <-done:
		s.FailNow("locking read failed", "%v", err)
	}

	updated := make(chan error, 1)
	go func() { updated <- carts.Update(s.ctx, item.ID, 4, "") }()

	select {
	case <-updated:
		s.Fail("update should wait for the row lock")
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	s.Require().NoError(<-done)
	s.Require().NoError(<-updated)

	got, err := carts.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(int64(4), got.Quantity)
}
