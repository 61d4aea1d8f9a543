package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/domain/pricing"
	repo "foodcourt/internal/repository"
	"foodcourt/internal/validator"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// 並行した変更でカートがチェックアウト中に変わった
const msgCartChanged = "cart changed, please retry"

type OrderUsecase struct {
	tx         repo.TransactionManager
	cartItems  repo.CartItemRepository
	menu       repo.MenuRepository
	vendors    repo.VendorRepository
	vouchers   *VoucherEngine
	notifier   *Notifier
	events     OrderEventPublisher
	idGen      IDGenerator
	clock      Clock
	serviceFee decimal.Decimal
	log        zerolog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	cartItems repo.CartItemRepository,
	menu repo.MenuRepository,
	vendors repo.VendorRepository,
	vouchers *VoucherEngine,
	notifier *Notifier,
	events OrderEventPublisher,
	idGen IDGenerator,
	clock Clock,
	serviceFee decimal.Decimal,
	log zerolog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		cartItems:  cartItems,
		menu:       menu,
		vendors:    vendors,
		vouchers:   vouchers,
		notifier:   notifier,
		events:     events,
		idGen:      idGen,
		clock:      clock,
		serviceFee: serviceFee,
		log:        log,
	}
}

type CheckoutInput struct {
	PaymentMethod  string
	VoucherCode    string
	Notes          string
	IdempotencyKey string
}

type OrderItemOutput struct {
	MenuItemID     int64  `json:"menu_item_id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	Quantity       int64  `json:"quantity"`
	SpecialRequest string `json:"special_request"`
	LineTotal      string `json:"line_total"`
}

type PaymentOutput struct {
	Method string     `json:"method"`
	Status string     `json:"status"`
	Amount string     `json:"amount"`
	PaidAt *time.Time `json:"paid_at"`
}

type PickupOutput struct {
	QueueNumber int64  `json:"queue_number"`
	QueueDate   string `json:"queue_date"`
	Status      string `json:"status"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	CheckoutID    string            `json:"checkout_id"`
	UserID        int64             `json:"user_id"`
	VendorID      int64             `json:"vendor_id"`
	Status        string            `json:"status"`
	PaymentMethod string            `json:"payment_method"`
	Subtotal      string            `json:"subtotal"`
	ServiceFee    string            `json:"service_fee"`
	Discount      string            `json:"discount"`
	TotalPrice    string            `json:"total_price"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
	Payment       *PaymentOutput    `json:"payment,omitempty"`
	Pickup        *PickupOutput     `json:"pickup,omitempty"`
}

type CheckoutOutput struct {
	CheckoutID   string        `json:"checkout_id"`
	Orders       []OrderOutput `json:"orders"`
	Subtotal     string        `json:"subtotal"`
	ServiceFee   string        `json:"service_fee"`
	Discount     string        `json:"discount"`
	Total        string        `json:"total"`
	PointsEarned int64         `json:"points_earned"`
	// 同じIdempotency-Keyの再送で、既存の結果を返したとき
	Replayed bool `json:"-"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 注文1件分の作成材料
type vendorOrderDraft struct {
	share       pricing.VendorShare
	ownerUserID int64
	vendorName  string
	items       []model.OrderItem
}

// Checkout はカートを出店者ごとの注文に分けて、1つのTxで注文・明細・支払い・受け取りを作る。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, errUnauthorized
	}

	method, validMethod := model.ParsePaymentMethod(strings.TrimSpace(in.PaymentMethod))
	in.Notes = strings.TrimSpace(in.Notes)
	if errs := validator.ValidateCheckout(in.PaymentMethod, in.VoucherCode, in.Notes, validMethod); !errs.Empty() {
		return CheckoutOutput{}, NewValidationError(errs)
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency key")
	}

	// 同じキーなら同じ結果
	if key != "" {
		out, found, err := u.findReplay(ctx, userID, key)
		if err != nil {
			return CheckoutOutput{}, err
		}
		if found {
			return out, nil
		}
	}

	cartItems, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CheckoutOutput{}, NewInternalError(err)
	}
	if len(cartItems) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	lines, drafts, err := u.prepare(ctx, cartItems)
	if err != nil {
		return CheckoutOutput{}, err
	}
	subtotal := pricing.Subtotal(lines)

	checkoutID := u.idGen.NewID()
	now := u.clock.Now()
	queueDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	voucherCode := NormalizeVoucherCode(in.VoucherCode)

	var out CheckoutOutput
	var events []model.OrderEvent

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カートを行ロックして読み直す。Tx前に読んだ内容と違えば数量変更などが割り込んでいる
		locked, err := r.CartItems().ListByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if !sameCart(locked, cartItems) {
			return NewHTTPError(http.StatusConflict, msgCartChanged)
		}

		//バウチャー（行ロックして読む）
		discount := decimal.Zero
		var voucher model.VoucherRedemption
		if voucherCode != "" {
			v, err := r.Vouchers().FindByCodeForUpdate(ctx, userID, voucherCode)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, msgVoucherInvalid)
			}
			if err != nil {
				return err
			}
			discount, err = u.vouchers.Evaluate(v, subtotal)
			if err != nil {
				return err
			}
			voucher = v
		}

		breakdown := pricing.Split(lines, u.serviceFee, discount)

		out = CheckoutOutput{
			CheckoutID: checkoutID,
			Orders:     make([]OrderOutput, 0, len(breakdown.Vendors)),
			Subtotal:   money(breakdown.Subtotal),
			ServiceFee: money(breakdown.ServiceFee),
			Discount:   money(breakdown.Discount),
			Total:      money(breakdown.Total),
		}
		events = events[:0]

		for _, share := range breakdown.Vendors {
			d := drafts[share.VendorID]
			d.share = share

			o, err := u.createVendorOrder(ctx, r, userID, checkoutID, key, method, in.Notes, queueDay, now, d)
			if err != nil {
				return err
			}
			out.Orders = append(out.Orders, o)
			events = append(events, model.OrderEvent{
				Type:       model.OrderEventPlaced,
				OrderID:    o.ID,
				CheckoutID: checkoutID,
				UserID:     userID,
				VendorID:   share.VendorID,
				Status:     model.OrderStatusPending,
				Total:      share.Total,
				OccurredAt: now,
			})
		}

		//割引が出たときだけ使用済みにする（is_used=falseの行だけ更新）
		if breakdown.Discount.IsPositive() {
			ok, err := r.Vouchers().MarkUsed(ctx, voucher.ID, checkoutID, now)
			if err != nil {
				return err
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, msgVoucherUsed)
			}
		}

		//ポイント付与（合計の切り捨て）
		points := pricing.LoyaltyPoints(breakdown.Total)
		if points > 0 {
			if _, err := r.Loyalty().AddPoints(ctx, userID, points, model.LoyaltyReasonCheckout, checkoutID); err != nil {
				return err
			}
			n, err := buildNotification(userID, model.NotificationPointsEarned,
				"Points earned",
				fmt.Sprintf("You earned %d points from your order.", points),
				map[string]interface{}{"checkout_id": checkoutID, "points": points})
			if err != nil {
				return err
			}
			if err := r.Notifications().Create(ctx, &n); err != nil {
				return err
			}
		}
		out.PointsEarned = points

		//カートを空にする。読んだ件数と違えば別のチェックアウトが先に進んでいる
		removed, err := r.CartItems().DeleteByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if removed != int64(len(cartItems)) {
			return NewHTTPError(http.StatusConflict, msgCartChanged)
		}
		return nil
	})
	if err != nil {
		if he, ok := AsHTTPError(err); ok {
			if he.Status >= http.StatusInternalServerError {
				u.log.Error().Err(err).Int64("user_id", userID).Msg("checkout rolled back")
			}
			return CheckoutOutput{}, err
		}
		u.log.Error().Err(err).Int64("user_id", userID).Msg("checkout rolled back")
		return CheckoutOutput{}, NewInternalError(err)
	}

	u.publish(ctx, events)
	return out, nil
}

func sameCart(a, b []model.CartItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			a[i].MenuItemID != b[i].MenuItemID ||
			a[i].Quantity != b[i].Quantity ||
			a[i].SpecialRequest != b[i].SpecialRequest {
			return false
		}
	}
	return true
}

// メニューの現在価格で計算材料を作る。提供停止・閉店中があればTx前に400
func (u *OrderUsecase) prepare(ctx context.Context, cartItems []model.CartItem) ([]pricing.Line, map[int64]*vendorOrderDraft, error) {
	ids := make([]int64, 0, len(cartItems))
	for _, ci := range cartItems {
		ids = append(ids, ci.MenuItemID)
	}
	menuItems, err := u.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, NewInternalError(err)
	}
	byID := make(map[int64]model.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	lines := make([]pricing.Line, 0, len(cartItems))
	drafts := map[int64]*vendorOrderDraft{}

	for _, ci := range cartItems {
		m, ok := byID[ci.MenuItemID]
		if !ok || !m.IsAvailable {
			return nil, nil, NewHTTPError(http.StatusBadRequest, "item unavailable")
		}

		d, ok := drafts[m.VendorID]
		if !ok {
			vendor := m.Vendor
			if vendor == nil {
				v, err := u.vendors.FindByID(ctx, m.VendorID)
				if err != nil {
					return nil, nil, NewInternalError(err)
				}
				vendor = &v
			}
			if !vendor.IsOpen {
				return nil, nil, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("vendor closed: %s", vendor.Name))
			}
			d = &vendorOrderDraft{ownerUserID: vendor.OwnerUserID, vendorName: vendor.Name}
			drafts[m.VendorID] = d
		}

		lines = append(lines, pricing.Line{VendorID: m.VendorID, UnitPrice: m.Price, Quantity: ci.Quantity})
		//スナップショット
		d.items = append(d.items, model.OrderItem{
			MenuItemID:        m.ID,
			NameSnapshot:      m.Name,
			UnitPriceSnapshot: m.Price,
			Quantity:          ci.Quantity,
			SpecialRequest:    ci.SpecialRequest,
		})
	}
	return lines, drafts, nil
}

// 出店者1件分の注文・明細・支払い・受け取り・出店者への通知
func (u *OrderUsecase) createVendorOrder(
	ctx context.Context,
	r repo.TxRepos,
	userID int64,
	checkoutID, key string,
	method model.PaymentMethod,
	notes string,
	queueDay, now time.Time,
	d *vendorOrderDraft,
) (OrderOutput, error) {
	order := model.Order{
		UserID:         userID,
		VendorID:       d.share.VendorID,
		CheckoutID:     checkoutID,
		Subtotal:       d.share.Subtotal,
		ServiceFee:     d.share.ServiceFee,
		Discount:       d.share.Discount,
		TotalPrice:     d.share.Total,
		Status:         model.OrderStatusPending,
		PaymentMethod:  method,
		Notes:          notes,
		IdempotencyKey: key,
	}
	if err := r.Orders().Create(ctx, &order); err != nil {
		return OrderOutput{}, err
	}

	items := make([]model.OrderItem, len(d.items))
	copy(items, d.items)
	if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
		return OrderOutput{}, err
	}

	payment := model.Payment{
		OrderID: order.ID,
		Amount:  order.TotalPrice,
		Method:  method,
		Status:  model.InitialPaymentStatus(method),
	}
	if payment.Status == model.PaymentStatusPaid {
		paidAt := now
		payment.PaidAt = &paidAt
	}
	if err := r.Payments().Create(ctx, &payment); err != nil {
		return OrderOutput{}, err
	}

	queueNo, err := r.Pickups().NextQueueNumber(ctx, order.VendorID, queueDay)
	if err != nil {
		return OrderOutput{}, err
	}
	pickup := model.Pickup{
		OrderID:     order.ID,
		VendorID:    order.VendorID,
		QueueDate:   queueDay,
		QueueNumber: queueNo,
		Status:      model.PickupStatusWaiting,
	}
	if err := r.Pickups().Create(ctx, &pickup); err != nil {
		return OrderOutput{}, err
	}

	n, err := buildNotification(d.ownerUserID, model.NotificationOrderPlaced,
		"New order",
		fmt.Sprintf("Order #%d received (queue %d, RM%s).", order.ID, queueNo, money(order.TotalPrice)),
		map[string]interface{}{"order_id": order.ID, "queue_number": queueNo})
	if err != nil {
		return OrderOutput{}, err
	}
	if err := r.Notifications().Create(ctx, &n); err != nil {
		return OrderOutput{}, err
	}

	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	return toOrderOutput(order, items, &payment, &pickup), nil
}

// 既に同じキーで作られた注文があれば、その結果を組み立てる
func (u *OrderUsecase) findReplay(ctx context.Context, userID int64, key string) (CheckoutOutput, bool, error) {
	var out CheckoutOutput
	var found bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}
		found = true

		subtotal, fee, discount, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
		out = CheckoutOutput{
			CheckoutID: orders[0].CheckoutID,
			Orders:     make([]OrderOutput, 0, len(orders)),
			Replayed:   true,
		}
		for _, o := range orders {
			detail, err := loadOrderDetail(ctx, r, o)
			if err != nil {
				return err
			}
			out.Orders = append(out.Orders, detail)
			subtotal = subtotal.Add(o.Subtotal)
			fee = fee.Add(o.ServiceFee)
			discount = discount.Add(o.Discount)
			total = total.Add(o.TotalPrice)
		}
		out.Subtotal = money(subtotal)
		out.ServiceFee = money(fee)
		out.Discount = money(discount)
		out.Total = money(total)
		out.PointsEarned = pricing.LoyaltyPoints(total)
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, false, NewInternalError(err)
	}
	return out, found, nil
}

func (u *OrderUsecase) publish(ctx context.Context, events []model.OrderEvent) {
	if u.events == nil || len(events) == 0 {
		return
	}
	if err := u.events.PublishOrderEvents(ctx, events); err != nil {
		u.log.Warn().Err(err).Int("events", len(events)).Msg("order event publish failed")
	}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, errUnauthorized
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	out := OrderListOutput{Page: page, Limit: limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return err
		}
		out.Total = total
		out.Items = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, toOrderOutput(o, items, nil, nil))
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, NewInternalError(err)
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized
	}
	if orderID <= 0 {
		return OrderOutput{}, errInvalidID
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound
		}
		if err != nil {
			return err
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return errNotFound
		}

		out, err = loadOrderDetail(ctx, r, o)
		return err
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		return OrderOutput{}, NewInternalError(err)
	}
	return out, nil
}

// 受付前（pending）の注文だけ取り消せる
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized
	}
	if orderID <= 0 {
		return OrderOutput{}, errInvalidID
	}

	now := u.clock.Now()
	var out OrderOutput
	var cancelled model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound
		}
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return errNotFound
		}
		if o.Status != model.OrderStatusPending {
			return NewHTTPError(http.StatusBadRequest, "only pending orders can be cancelled")
		}

		if err := applyOrderStatus(ctx, r, o, model.OrderStatusCancelled, now); err != nil {
			return err
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  userID,
			Action:       model.AuditActionCancelOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
			BeforeJSON:   statusJSON(o.Status),
			AfterJSON:    statusJSON(model.OrderStatusCancelled),
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		o.Status = model.OrderStatusCancelled
		cancelled = o
		out, err = loadOrderDetail(ctx, r, o)
		return err
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		return OrderOutput{}, NewInternalError(err)
	}

	if vendor, err := u.vendors.FindByID(ctx, cancelled.VendorID); err == nil {
		u.notifier.Notify(ctx, vendor.OwnerUserID, model.NotificationOrderStatus,
			"Order cancelled",
			fmt.Sprintf("Order #%d was cancelled by the customer.", cancelled.ID),
			map[string]interface{}{"order_id": cancelled.ID, "status": cancelled.Status})
	} else {
		u.log.Warn().Err(err).Int64("order_id", cancelled.ID).Msg("vendor lookup for cancel notification failed")
	}

	u.publish(ctx, []model.OrderEvent{statusEvent(cancelled, now)})
	return out, nil
}

// 注文ステータスの更新と、受け取り・支払いの連動
func applyOrderStatus(ctx context.Context, r repo.TxRepos, o model.Order, to model.OrderStatus, now time.Time) error {
	if err := r.Orders().UpdateStatus(ctx, o.ID, to); err != nil {
		return err
	}

	if ps, ok := model.PickupStatusFor(to); ok {
		if err := r.Pickups().UpdateStatusByOrderID(ctx, o.ID, ps); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}
	}

	p, err := r.Payments().FindByOrderID(ctx, o.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case to == model.OrderStatusCancelled && p.Status == model.PaymentStatusPaid:
		return r.Payments().UpdateStatus(ctx, o.ID, model.PaymentStatusRefunded, nil)
	case to == model.OrderStatusCancelled && p.Status == model.PaymentStatusPending:
		return r.Payments().UpdateStatus(ctx, o.ID, model.PaymentStatusCancelled, nil)
	case to == model.OrderStatusCompleted && p.Status == model.PaymentStatusPending:
		// 現金は受け取り時に支払い済み
		return r.Payments().UpdateStatus(ctx, o.ID, model.PaymentStatusPaid, &now)
	}
	return nil
}

func loadOrderDetail(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, err
	}

	var payment *model.Payment
	p, err := r.Payments().FindByOrderID(ctx, o.ID)
	switch {
	case err == nil:
		payment = &p
	case !errors.Is(err, repo.ErrNotFound):
		return OrderOutput{}, err
	}

	var pickup *model.Pickup
	pk, err := r.Pickups().FindByOrderID(ctx, o.ID)
	switch {
	case err == nil:
		pickup = &pk
	case !errors.Is(err, repo.ErrNotFound):
		return OrderOutput{}, err
	}

	return toOrderOutput(o, items, payment, pickup), nil
}

func statusJSON(s model.OrderStatus) string {
	return `{"status":"` + string(s) + `"}`
}

func statusEvent(o model.Order, now time.Time) model.OrderEvent {
	return model.OrderEvent{
		Type:       model.OrderEventStatusChanged,
		OrderID:    o.ID,
		CheckoutID: o.CheckoutID,
		UserID:     o.UserID,
		VendorID:   o.VendorID,
		Status:     o.Status,
		Total:      o.TotalPrice,
		OccurredAt: now,
	}
}

func toOrderOutput(o model.Order, items []model.OrderItem, p *model.Payment, pk *model.Pickup) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			MenuItemID:     it.MenuItemID,
			Name:           it.NameSnapshot,
			Price:          money(it.UnitPriceSnapshot),
			Quantity:       it.Quantity,
			SpecialRequest: it.SpecialRequest,
			LineTotal:      money(it.LineTotal()),
		})
	}

	out := OrderOutput{
		ID:            o.ID,
		CheckoutID:    o.CheckoutID,
		UserID:        o.UserID,
		VendorID:      o.VendorID,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		Subtotal:      money(o.Subtotal),
		ServiceFee:    money(o.ServiceFee),
		Discount:      money(o.Discount),
		TotalPrice:    money(o.TotalPrice),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
	if p != nil {
		out.Payment = &PaymentOutput{
			Method: string(p.Method),
			Status: string(p.Status),
			Amount: money(p.Amount),
			PaidAt: p.PaidAt,
		}
	}
	if pk != nil {
		out.Pickup = &PickupOutput{
			QueueNumber: pk.QueueNumber,
			QueueDate:   pk.QueueDate.Format("2006-01-02"),
			Status:      string(pk.Status),
		}
	}
	return out
}
