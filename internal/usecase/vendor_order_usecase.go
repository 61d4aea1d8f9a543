package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"github.com/rs/zerolog"
)

// 出店者側の注文管理
type VendorOrderUsecase struct {
	tx       repo.TransactionManager
	vendors  repo.VendorRepository
	notifier *Notifier
	events   OrderEventPublisher
	clock    Clock
	log      zerolog.Logger
}

func NewVendorOrderUsecase(
	tx repo.TransactionManager,
	vendors repo.VendorRepository,
	notifier *Notifier,
	events OrderEventPublisher,
	clock Clock,
	log zerolog.Logger,
) *VendorOrderUsecase {
	return &VendorOrderUsecase{
		tx:       tx,
		vendors:  vendors,
		notifier: notifier,
		events:   events,
		clock:    clock,
		log:      log,
	}
}

type VendorOrderListInput struct {
	Status string
	Page   int
	Limit  int
}

type VendorUpdateOrderStatusInput struct {
	Status string
}

// ログインユーザーの店舗。持っていなければ403
func (u *VendorOrderUsecase) ownVendor(ctx context.Context, userID int64) (model.Vendor, error) {
	if userID <= 0 {
		return model.Vendor{}, errUnauthorized
	}
	v, err := u.vendors.FindByOwnerUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Vendor{}, NewHTTPError(http.StatusForbidden, "vendor profile not found")
	}
	if err != nil {
		return model.Vendor{}, NewInternalError(err)
	}
	return v, nil
}

// 自店舗の注文一覧
func (u *VendorOrderUsecase) List(ctx context.Context, userID int64, in VendorOrderListInput) (OrderListOutput, error) {
	// page/limitの最低限チェック
	if in.Page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	status := strings.TrimSpace(in.Status)
	if status != "" {
		if _, ok := model.ParseOrderStatus(status); !ok {
			return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	vendor, err := u.ownVendor(ctx, userID)
	if err != nil {
		return OrderListOutput{}, err
	}

	out := OrderListOutput{Page: in.Page, Limit: in.Limit}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByVendor(ctx, repo.VendorOrderListFilter{
			VendorID: vendor.ID,
			Status:   status,
			Page:     in.Page,
			Limit:    in.Limit,
		})
		if err != nil {
			return err
		}

		out.Total = total
		out.Items = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			detail, err := loadOrderDetail(ctx, r, o)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, detail)
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, NewInternalError(err)
	}
	return out, nil
}

// ステータス更新。受け取り・支払いも合わせて進める
func (u *VendorOrderUsecase) UpdateStatus(ctx context.Context, userID int64, orderID int64, in VendorUpdateOrderStatusInput) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, errInvalidID
	}
	newStatus, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	vendor, err := u.ownVendor(ctx, userID)
	if err != nil {
		return OrderOutput{}, err
	}

	now := u.clock.Now()
	var out OrderOutput
	var updated model.Order
	changed := false

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound
		}
		if err != nil {
			return err
		}
		// 他店舗の注文は「存在しない扱い」
		if o.VendorID != vendor.ID {
			return errNotFound
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			out, err = loadOrderDetail(ctx, r, o)
			return err
		}
		if !o.Status.CanTransitionTo(newStatus) {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("cannot change status from %s to %s", o.Status, newStatus))
		}

		if err := applyOrderStatus(ctx, r, o, newStatus, now); err != nil {
			return err
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  userID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
			BeforeJSON:   statusJSON(o.Status),
			AfterJSON:    statusJSON(newStatus),
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		o.Status = newStatus
		updated = o
		changed = true
		out, err = loadOrderDetail(ctx, r, o)
		return err
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		return OrderOutput{}, NewInternalError(err)
	}

	if changed {
		u.notifier.Notify(ctx, updated.UserID, model.NotificationOrderStatus,
			"Order update",
			fmt.Sprintf("Your order #%d from %s is now %s.", updated.ID, vendor.Name, updated.Status),
			map[string]interface{}{"order_id": updated.ID, "status": updated.Status})

		if u.events != nil {
			if err := u.events.PublishOrderEvents(ctx, []model.OrderEvent{statusEvent(updated, now)}); err != nil {
				u.log.Warn().Err(err).Int64("order_id", updated.ID).Msg("order event publish failed")
			}
		}
	}
	return out, nil
}
