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

	"github.com/shopspring/decimal"
)

// バウチャーの検証結果（失敗理由はMessage）
type VoucherApplyResult struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Discount decimal.Decimal `json:"-"`
	Voucher  *VoucherOutput  `json:"voucher,omitempty"`
}

type VoucherOutput struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	RewardID    int64      `json:"reward_id"`
	RewardName  string     `json:"reward_name"`
	Type        string     `json:"type"`
	Value       string     `json:"value"`
	MinSpend    string     `json:"min_spend"`
	MaxDiscount *string    `json:"max_discount"`
	IsUsed      bool       `json:"is_used"`
	RedeemedAt  time.Time  `json:"redeemed_at"`
	UsedAt      *time.Time `json:"used_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	IsExpired   bool       `json:"is_expired"`
}

const (
	msgVoucherInvalid = "invalid voucher code"
	msgVoucherUsed    = "voucher already used"
	msgVoucherExpired = "voucher expired"
)

// VoucherEngine はバウチャーの所有・使用状態・期限・最低利用金額を検証して割引額を出す。
// 使用済みにするのはチェックアウトのTx内だけ。ここは読むだけ
type VoucherEngine struct {
	vouchers repo.VoucherRepository
	clock    Clock
	validity time.Duration
}

func NewVoucherEngine(vouchers repo.VoucherRepository, clock Clock, validity time.Duration) *VoucherEngine {
	if validity <= 0 {
		validity = model.DefaultVoucherValidity
	}
	return &VoucherEngine{vouchers: vouchers, clock: clock, validity: validity}
}

// 保存形式（大文字）にそろえる
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// 本人の未使用・期限内のバウチャーか確認して、小計に対する割引額を返す
func (e *VoucherEngine) Apply(ctx context.Context, userID int64, code string, subtotal decimal.Decimal) (VoucherApplyResult, error) {
	v, err := e.vouchers.FindByCode(ctx, userID, NormalizeVoucherCode(code))
	if errors.Is(err, repo.ErrNotFound) {
		return VoucherApplyResult{Message: msgVoucherInvalid}, nil
	}
	if err != nil {
		return VoucherApplyResult{}, NewInternalError(err)
	}

	discount, err := e.Evaluate(v, subtotal)
	if err != nil {
		he, ok := AsHTTPError(err)
		if ok && he.Status == http.StatusBadRequest {
			return VoucherApplyResult{Message: he.Message}, nil
		}
		return VoucherApplyResult{}, err
	}

	out := toVoucherOutput(v, e.clock.Now(), e.validity)
	return VoucherApplyResult{
		Success:  true,
		Discount: discount,
		Voucher:  &out,
	}, nil
}

// 取得済みのバウチャーを検証する（Tx内から呼ぶ）。業務エラーは400
func (e *VoucherEngine) Evaluate(v model.VoucherRedemption, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if v.IsUsed {
		return decimal.Zero, NewHTTPError(http.StatusBadRequest, msgVoucherUsed)
	}
	if v.IsExpired(e.clock.Now(), e.validity) {
		return decimal.Zero, NewHTTPError(http.StatusBadRequest, msgVoucherExpired)
	}
	if v.Reward == nil {
		return decimal.Zero, NewInternalError(fmt.Errorf("voucher %d: reward not loaded", v.ID))
	}

	discount, err := pricing.Discount(pricing.VoucherFromReward(*v.Reward), subtotal)
	if errors.Is(err, pricing.ErrMinSpendNotMet) {
		return decimal.Zero, NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("minimum spend of RM%s not met", money(v.Reward.MinSpend)))
	}
	if err != nil {
		return decimal.Zero, NewInternalError(err)
	}
	return discount, nil
}

// 自分のバウチャー一覧（期限は毎回計算）
func (e *VoucherEngine) ListMine(ctx context.Context, userID int64) ([]VoucherOutput, error) {
	if userID <= 0 {
		return []VoucherOutput{}, errUnauthorized
	}

	items, err := e.vouchers.ListByUserID(ctx, userID)
	if err != nil {
		return []VoucherOutput{}, NewInternalError(err)
	}

	now := e.clock.Now()
	out := make([]VoucherOutput, 0, len(items))
	for _, v := range items {
		out = append(out, toVoucherOutput(v, now, e.validity))
	}
	return out, nil
}

func (e *VoucherEngine) Validity() time.Duration {
	return e.validity
}

func toVoucherOutput(v model.VoucherRedemption, now time.Time, validity time.Duration) VoucherOutput {
	out := VoucherOutput{
		ID:         v.ID,
		Code:       v.Code,
		RewardID:   v.RewardID,
		IsUsed:     v.IsUsed,
		RedeemedAt: v.RedeemedAt,
		UsedAt:     v.UsedAt,
		ExpiresAt:  v.ExpiresAt(validity),
		IsExpired:  v.IsExpired(now, validity),
	}
	if r := v.Reward; r != nil {
		out.RewardName = r.Name
		out.Type = string(r.Type)
		out.Value = money(r.Value)
		out.MinSpend = money(r.MinSpend)
		if r.MaxDiscount != nil {
			s := money(*r.MaxDiscount)
			out.MaxDiscount = &s
		}
	}
	return out
}
