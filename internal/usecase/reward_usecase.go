package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"
)

// コード重複時にTxごとやり直す回数
const maxRedeemAttempts = 3

type RewardUsecase struct {
	tx       repo.TransactionManager
	rewards  repo.RewardRepository
	vouchers *VoucherEngine
	idGen    IDGenerator
	clock    Clock
}

func NewRewardUsecase(tx repo.TransactionManager, rewards repo.RewardRepository, vouchers *VoucherEngine, idGen IDGenerator, clock Clock) *RewardUsecase {
	return &RewardUsecase{tx: tx, rewards: rewards, vouchers: vouchers, idGen: idGen, clock: clock}
}

type RewardOutput struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Type           string  `json:"type"`
	Value          string  `json:"value"`
	MinSpend       string  `json:"min_spend"`
	MaxDiscount    *string `json:"max_discount"`
	PointsRequired int64   `json:"points_required"`
}

type RedeemOutput struct {
	Voucher         VoucherOutput `json:"voucher"`
	PointsSpent     int64         `json:"points_spent"`
	RemainingPoints int64         `json:"remaining_points"`
}

func (u *RewardUsecase) ListRewards(ctx context.Context) ([]RewardOutput, error) {
	rewards, err := u.rewards.ListActive(ctx)
	if err != nil {
		return []RewardOutput{}, NewInternalError(err)
	}
	out := make([]RewardOutput, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, toRewardOutput(r))
	}
	return out, nil
}

// ポイントを引いてバウチャーを発行する（同じTx）
func (u *RewardUsecase) Redeem(ctx context.Context, userID int64, rewardID int64) (RedeemOutput, error) {
	if userID <= 0 {
		return RedeemOutput{}, errUnauthorized
	}
	if rewardID <= 0 {
		return RedeemOutput{}, errInvalidID
	}

	reward, err := u.rewards.FindByID(ctx, rewardID)
	if errors.Is(err, repo.ErrNotFound) {
		return RedeemOutput{}, errNotFound
	}
	if err != nil {
		return RedeemOutput{}, NewInternalError(err)
	}
	if !reward.IsActive {
		return RedeemOutput{}, errNotFound
	}

	for attempt := 1; ; attempt++ {
		out, err := u.redeemOnce(ctx, userID, reward)
		if errors.Is(err, repo.ErrConflict) && attempt < maxRedeemAttempts {
			continue
		}
		if err != nil {
			if _, ok := AsHTTPError(err); ok {
				return RedeemOutput{}, err
			}
			return RedeemOutput{}, NewInternalError(err)
		}
		return out, nil
	}
}

func (u *RewardUsecase) redeemOnce(ctx context.Context, userID int64, reward model.Reward) (RedeemOutput, error) {
	now := u.clock.Now()
	code := newVoucherCode(u.idGen.NewID())
	var out RedeemOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.Loyalty().DeductPointsIfEnough(ctx, userID, reward.PointsRequired, model.LoyaltyReasonRedeem, code)
		if err != nil {
			return err
		}
		if !ok {
			return NewHTTPError(http.StatusBadRequest, "insufficient points")
		}

		v := model.VoucherRedemption{
			UserID:     userID,
			RewardID:   reward.ID,
			Code:       code,
			RedeemedAt: now,
		}
		if err := r.Vouchers().Create(ctx, &v); err != nil {
			return err
		}
		v.Reward = &reward

		n, err := buildNotification(userID, model.NotificationVoucherRedeemed,
			"Voucher redeemed",
			fmt.Sprintf("You redeemed %s. Your code is %s.", reward.Name, code),
			map[string]interface{}{"code": code, "reward_id": reward.ID})
		if err != nil {
			return err
		}
		if err := r.Notifications().Create(ctx, &n); err != nil {
			return err
		}

		acc, err := r.Loyalty().GetAccount(ctx, userID)
		if err != nil {
			return err
		}

		out = RedeemOutput{
			Voucher:         toVoucherOutput(v, now, u.vouchers.Validity()),
			PointsSpent:     reward.PointsRequired,
			RemainingPoints: acc.Points,
		}
		return nil
	})
	return out, err
}

// RW- + 10桁の英数字（大文字）
func newVoucherCode(id string) string {
	hex := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(hex) > 10 {
		hex = hex[:10]
	}
	return "RW-" + hex
}

func toRewardOutput(r model.Reward) RewardOutput {
	out := RewardOutput{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Type:           string(r.Type),
		Value:          money(r.Value),
		MinSpend:       money(r.MinSpend),
		PointsRequired: r.PointsRequired,
	}
	if r.MaxDiscount != nil {
		s := money(*r.MaxDiscount)
		out.MaxDiscount = &s
	}
	return out
}
