package usecase

import (
	"context"
	"net/http"
	"time"

	repo "foodcourt/internal/repository"
)

type LoyaltyUsecase struct {
	loyalty repo.LoyaltyRepository
}

func NewLoyaltyUsecase(loyalty repo.LoyaltyRepository) *LoyaltyUsecase {
	return &LoyaltyUsecase{loyalty: loyalty}
}

type LoyaltyTransactionOutput struct {
	Points    int64     `json:"points"`
	Reason    string    `json:"reason"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

type LoyaltyOutput struct {
	Points  int64                      `json:"points"`
	History []LoyaltyTransactionOutput `json:"history"`
}

// 残高と直近の履歴
func (u *LoyaltyUsecase) GetSummary(ctx context.Context, userID int64, limit int) (LoyaltyOutput, error) {
	if userID <= 0 {
		return LoyaltyOutput{}, errUnauthorized
	}
	if limit < 1 || limit > 100 {
		return LoyaltyOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	acc, err := u.loyalty.GetAccount(ctx, userID)
	if err != nil {
		return LoyaltyOutput{}, NewInternalError(err)
	}
	txs, err := u.loyalty.ListTransactions(ctx, userID, limit)
	if err != nil {
		return LoyaltyOutput{}, NewInternalError(err)
	}

	out := LoyaltyOutput{Points: acc.Points, History: make([]LoyaltyTransactionOutput, 0, len(txs))}
	for _, t := range txs {
		out.History = append(out.History, LoyaltyTransactionOutput{
			Points:    t.Points,
			Reason:    string(t.Reason),
			Reference: t.Reference,
			CreatedAt: t.CreatedAt,
		})
	}
	return out, nil
}
