package handler

import (
	"net/http"

	"foodcourt/internal/ratelimit"
	"foodcourt/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 特典・バウチャー・ポイント
type RewardHandler struct {
	rewards  *usecase.RewardUsecase
	vouchers *usecase.VoucherEngine
	loyalty  *usecase.LoyaltyUsecase
}

func NewRewardHandler(rewards *usecase.RewardUsecase, vouchers *usecase.VoucherEngine, loyalty *usecase.LoyaltyUsecase) *RewardHandler {
	return &RewardHandler{rewards: rewards, vouchers: vouchers, loyalty: loyalty}
}

func (h *RewardHandler) RegisterRoutes(api *echo.Group, g Guards) {
	redeem := append(append([]echo.MiddlewareFunc{}, g.Auth...), g.Limit(ratelimit.ActionRewardRedeem))

	api.GET("/loyalty", h.loyaltySummary, g.Auth...)
	api.GET("/rewards", h.listRewards, g.Auth...)
	api.POST("/rewards/:id/redeem", h.redeem, redeem...)
	api.GET("/vouchers", h.listVouchers, g.Auth...)
}

func (h *RewardHandler) loyaltySummary(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}
	limit, valid := queryInt(c, "limit", 20)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid query")
	}

	out, err := h.loyalty.GetSummary(c.Request().Context(), userID, limit)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *RewardHandler) listRewards(c echo.Context) error {
	out, err := h.rewards.ListRewards(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *RewardHandler) redeem(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	rewardID, valid := parseIDParam(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.rewards.Redeem(c.Request().Context(), userID, rewardID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, "Reward redeemed.", out)
}

func (h *RewardHandler) listVouchers(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	out, err := h.vouchers.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}
