package handler

import (
	"net/http"

	"foodcourt/internal/ratelimit"
	"foodcourt/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderCreateRequest struct {
	PaymentMethod string `json:"payment_method"`
	VoucherCode   string `json:"voucher_code"`
	Notes         string `json:"notes"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, g Guards) {
	og := api.Group("/orders", g.Auth...)

	og.POST("", h.create, g.Limit(ratelimit.ActionCheckout))
	og.GET("", h.list)
	og.GET("/:id", h.detail)
	og.POST("/:id/cancel", h.cancel)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	idemKey := c.Request().Header.Get("X-Idempotency-Key")
	if idemKey == "" {
		idemKey = c.Request().Header.Get("Idempotency-Key")
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID, usecase.CheckoutInput{
		PaymentMethod:  req.PaymentMethod,
		VoucherCode:    req.VoucherCode,
		Notes:          req.Notes,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	// 再送は200で前回と同じ内容
	if out.Replayed {
		return ok(c, http.StatusOK, "Order already placed.", out)
	}
	return ok(c, http.StatusCreated, "Order placed successfully.", out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	page, ok1 := queryInt(c, "page", 1)
	limit, ok2 := queryInt(c, "limit", 20)
	if !ok1 || !ok2 {
		return fail(c, http.StatusBadRequest, "invalid query")
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	orderID, valid := parseIDParam(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	orderID, valid := parseIDParam(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.CancelMyOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Order cancelled.", out)
}
