package handler

import (
	"net/http"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/middleware"
	"foodcourt/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 出店者向け
type VendorOrderHandler struct {
	uc *usecase.VendorOrderUsecase
}

func NewVendorOrderHandler(uc *usecase.VendorOrderUsecase) *VendorOrderHandler {
	return &VendorOrderHandler{uc: uc}
}

type vendorUpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *VendorOrderHandler) RegisterRoutes(api *echo.Group, g Guards) {
	mws := append(append([]echo.MiddlewareFunc{}, g.Auth...), middleware.RequireRole(model.RoleVendor))
	vg := api.Group("/vendor", mws...)

	vg.GET("/orders", h.list)
	vg.PATCH("/orders/:id/status", h.updateStatus)
}

func (h *VendorOrderHandler) list(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	page, ok1 := queryInt(c, "page", 1)
	limit, ok2 := queryInt(c, "limit", 50)
	if !ok1 || !ok2 {
		return fail(c, http.StatusBadRequest, "invalid query")
	}

	out, err := h.uc.List(c.Request().Context(), userID, usecase.VendorOrderListInput{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *VendorOrderHandler) updateStatus(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	orderID, valid := parseIDParam(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req vendorUpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), userID, orderID, usecase.VendorUpdateOrderStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Order status updated.", out)
}
