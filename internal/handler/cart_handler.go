package handler

import (
	"net/http"

	"foodcourt/internal/ratelimit"
	"foodcourt/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	MenuItemID     int64  `json:"menu_item_id"`
	Quantity       int64  `json:"quantity"`
	SpecialRequest string `json:"special_request"`
}

type UpdateCartItemRequest struct {
	Quantity       int64  `json:"quantity"`
	SpecialRequest string `json:"special_request"`
}

type ApplyVoucherRequest struct {
	Code string `json:"code"`
}

// /api/cart, /api/cart/{id} を登録
func (h *CartHandler) RegisterRoutes(api *echo.Group, g Guards) {
	cg := api.Group("/cart", g.Auth...)

	cg.GET("", h.getCart)
	cg.POST("", h.addToCart, g.Limit(ratelimit.ActionCartAdd))
	cg.PUT("/:id", h.updateItem, g.Limit(ratelimit.ActionCartUpdate))
	cg.DELETE("/:id", h.deleteItem, g.Limit(ratelimit.ActionCartRemove))
	cg.POST("/clear", h.clear, g.Limit(ratelimit.ActionCartClear))
	cg.POST("/voucher", h.applyVoucher, g.Limit(ratelimit.ActionVoucherApply))
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.AddItem(c.Request().Context(), userID, usecase.AddCartInput{
		MenuItemID:     req.MenuItemID,
		Quantity:       req.Quantity,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, "Item added to cart.", out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	itemID, valid := parseIDParam(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), userID, itemID, usecase.UpdateCartItemInput{
		Quantity:       req.Quantity,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Cart updated.", out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	itemID, valid := parseIDParam(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), userID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Item removed from cart.", out)
}

// 空でも成功（cart_count=0）
func (h *CartHandler) clear(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	out, err := h.uc.Clear(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Cart cleared.", out)
}

func (h *CartHandler) applyVoucher(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	var req ApplyVoucherRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.ApplyVoucher(c.Request().Context(), userID, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Voucher applied.", out)
}
