package handler

import (
	"net/http"
	"strconv"

	"foodcourt/internal/ratelimit"
	"foodcourt/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/menu, /api/vendors の公開API
type MenuHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

// 公開メニューのルートを登録
func (h *MenuHandler) RegisterRoutes(api *echo.Group, g Guards) {
	browse := []echo.MiddlewareFunc{g.OptionalAuth, g.Limit(ratelimit.ActionMenuBrowse)}

	api.GET("/menu", h.list, browse...)
	api.GET("/menu/search", h.search, browse...)
	api.GET("/menu/:id", h.detail, browse...)
	api.GET("/vendors", h.vendors, browse...)
}

func (h *MenuHandler) parseListInput(c echo.Context) (usecase.ListMenuInput, bool) {
	page, ok1 := queryInt(c, "page", 1)
	limit, ok2 := queryInt(c, "limit", 20)
	if !ok1 || !ok2 {
		return usecase.ListMenuInput{}, false
	}

	in := usecase.ListMenuInput{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	}
	if s := c.QueryParam("vendor_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return usecase.ListMenuInput{}, false
		}
		in.VendorID = &id
	}
	return in, true
}

func (h *MenuHandler) list(c echo.Context) error {
	in, valid := h.parseListInput(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid query")
	}
	out, err := h.uc.ListMenu(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *MenuHandler) search(c echo.Context) error {
	in, valid := h.parseListInput(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid query")
	}
	out, err := h.uc.SearchMenu(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *MenuHandler) detail(c echo.Context) error {
	id, valid := parseIDParam(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.uc.GetMenuItem(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *MenuHandler) vendors(c echo.Context) error {
	out, err := h.uc.ListVendors(c.Request().Context(), queryBool(c, "open"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}
