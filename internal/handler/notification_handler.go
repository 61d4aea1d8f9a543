package handler

import (
	"net/http"

	"foodcourt/internal/usecase"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	uc *usecase.NotificationUsecase
}

func NewNotificationHandler(uc *usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(api *echo.Group, g Guards) {
	ng := api.Group("/notifications", g.Auth...)

	ng.GET("", h.list)
	ng.GET("/unread-count", h.unreadCount)
	ng.POST("/read-all", h.markAllRead)
	ng.POST("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	page, ok1 := queryInt(c, "page", 1)
	limit, ok2 := queryInt(c, "limit", 20)
	if !ok1 || !ok2 {
		return fail(c, http.StatusBadRequest, "invalid query")
	}

	out, err := h.uc.List(c.Request().Context(), userID, usecase.NotificationListInput{
		UnreadOnly: queryBool(c, "unread_only"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *NotificationHandler) unreadCount(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	n, err := h.uc.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]int64{"unread_count": n})
}

func (h *NotificationHandler) markRead(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	id, valid := parseIDParam(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.MarkRead(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Notification marked as read.", nil)
}

func (h *NotificationHandler) markAllRead(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}

	n, err := h.uc.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "All notifications marked as read.", map[string]int64{"updated": n})
}
