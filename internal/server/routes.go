package server

import (
	"net/http"

	"foodcourt/internal/handler"

	"github.com/labstack/echo/v4"
)

// /api 配下に登録するハンドラ
type RouteRegistrar interface {
	RegisterRoutes(api *echo.Group, g handler.Guards)
}

func RegisterRoutes(e *echo.Echo, g handler.Guards, hs ...RouteRegistrar) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	for _, h := range hs {
		h.RegisterRoutes(api, g)
	}
}
