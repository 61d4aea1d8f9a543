package middleware

import (
	"net/http"

	"foodcourt/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleが許可されたものか確認します。
func RequireRole(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(model.Role)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}

			for _, r := range allowed {
				if role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
		}
	}
}
