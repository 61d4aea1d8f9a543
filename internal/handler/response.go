package handler

import (
	"net/http"
	"strconv"

	"foodcourt/internal/middleware"
	"foodcourt/internal/ratelimit"
	"foodcourt/internal/usecase"
	"foodcourt/internal/validator"

	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Errors  validator.Errors `json:"errors,omitempty"`
}

// ルート登録で使うミドルウェア一式
type Guards struct {
	// AuthJWT + TokenVersionGuard
	Auth []echo.MiddlewareFunc
	// 公開APIでユーザーが分かれば使う
	OptionalAuth echo.MiddlewareFunc
	// 操作ごとのレート制限
	Limit func(a ratelimit.Action) echo.MiddlewareFunc
}

func ok(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Success: false, Message: message})
}

// usecaseのエラーをHTTPにする。
// 500は "internal error" だけ返す（echoのDebugが有効なら原因も付ける）
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
		return c.JSON(he.Status, ErrorResponse{Success: false, Message: he.Message, Errors: he.Fields})
	}

	//500
	msg := "internal error"
	if c.Echo().Debug {
		if he, ok := usecase.AsHTTPError(err); ok && he.Err != nil {
			msg += ": " + he.Err.Error()
		} else {
			msg += ": " + err.Error()
		}
	}
	return fail(c, http.StatusInternalServerError, msg)
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id := middleware.UserID(c)
	return id, id > 0
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// 空なら既定値、数値でなければfalse
func queryInt(c echo.Context, name string, def int) (int, bool) {
	s := c.QueryParam(name)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func queryBool(c echo.Context, name string) bool {
	b, _ := strconv.ParseBool(c.QueryParam(name))
	return b
}
