package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// リクエストごとに1行。X-Request-IDが無ければ採番して返す
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set(CtxRequestIDKey, reqID)
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)

			err := next(c)
			if err != nil {
				// echoのエラーハンドラにステータスを決めさせる
				c.Error(err)
			}

			status := c.Response().Status
			ev := log.Info()
			switch {
			case status >= 500:
				ev = log.Error().Err(err)
			case status >= 400:
				ev = log.Warn()
			}
			ev.Str("request_id", reqID).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Int64("user_id", UserID(c)).
				Msg("request")
			return nil
		}
	}
}
