package middleware

import (
	"net/http"
	"strconv"

	"foodcourt/internal/ratelimit"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type rateLimitedResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RetryAfter int64  `json:"retry_after"`
}

// 操作ごとの固定ウィンドウ制限。ログイン済みならユーザー、未ログインならIPで数える。
// カウンタが読めないときは通す（ログだけ残す）
func RateLimit(limiter *ratelimit.Limiter, action ratelimit.Action, log zerolog.Logger) echo.MiddlewareFunc {
	policy := ratelimit.PolicyFor(action)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject := "ip:" + c.RealIP()
			if id := UserID(c); id > 0 {
				subject = "user:" + strconv.FormatInt(id, 10)
			}

			res, err := limiter.Attempt(c.Request().Context(), policy, subject)
			if err != nil {
				log.Warn().Err(err).Str("action", string(action)).Msg("rate limit store unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))

			if !res.Allowed {
				retry := res.RetryAfterSeconds()
				h.Set(echo.HeaderRetryAfter, strconv.FormatInt(retry, 10))
				return c.JSON(http.StatusTooManyRequests, rateLimitedResponse{
					Success:    false,
					Message:    "Too many attempts. Please try again later.",
					RetryAfter: retry,
				})
			}
			return next(c)
		}
	}
}
