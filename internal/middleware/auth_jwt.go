package middleware

import (
	"net/http"
	"strings"

	auth "foodcourt/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // model.Role
	CtxTokenVersionKey = "token_version" // int
	CtxRequestIDKey    = "request_id"    // string
)

// アクセストークンの検証（auth.JWTIssuerが満たす）
type AccessTokenParser interface {
	Parse(tokenStr string) (*auth.Claims, error)
}

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(parser AccessTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}

			//署名・期限の検証
			claims, err := parser.Parse(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}

			userID, err := claims.UserID()
			if err != nil || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}
			if claims.Role == "" || claims.TokenVersion < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)

			return next(c)
		}
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Success: false, Message: msg}
}

// AuthJWTが入れたユーザーID（未認証は0）
func UserID(c echo.Context) int64 {
	id, _ := c.Get(CtxUserIDKey).(int64)
	return id
}

// 公開APIで使う。トークンがあって正しければユーザーを入れ、無い・不正なら匿名のまま通す
func OptionalAuthJWT(parser AccessTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return next(c)
			}
			claims, err := parser.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return next(c)
			}
			if userID, err := claims.UserID(); err == nil && userID > 0 {
				c.Set(CtxUserIDKey, userID)
				c.Set(CtxUserRoleKey, claims.Role)
				c.Set(CtxTokenVersionKey, claims.TokenVersion)
			}
			return next(c)
		}
	}
}
