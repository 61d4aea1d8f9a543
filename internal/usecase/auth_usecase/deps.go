package auth

import (
	"errors"
	"time"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/validator"
)

var (
	// メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
	// 停止済みユーザー
	ErrUserInactive = errors.New("user is inactive")
	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
	// 無い・期限切れ・使用済み
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// 入力チェックの失敗（フィールドごとのメッセージ）
type ValidationError struct {
	Fields validator.Errors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// token 形
type JwtAccessToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	TokenVersion int    `json:"token_version"`
}

// handlerがJSONにして返す
type AuthOutput struct {
	User  model.User     `json:"user"`
	Token JwtAccessToken `json:"token"`
}
