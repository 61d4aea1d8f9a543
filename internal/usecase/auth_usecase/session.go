package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/repository"
)

// アクセストークンとリフレッシュトークンを1組発行する
type sessionIssuer struct {
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	refreshTTL time.Duration
}

func (s sessionIssuer) issue(ctx context.Context, user *model.User, userAgent string, now time.Time) (AuthOutput, error) {
	accessToken, accessExp, err := s.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return AuthOutput{}, err
	}

	plainRefresh, err := generateSecureToken(32)
	if err != nil {
		return AuthOutput{}, err
	}

	refresh := &model.RefreshToken{
		ID:        s.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashToken(plainRefresh),
		UserAgent: userAgent,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.rtRepo.Create(ctx, refresh); err != nil {
		return AuthOutput{}, err
	}

	return AuthOutput{
		User: *user,
		Token: JwtAccessToken{
			AccessToken:  accessToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(accessExp.Sub(now).Seconds()),
			RefreshToken: plainRefresh,
			TokenVersion: user.TokenVersion,
		},
	}, nil
}

// DBにはsha256だけを保存する
func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func generateSecureToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", fmt.Errorf("bytesLen must be positive")
	}

	// ランダムなバイト列を作る（OSが持つ安全な乱数）
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
