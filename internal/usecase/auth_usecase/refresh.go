package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodcourt/internal/repository"
)

type RefreshInput struct {
	RefreshToken string
	UserAgent    string
}

// リフレッシュトークンのローテーション
// 使用済みトークンが再び来たら盗用とみなし、そのユーザーの全トークンを失効させる
type RefreshUsecase struct {
	userRepo repository.UserRepository
	rtRepo   repository.RefreshTokenRepository
	clock    Clock
	session  sessionIssuer
}

func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo: userRepo,
		rtRepo:   rtRepo,
		clock:    clock,
		session:  sessionIssuer{rtRepo: rtRepo, issuer: issuer, idGen: idGen, refreshTTL: refreshTTL},
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (AuthOutput, error) {
	plain := strings.TrimSpace(in.RefreshToken)
	if plain == "" {
		return AuthOutput{}, ErrInvalidRefreshToken
	}

	now := u.clock.Now()
	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(plain))
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return AuthOutput{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return AuthOutput{}, err
	}

	// 再利用
	if rt.UsedAt != nil {
		if err := u.rtRepo.RevokeAllByUserID(ctx, rt.UserID, now); err != nil {
			return AuthOutput{}, err
		}
		return AuthOutput{}, ErrInvalidRefreshToken
	}
	if !rt.IsActive(now) {
		return AuthOutput{}, ErrInvalidRefreshToken
	}

	// 同時に2回来たら片方だけ通す
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return AuthOutput{}, ErrInvalidRefreshToken
		}
		return AuthOutput{}, err
	}

	user, err := u.userRepo.FindByID(ctx, rt.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return AuthOutput{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return AuthOutput{}, err
	}
	if !user.IsActive {
		return AuthOutput{}, ErrUserInactive
	}

	return u.session.issue(ctx, user, in.UserAgent, now)
}
