package auth

import (
	"context"

	"foodcourt/internal/repository"
)

// 全端末ログアウト。リフレッシュトークンを失効させ、発行済みのアクセストークンもtvで無効にする
type LogoutUsecase struct {
	userRepo repository.UserRepository
	rtRepo   repository.RefreshTokenRepository
	clock    Clock
}

func NewLogoutUsecase(userRepo repository.UserRepository, rtRepo repository.RefreshTokenRepository, clock Clock) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo, rtRepo: rtRepo, clock: clock}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID int64) error {
	if err := u.rtRepo.RevokeAllByUserID(ctx, userID, u.clock.Now()); err != nil {
		return err
	}
	return u.userRepo.IncrementTokenVersion(ctx, userID)
}
