package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodcourt/internal/repository"
	"foodcourt/internal/validator"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	clock    Clock
	session  sessionIssuer
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		clock:    clock,
		session:  sessionIssuer{rtRepo: rtRepo, issuer: issuer, idGen: idGen, refreshTTL: refreshTTL},
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthOutput, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if errs := validator.ValidateLogin(in.Email, in.Password); !errs.Empty() {
		return AuthOutput{}, &ValidationError{Fields: errs}
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthOutput{}, ErrInvalidCredentials
		}
		return AuthOutput{}, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return AuthOutput{}, ErrInvalidCredentials
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return AuthOutput{}, ErrUserInactive
	}

	now := u.clock.Now()
	out, err := u.session.issue(ctx, user, in.UserAgent, now)
	if err != nil {
		return AuthOutput{}, err
	}

	//最終ログイン時刻更新
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return AuthOutput{}, err
	}
	out.User = *user
	return out, nil
}
