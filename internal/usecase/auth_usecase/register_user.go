package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/repository"
	"foodcourt/internal/validator"
)

// 会員登録の入力
type RegisterUserInput struct {
	Name      string
	Email     string
	Password  string
	UserAgent string
}

// RegisterUserUsecaseは会員登録の処理。登録後そのままログイン状態にする
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
	session  sessionIssuer
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
		session:  sessionIssuer{rtRepo: rtRepo, issuer: issuer, idGen: idGen, refreshTTL: refreshTTL},
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (AuthOutput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if errs := validator.ValidateRegister(in.Name, in.Email, in.Password); !errs.Empty() {
		return AuthOutput{}, &ValidationError{Fields: errs}
	}

	// email重複チェック（同時登録は一意制約で409）
	existing, err := u.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return AuthOutput{}, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return AuthOutput{}, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return AuthOutput{}, err
	}

	now := u.clock.Now()
	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Role:         model.RoleCustomer,
		IsActive:     true,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return AuthOutput{}, ErrEmailAlreadyExists
		}
		return AuthOutput{}, err
	}

	return u.session.issue(ctx, user, in.UserAgent, now)
}
