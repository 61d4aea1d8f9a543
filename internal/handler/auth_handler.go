package handler

import (
	"errors"
	"net/http"

	"foodcourt/internal/ratelimit"
	auth "foodcourt/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	refreshUC  *auth.RefreshUsecase
	logoutUC   *auth.LogoutUsecase
	meUC       *auth.MeUsecase
	log        zerolog.Logger
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	refreshUC *auth.RefreshUsecase,
	logoutUC *auth.LogoutUsecase,
	meUC *auth.MeUsecase,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		refreshUC:  refreshUC,
		logoutUC:   logoutUC,
		meUC:       meUC,
		log:        log,
	}
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, g Guards) {
	ag := api.Group("/auth")

	ag.POST("/register", h.register, g.Limit(ratelimit.ActionAuthRegister))
	ag.POST("/login", h.login, g.Limit(ratelimit.ActionAuthLogin))
	ag.POST("/refresh", h.refresh, g.Limit(ratelimit.ActionAuthLogin))
	ag.POST("/logout", h.logout, g.Auth...)
	ag.GET("/me", h.me, g.Auth...)
}

// authのエラーをHTTPに
func (h *AuthHandler) writeAuthError(c echo.Context, err error) error {
	var ve *auth.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Success: false,
			Message: "The given data was invalid.",
			Errors:  ve.Fields,
		})
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return fail(c, http.StatusConflict, "The email has already been taken.")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return fail(c, http.StatusUnauthorized, "Invalid refresh token.")
	case errors.Is(err, auth.ErrUserInactive):
		return fail(c, http.StatusForbidden, "Account is disabled.")
	}

	h.log.Error().Err(err).Str("path", c.Path()).Msg("auth request failed")
	return writeError(c, err)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return ok(c, http.StatusCreated, "Registration successful.", out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	// User-Agentを取得（refreshtokenに紐付ける）
	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return ok(c, http.StatusOK, "Login successful.", out)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.refreshUC.Execute(c.Request().Context(), auth.RefreshInput{
		RefreshToken: req.RefreshToken,
		UserAgent:    c.Request().UserAgent(),
	})
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return ok(c, http.StatusOK, "", out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}
	if err := h.logoutUC.Execute(c.Request().Context(), userID); err != nil {
		return h.writeAuthError(c, err)
	}
	return ok(c, http.StatusOK, "Logged out.", nil)
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, valid := getUserIDFromContext(c)
	if !valid {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}
	user, err := h.meUC.Execute(c.Request().Context(), userID)
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return ok(c, http.StatusOK, "", user)
}
