package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"foodcourt/internal/validator"
)

// usecaseが返すエラー。handlerはStatusとMessageをそのままレスポンスにする
type HTTPError struct {
	Status  int
	Message string
	// 422のときのフィールドごとのメッセージ
	Fields validator.Errors
	// 500の原因（APP_DEBUGのときだけ外に出す）
	Err error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func NewValidationError(fields validator.Errors) error {
	return &HTTPError{
		Status:  http.StatusUnprocessableEntity,
		Message: "The given data was invalid.",
		Fields:  fields,
	}
}

func NewInternalError(err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "internal error",
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var (
	errUnauthorized = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	errNotFound     = NewHTTPError(http.StatusNotFound, "not found")
	errInvalidID    = NewHTTPError(http.StatusBadRequest, "invalid id")
)
