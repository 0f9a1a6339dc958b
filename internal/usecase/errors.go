package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MahyaarMaleki/storetrack/internal/validator"
)

// エラーの種類。errors.Isで判定する。
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternal          = errors.New("internal error")
)

// HTTPError はusecaseが返すエラー。
// Messageはそのままクライアントに返す。Causeは返さずログにだけ出す。
type HTTPError struct {
	Status  int
	Message string
	Details []string
	Kind    error
	Cause   error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Kind:    kindOf(status),
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func NewValidationError(message string, details ...string) error {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Details: details, Kind: ErrValidation}
}

// validator.Structのエラーから作る
func validationFailed(err error) error {
	return NewValidationError("validation failed", validator.Messages(err)...)
}

func NewNotFoundError(message string) error {
	return &HTTPError{Status: http.StatusNotFound, Message: message, Kind: ErrNotFound}
}

func NewInvalidTransitionError(message string) error {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Kind: ErrInvalidTransition}
}

func NewUnauthorizedError(message string) error {
	return &HTTPError{Status: http.StatusUnauthorized, Message: message, Kind: ErrUnauthorized}
}

func NewInternalError(cause error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		Kind:    ErrInternal,
		Cause:   cause,
	}
}

// トランザクションから返ったエラーをHTTPErrorにそろえる
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return NewInternalError(err)
}

func kindOf(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		if status >= 500 {
			return ErrInternal
		}
		return nil
	}
}
