package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the error type rendered at the HTTP boundary. Message and
// Details are client-facing; Op and Err are only logged.
type AppError struct {
	Code    int         `json:"-"`
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
	Op      string      `json:"-"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns e with Details set.
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func E(op string, err error, message string, code int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidInput(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusBadRequest)
}

func Unauthorized(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusUnauthorized)
}

func NotFound(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusNotFound)
}

func TooManyRequests(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusTooManyRequests)
}

func Internal(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusInternalServerError)
}

func BadGateway(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusBadGateway)
}

func Unavailable(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusServiceUnavailable)
}

func GatewayTimeout(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusGatewayTimeout)
}

// As reports whether err is, or wraps, an *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
