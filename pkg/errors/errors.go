package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application errors independently of transport.
type ErrorCode int

const (
	CodeValidation ErrorCode = iota + 1000
	CodeDuplicate
	CodeUnauthorized
	CodeNotFound
	CodeConflict
	CodeInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Error constructors
func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func Duplicate(message string) *AppError {
	return &AppError{Code: CodeDuplicate, Message: message}
}

// Unauthorized deliberately carries a fixed message so callers cannot
// distinguish an unknown account from a wrong password.
func Unauthorized(err error) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: "invalid credentials", Err: err}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal server error", Err: err}
}

// AsAppError unwraps err to the first AppError in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
