package foliotrack

import (
	"errors"
	"fmt"
)

// Performance errors. Use errors.Is() to check for these conditions.
var (
	// ErrNoData indicates the asset does not exist or has no transactions in
	// the requested portfolio.
	ErrNoData = errors.New("no transactions found for asset")
	// ErrEmptySeries indicates the truncated price series has zero usable bars.
	ErrEmptySeries = errors.New("price series has no usable bars")
)

// PriceProviderError reports an unreachable price provider or a malformed
// payload. It carries the asset symbol and the underlying cause.
type PriceProviderError struct {
	Symbol string
	Err    error
}

func (e *PriceProviderError) Error() string {
	return fmt.Sprintf("price provider for %s: %v", e.Symbol, e.Err)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *PriceProviderError) Unwrap() error {
	return e.Err
}

// ErrorCode defines error classification codes for structured error handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeDuplicate    ErrorCode = "DUPLICATE"
	ErrCodeDatabase     ErrorCode = "DATABASE_ERROR"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with classification code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a classification code and context.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// IsErrorCode checks if an error (or anything it wraps) matches a code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
