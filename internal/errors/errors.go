// Package errors defines the coded application error shared by repositories,
// services and the HTTP layer.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes an AppError. The HTTP layer maps codes to statuses.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeConflict   ErrorCode = "conflict"
	ErrCodeValidation ErrorCode = "validation"
	ErrCodeForeignKey ErrorCode = "foreign_key"
	ErrCodeInternal   ErrorCode = "internal"
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeCanceled   ErrorCode = "canceled"
	// ErrCodeQuotaExceeded means a provider account has run out of credits.
	ErrCodeQuotaExceeded ErrorCode = "quota_exceeded"
	// ErrCodeUpstream means a provider call failed for any other reason.
	ErrCodeUpstream ErrorCode = "upstream"
)

// AppError carries a code, a client-safe message, and optionally the field
// at fault and the underlying cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NotFound reports a missing job, timer, target, lead or reply.
func NotFound(message string) *AppError { return newError(ErrCodeNotFound, message) }

// Conflict reports a state clash, such as timers already running for a job.
func Conflict(message string) *AppError { return newError(ErrCodeConflict, message) }

// Conflictf is Conflict with a formatted message.
func Conflictf(format string, args ...any) *AppError {
	return newError(ErrCodeConflict, fmt.Sprintf(format, args...))
}

// Validation reports bad input not tied to a single field.
func Validation(message string) *AppError { return newError(ErrCodeValidation, message) }

// ValidationField reports bad input in the named request field.
func ValidationField(field, message string) *AppError {
	e := newError(ErrCodeValidation, message)
	e.Field = field
	return e
}

// QuotaExceeded reports an exhausted provider account.
func QuotaExceeded(message string) *AppError { return newError(ErrCodeQuotaExceeded, message) }

// Upstream wraps a failed provider call.
func Upstream(err error, message string) *AppError { return Wrap(err, ErrCodeUpstream, message) }

// Wrap attaches a code and message to err. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	e := newError(code, message)
	e.Cause = err
	return e
}

// Is reports whether any AppError in err's chain has the given code.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

func IsNotFound(err error) bool      { return Is(err, ErrCodeNotFound) }
func IsConflict(err error) bool      { return Is(err, ErrCodeConflict) }
func IsValidation(err error) bool    { return Is(err, ErrCodeValidation) }
func IsForeignKey(err error) bool    { return Is(err, ErrCodeForeignKey) }
func IsTimeout(err error) bool       { return Is(err, ErrCodeTimeout) }
func IsCanceled(err error) bool      { return Is(err, ErrCodeCanceled) }
func IsQuotaExceeded(err error) bool { return Is(err, ErrCodeQuotaExceeded) }
func IsUpstream(err error) bool      { return Is(err, ErrCodeUpstream) }

// GetCode returns the code of the first AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the offending field of the first AppError in err's chain, or "".
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
