package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a referenced account, product, document, line or
// payment is absent or voided.
var ErrNotFound = errors.New("resource not found")

// ErrConflict indicates an illegal state transition or a lost concurrent update.
var ErrConflict = errors.New("conflicting state")

// ErrInvalidAmount indicates a negative or non-finite quantity or money amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrTransient indicates a retryable data-store failure (transaction timeout,
// serialization conflict, deadlock). Callers may retry; the engine never does.
var ErrTransient = errors.New("transient storage error")

// ErrInternal indicates an unexpected data-store or transaction failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level failure with an application error code and a
// human readable message. The wrapped error remains visible to errors.Is.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewTransientError creates an AppError that satisfies errors.Is(err, ErrTransient).
func NewTransientError(message string, err error) *AppError {
	return &AppError{Code: 503, Message: message, Err: fmt.Errorf("%w: %w", ErrTransient, err)}
}

// IsRetryable reports whether the caller may safely retry the failed operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
