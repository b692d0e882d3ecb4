package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation is not allowed in the entity's current state.
var ErrConflict = errors.New("operation conflicts with current state")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Domain sentinels. Each wraps one of the base sentinels above, so handlers
// keep their errors.Is status mapping while services signal the precise rule
// that was broken.
var (
	// ErrUnbalanced indicates an entry whose debit and credit totals disagree
	// beyond the allowed tolerance, or whose lines break the one-side rule.
	ErrUnbalanced = fmt.Errorf("%w: entry is unbalanced", ErrValidation)

	// ErrInvalidState indicates a lifecycle transition the entity's current
	// status does not allow.
	ErrInvalidState = fmt.Errorf("%w: state transition not allowed", ErrConflict)

	// ErrHasChildren indicates an account that cannot be deleted because
	// child accounts reference it.
	ErrHasChildren = fmt.Errorf("%w: account has child accounts", ErrConflict)

	// ErrHasPostings indicates an account that cannot be deleted because
	// entry lines reference it.
	ErrHasPostings = fmt.Errorf("%w: account has posted lines", ErrConflict)

	// ErrOverAllocation indicates a tranche amount exceeding the payment's
	// unallocated funds or the invoice's remaining amount.
	ErrOverAllocation = fmt.Errorf("%w: allocation exceeds available amount", ErrValidation)
)

// AppError carries a status code alongside a message and cause.
// Repositories use it to wrap infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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
