package errors

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/multierr"
)

// AppError is the unified error type of the engine.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`

	suppressed error
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	if n := len(multierr.Errors(e.suppressed)); n > 0 {
		msg = fmt.Sprintf("%s [+%d suppressed]", msg, n)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Suppress attaches secondary failures to the error and returns the receiver.
// Nil errors and the receiver itself are ignored.
func (e *AppError) Suppress(errs ...error) *AppError {
	for _, err := range errs {
		if err == nil || err == error(e) {
			continue
		}
		e.suppressed = multierr.Append(e.suppressed, err)
	}
	return e
}

// Suppressed returns the secondary failures attached to the error, in the
// order they were observed.
func (e *AppError) Suppressed() []error {
	return multierr.Errors(e.suppressed)
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// InvalidArgument creates an error for an invalid stage or collector parameter.
func InvalidArgument(param string, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid %s: %s", param, reason),
		Details: map[string]any{"param": param},
	}
}

// IllegalState creates an error for an operation attempted in the wrong state.
func IllegalState(reason string) *AppError {
	return &AppError{Code: ErrCodeIllegalState, Message: reason}
}

// ConcurrentModification creates an error for a source mutated during traversal.
func ConcurrentModification(source string) *AppError {
	return &AppError{
		Code: ErrCodeConcurrentModification, Message: fmt.Sprintf("%s was modified during traversal", source),
		Details: map[string]any{"source": source},
	}
}

// ClosureFailed wraps an error returned by a caller-supplied function.
func ClosureFailed(op string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeClosureFailed, Message: fmt.Sprintf("%s function failed", op),
		Details: map[string]any{"op": op}, Cause: cause,
	}
}

// Canceled wraps a context cancellation observed during evaluation.
func Canceled(cause error) *AppError {
	return &AppError{Code: ErrCodeCanceled, Message: "evaluation canceled", Cause: cause}
}

// CloseFailed wraps the failure of a close handler.
func CloseFailed(cause error) *AppError {
	return &AppError{Code: ErrCodeClose, Message: "close handler failed", Cause: cause}
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Is is an alias of the standard library's errors.Is.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As is an alias of the standard library's errors.As.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Combine reduces errs to a single error: the first non-nil error becomes
// the primary one and every later error is attached to it as suppressed.
// A primary that is not an *AppError is wrapped with fallback.
func Combine(fallback func(error) *AppError, errs ...error) error {
	var primary *AppError
	for _, err := range errs {
		if err == nil {
			continue
		}
		if primary == nil {
			if appErr, ok := err.(*AppError); ok {
				primary = appErr
			} else {
				primary = fallback(err)
			}
			continue
		}
		primary.Suppress(err)
	}
	if primary == nil {
		return nil
	}
	return primary
}
