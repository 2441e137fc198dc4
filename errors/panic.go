package errors

import (
	"fmt"
	"runtime/debug"
)

// thrown carries an error raised by Throw through a panic.
type thrown struct {
	err error
}

// Throw aborts the evaluation currently running the caller with err. It must
// only be called from a function invoked by the engine (a mapper, predicate,
// accumulator or source); the terminal operation returns err.
func Throw(err error) {
	panic(thrown{err: err})
}

// FromPanic converts a value recovered from a panic into an error. Errors
// raised with Throw are returned unchanged; anything else becomes a PANIC
// AppError carrying the value and the goroutine stack.
func FromPanic(r any) error {
	switch v := r.(type) {
	case nil:
		return nil
	case thrown:
		return v.err
	case *AppError:
		return v
	default:
		appErr := &AppError{
			Code:    ErrCodePanic,
			Message: fmt.Sprintf("panic: %v", r),
			Details: map[string]any{"value": r, "stack": string(debug.Stack())},
		}
		if err, ok := r.(error); ok {
			appErr.Cause = err
		}
		return appErr
	}
}

// Recover converts a panic in progress into an error stored at errp. It is
// meant to be deferred directly:
//
//	defer errors.Recover(&err)
func Recover(errp *error) {
	if r := recover(); r != nil {
		*errp = FromPanic(r)
	}
}
