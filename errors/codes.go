package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction and usage errors
const (
	// ErrCodeInvalidArgument indicates an invalid stage or collector parameter.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeIllegalState indicates a stream was reused or an operation hit an impossible state.
	ErrCodeIllegalState ErrorCode = "ILLEGAL_STATE"
	// ErrCodeConcurrentModification indicates a non-concurrent source changed during traversal.
	ErrCodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
)

// Evaluation errors
const (
	// ErrCodeClosureFailed indicates a caller-supplied function returned an error.
	ErrCodeClosureFailed ErrorCode = "CLOSURE_FAILED"
	// ErrCodePanic indicates a caller-supplied function panicked.
	ErrCodePanic ErrorCode = "PANIC"
	// ErrCodeCanceled indicates the evaluation context was canceled.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeClose indicates a close handler failed.
	ErrCodeClose ErrorCode = "CLOSE_FAILED"
)

var usageCodes = map[ErrorCode]bool{
	ErrCodeInvalidArgument:        true,
	ErrCodeIllegalState:           true,
	ErrCodeConcurrentModification: true,
}

// IsUsageCode reports whether code denotes a programming error on the
// caller's side rather than a failure of the data being processed.
func IsUsageCode(code ErrorCode) bool {
	return usageCodes[code]
}
