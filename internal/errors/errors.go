package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// IoFailure indicates a file could not be read or listed. Always
	// non-fatal: the file is skipped.
	IoFailure ErrorCode = "IO_FAILURE"
	// MalformedDiff indicates diff text with a missing or unparsable
	// header. Fatal for the parse call that saw it.
	MalformedDiff ErrorCode = "MALFORMED_DIFF"
	// ProtocolFailure indicates a bad frame, missing Content-Length,
	// or an error response from the analysis server. Aborts only the
	// current server session.
	ProtocolFailure ErrorCode = "PROTOCOL_FAILURE"
	// SpawnFailure indicates the analysis server executable could not
	// be launched. Aborts only the server attempt.
	SpawnFailure ErrorCode = "SPAWN_FAILURE"
	// BudgetExceeded marks truncation. Never surfaced as a failure.
	BudgetExceeded ErrorCode = "BUDGET_EXCEEDED"
	// InvalidConfig indicates an unusable configuration value
	InvalidConfig ErrorCode = "INVALID_CONFIG"
	// GitFailure indicates a git invocation exited non-zero
	GitFailure ErrorCode = "GIT_FAILURE"
	// Timeout indicates a subprocess exceeded its deadline
	Timeout ErrorCode = "TIMEOUT"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ReviewError carries a stable code, a human message, and an optional
// wrapped cause.
type ReviewError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a ReviewError with the given code and message.
func New(code ErrorCode, message string) *ReviewError {
	return &ReviewError{Code: code, Message: message}
}

// Wrap creates a ReviewError around an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *ReviewError {
	return &ReviewError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *ReviewError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ReviewError) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured details to the error
func (e *ReviewError) WithDetails(details interface{}) *ReviewError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from err or any error it wraps.
// Returns InternalError for nil-safe use on foreign errors.
func CodeOf(err error) ErrorCode {
	var re *ReviewError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code at any depth.
func HasCode(err error, code ErrorCode) bool {
	var re *ReviewError
	if stderrors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsProtocolFailure reports whether err aborted a server session.
func IsProtocolFailure(err error) bool {
	return HasCode(err, ProtocolFailure)
}

// IsSpawnFailure reports whether err prevented a server launch.
func IsSpawnFailure(err error) bool {
	return HasCode(err, SpawnFailure)
}
