package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// Kind classifies an error into the fixed taxonomy used at the request boundary
type Kind string

const (
	// Caller-misuse and domain conditions
	KindValidation     Kind = "VALIDATION"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindNotFound       Kind = "NOT_FOUND"
	KindConflict       Kind = "CONFLICT"
	KindTimeout        Kind = "TIMEOUT"
	KindNotImplemented Kind = "NOT_IMPLEMENTED"

	// Startup conditions
	KindConfiguration Kind = "CONFIGURATION"

	// Everything else
	KindInternal Kind = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Kind       Kind
	Message    string
	Cause      error
	StackTrace string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newError(kind Kind, message string) *AppError {
	return &AppError{
		Kind:       kind,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// NewValidationError creates an invalid-argument error
func NewValidationError(message string) *AppError {
	return newError(KindValidation, message)
}

// NewUnauthorizedError creates an unauthorized-access error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newError(KindUnauthorized, message)
}

// NewNotFoundError creates a missing-resource error
func NewNotFoundError(resource string) *AppError {
	return newError(KindNotFound, fmt.Sprintf("%s not found", resource))
}

// NewConflictError creates an invalid-operation error
func NewConflictError(message string) *AppError {
	return newError(KindConflict, message)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(operation string) *AppError {
	return newError(KindTimeout, fmt.Sprintf("operation '%s' timed out", operation))
}

// NewNotImplementedError creates a not-implemented error
func NewNotImplementedError(feature string) *AppError {
	return newError(KindNotImplemented, fmt.Sprintf("%s is not implemented", feature))
}

// NewConfigurationError creates an invalid-configuration error
func NewConfigurationError(message string) *AppError {
	return newError(KindConfiguration, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newError(KindInternal, message)
}

// GetAppError extracts an AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind checks if an error carries a specific kind
func IsKind(err error, kind Kind) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Kind == kind
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// KindOf resolves the taxonomy kind of an arbitrary error. Context deadline
// errors classify as timeouts even without an AppError in the chain.
func KindOf(err error) Kind {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}

// Classify maps an error to the HTTP status code and title used in the
// problem-details response. First match on the kind wins; anything
// unclassified falls through to 500.
func Classify(err error) (int, string) {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest, "Invalid Request"
	case KindUnauthorized:
		return http.StatusUnauthorized, "Unauthorized"
	case KindNotFound:
		return http.StatusNotFound, "Resource Not Found"
	case KindConflict:
		return http.StatusConflict, "Operation Conflict"
	case KindTimeout:
		return http.StatusRequestTimeout, "Request Timeout"
	case KindNotImplemented:
		return http.StatusNotImplemented, "Not Implemented"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
