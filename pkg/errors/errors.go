package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Environment errors. These abort a run.
	ErrEnvMissing  ErrorCode = "ENV_MISSING"
	ErrUserLookup  ErrorCode = "USER_LOOKUP"
	ErrMirrorReset ErrorCode = "MIRROR_RESET"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Transfer errors. These are reported and the run continues.
	ErrSourceMissing ErrorCode = "SOURCE_MISSING"
	ErrKindMismatch  ErrorCode = "KIND_MISMATCH"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrRemote        ErrorCode = "REMOTE"
	ErrRemoteTimeout ErrorCode = "REMOTE_TIMEOUT"
)

// DotbackError represents a structured error with code and details
type DotbackError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotbackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotbackError) Unwrap() error {
	return e.Wrapped
}

// Is matches any DotbackError carrying the same code
func (e *DotbackError) Is(target error) bool {
	var targetErr *DotbackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotbackError with the given code and message
func New(code ErrorCode, message string) *DotbackError {
	return &DotbackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotbackError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotbackError {
	return &DotbackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *DotbackError {
	if err == nil {
		return nil
	}
	return &DotbackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotbackError {
	if err == nil {
		return nil
	}
	return &DotbackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Join combines errs under one code. It returns nil for an empty list;
// every joined error stays reachable through errors.Is and errors.As.
func Join(errs []error, code ErrorCode, format string, args ...interface{}) error {
	if len(errs) == 0 {
		return nil
	}
	return Wrapf(errors.Join(errs...), code, format, args...).
		WithDetail("count", len(errs))
}

// WithDetail adds a detail to the error
func (e *DotbackError) WithDetail(key string, value interface{}) *DotbackError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dbErr *DotbackError
	if errors.As(err, &dbErr) {
		return dbErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotbackError
func GetErrorCode(err error) ErrorCode {
	var dbErr *DotbackError
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return ErrUnknown
}

// IsFatal reports whether err ends a run instead of being logged and skipped.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrEnvMissing, ErrUserLookup, ErrMirrorReset,
		ErrConfigLoad, ErrConfigParse, ErrConfigValid:
		return true
	}
	return false
}
