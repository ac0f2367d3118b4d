// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types for the hioload-pkt library.
//
// Setup and teardown paths (pool creation, queue configuration, runtime
// init) return full errors. Hot paths (alloc, burst I/O) signal failure
// by value — nil buffer, zero count — and never construct errors.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrInvalidArgument       = fmt.Errorf("invalid argument")
	ErrResourceExhausted     = fmt.Errorf("resource exhausted")
	ErrAlreadyExists         = fmt.Errorf("resource already exists")
	ErrNotFound              = fmt.Errorf("resource not found")
	ErrNotSupported          = fmt.Errorf("operation not supported")
	ErrForeignObject         = fmt.Errorf("object does not belong to this pool")
	ErrSegmentLimitExceeded  = fmt.Errorf("chain segment limit exceeded")
	ErrRuntimeNotInitialized = fmt.Errorf("runtime not initialized")
	ErrNotStarted            = fmt.Errorf("queue not started")
	ErrInsufficientHeadroom  = fmt.Errorf("insufficient header room")
	ErrInsufficientTailroom  = fmt.Errorf("insufficient tail room")
	ErrBufferShared          = fmt.Errorf("buffer is shared")
	ErrBuffersOutstanding    = fmt.Errorf("buffers still outstanding")
	ErrReleased              = fmt.Errorf("handle already released")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeAlreadyExists
	ErrCodeNotFound
	ErrCodeNotSupported
	ErrCodeForeignObject
	ErrCodeSegmentLimit
	ErrCodeRuntimeNotInitialized
	ErrCodeNotStarted
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
