// Package errors provides structured error handling for objectpool.
//
// Errors carry a category (ErrorType), a message, an optional cause, key-value
// details and the call stack captured where they were created. Pool and queue
// operations report the failure categories of the pool contract:
//
//   - ErrorTypeCancelled: a wait in Take/Put was cancelled through its context
//   - ErrorTypeClosed: an operation was attempted on a closed pool or queue
//   - ErrorTypeCapacity: a non-growing store rejected an insert
//   - ErrorTypeEmpty: a removal found nothing to remove
//
// Sentinel values (ErrCancelled, ErrClosed, ErrFull, ErrEmpty) match any
// *Error of the same type through errors.Is, so callers never compare
// messages:
//
//	obj, err := p.TakeInterruptibly(ctx)
//	if errors.Is(err, poolerrors.ErrCancelled) {
//	    // ctx was cancelled while waiting
//	}
//
// The original context error stays reachable through Unwrap, so
// errors.Is(err, context.DeadlineExceeded) also works.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid construction arguments
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeCancelled represents a wait interrupted by context cancellation
	ErrorTypeCancelled ErrorType = "cancelled"
	// ErrorTypeClosed represents use of a closed pool or queue
	ErrorTypeClosed ErrorType = "closed"
	// ErrorTypeCapacity represents an insert rejected by a full store
	ErrorTypeCapacity ErrorType = "capacity"
	// ErrorTypeEmpty represents a removal from an empty store
	ErrorTypeEmpty ErrorType = "empty"
)

// Sentinels for errors.Is checks. They match by ErrorType only.
var (
	ErrCancelled = &Error{Type: ErrorTypeCancelled, Message: "operation cancelled"}
	ErrClosed    = &Error{Type: ErrorTypeClosed, Message: "pool is closed"}
	ErrFull      = &Error{Type: ErrorTypeCapacity, Message: "queue is full"}
	ErrEmpty     = &Error{Type: ErrorTypeEmpty, Message: "queue is empty"}
)

// Error represents a structured error with context.
//
// Fields:
//   - Type: categorizes the error
//   - Message: human-readable description
//   - Cause: the underlying error, if any
//   - Details: key-value pairs with additional context
//   - Stack: call stack at the point of creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same type. This lets the
// package sentinels match errors created anywhere with New or Wrap.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type
}

// WithDetail adds a key-value detail to the error. Calls can be chained.
//
// Example:
//
//	err := errors.New(errors.ErrorTypeValidation, "size must be positive").
//	    WithDetail("size", size)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message, capturing the
// call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving it as the
// cause. If err is already a structured Error its stack is kept. Returns nil
// if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// Cancelled wraps a context error as an ErrorTypeCancelled error for the
// named operation.
func Cancelled(op string, cause error) *Error {
	return Wrap(cause, ErrorTypeCancelled, op+" interrupted")
}

// Closed returns an ErrorTypeClosed error for the named operation.
func Closed(op string) *Error {
	return New(ErrorTypeClosed, op+" on closed pool")
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsCancelled reports whether err is a cancellation error
func IsCancelled(err error) bool {
	return IsType(err, ErrorTypeCancelled)
}

// IsClosed reports whether err is a closed-resource error
func IsClosed(err error) bool {
	return IsType(err, ErrorTypeClosed)
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
