package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit codes. See ExitCodeFor.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorMismatch = 3 // an assert did not hold
	ExitErrorConfig   = 4
	ExitErrorCanceled = 130 // SIGINT
)

// Sentinel errors reported by the bit-manipulation core. Every failing
// operation wraps exactly one of them, so callers branch with errors.Is.
var (
	// ErrInvalidArgument reports a negative shift amount or bit index, or a
	// mask that addresses bits beyond the current width.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAllocationFailure reports that word storage could not be grown.
	ErrAllocationFailure = errors.New("allocation failure")
	// ErrOutOfRange reports a bit index beyond the value's width, or an
	// externally supplied index that does not fit the platform int.
	ErrOutOfRange = errors.New("out of range")
	// ErrMismatch reports a value that differs from an expected one.
	ErrMismatch = errors.New("mismatch")
)

// OperationError describes a failed operation on a big integer. It keeps the
// operation name and its integer argument for diagnostics and unwraps to
// one of the sentinel errors.
type OperationError struct {
	// Op is the name of the failing operation (e.g. "lsh", "clearbit").
	Op string
	// Arg is the shift amount, bit index, or word count involved.
	Arg int
	// Err is the underlying cause.
	Err error
}

// Error returns a message of the form "op(arg): cause".
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s(%d): %v", e.Op, e.Arg, e.Err)
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error { return e.Err }

// NewOperationError creates an OperationError.
//
// Parameters:
//   - op: The operation name.
//   - arg: The integer argument that was rejected or could not be served.
//   - err: The cause, normally one of the sentinel errors.
//
// Returns:
//   - error: The new *OperationError.
func NewOperationError(op string, arg int, err error) error {
	return &OperationError{Op: op, Arg: arg, Err: err}
}

// ConfigError reports a bad flag, environment value, config file or
// script path. Nothing runs when one is returned.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ScriptError attaches a script name and line number to a failure raised
// while executing a command.
type ScriptError struct {
	// Script is the script name ("-e", a file path, or "repl").
	Script string
	// Line is the 1-based line number of the failing command.
	Line int
	// Cause is the underlying error.
	Cause error
}

// Error returns "script:line: cause".
func (e ScriptError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Script, e.Line, e.Cause)
}

// Unwrap returns the underlying cause.
func (e ScriptError) Unwrap() error { return e.Cause }

// TimeoutError replaces the deadline cause of a script that ran past
// --timeout, so the message names the limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError reports an invalid allocator setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// MemoryError reports a word-storage request that exceeds a configured
// ceiling. It matches ErrAllocationFailure under errors.Is.
type MemoryError struct {
	// Requested is the number of words the operation needed.
	Requested uint64
	// Limit is the configured ceiling in words.
	Limit uint64
}

// Error returns a formatted message describing the memory error.
func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d words (limit: %d)", e.Requested, e.Limit)
}

// Is reports whether target is ErrAllocationFailure.
func (e MemoryError) Is(target error) bool { return target == ErrAllocationFailure }

// WrapError prefixes err with a formatted message, keeping it in the
// chain. A nil err yields nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code.
//
// Parameters:
//   - err: The error to classify; nil maps to ExitSuccess.
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCodeFor(err error) int {
	var cfgErr ConfigError
	var timeoutErr TimeoutError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, ErrMismatch):
		return ExitErrorMismatch
	default:
		return ExitErrorGeneric
	}
}
