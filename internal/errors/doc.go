// Package apperrors defines the error taxonomy shared by the big-integer
// core and the command-line application: sentinel errors for the bit and
// shift operations, structured error types carrying diagnostic context,
// and the process exit codes derived from them.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All wrapping error types implement Unwrap() to support errors.Is() and errors.As().
package apperrors
