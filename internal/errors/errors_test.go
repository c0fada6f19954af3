package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestOperationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected string
		is       error
	}{
		{
			name:     "invalid argument",
			err:      NewOperationError("lsh", -3, ErrInvalidArgument),
			expected: "lsh(-3): invalid argument",
			is:       ErrInvalidArgument,
		},
		{
			name:     "out of range",
			err:      NewOperationError("clearbit", 200, ErrOutOfRange),
			expected: "clearbit(200): out of range",
			is:       ErrOutOfRange,
		},
		{
			name:     "allocation failure through memory error",
			err:      NewOperationError("setbit", 1<<20, MemoryError{Requested: 16385, Limit: 1024}),
			expected: "setbit(1048576): memory error: requested 16385 words (limit: 1024)",
			is:       ErrAllocationFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if !errors.Is(tt.err, tt.is) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.is)
			}
			var opErr *OperationError
			if !errors.As(tt.err, &opErr) {
				t.Fatal("expected error to be *OperationError")
			}
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	t.Parallel()
	sentinels := []error{ErrInvalidArgument, ErrAllocationFailure, ErrOutOfRange, ErrMismatch}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}

func TestConfigError(t *testing.T) {
	t.Parallel()
	err := NewConfigError("unknown allocator %q (valid: %s)", "slab", "heap, pool, arena")
	if got, want := err.Error(), `unknown allocator "slab" (valid: heap, pool, arena)`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	var cfgErr ConfigError
	if !errors.As(fmt.Errorf("parse: %w", err), &cfgErr) {
		t.Fatal("errors.As should find ConfigError through wrapping")
	}
	if ExitCodeFor(err) != ExitErrorConfig {
		t.Error("ConfigError should map to ExitErrorConfig")
	}
}

func TestScriptError(t *testing.T) {
	t.Parallel()
	cause := NewOperationError("clearbit", 70, ErrOutOfRange)
	err := ScriptError{Script: "demo.bits", Line: 4, Cause: cause}

	if got, want := err.Error(), "demo.bits:4: clearbit(70): out of range"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Error("errors.Is should find ErrOutOfRange through ScriptError")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the original cause")
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	for limit, want := range map[time.Duration]string{
		30 * time.Second:       `operation "walk.bits" timed out after 30s`,
		500 * time.Millisecond: `operation "walk.bits" timed out after 500ms`,
	} {
		err := ScriptError{Script: "walk.bits", Line: 9, Cause: TimeoutError{Operation: "walk.bits", Limit: limit}}
		if got := err.Cause.Error(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
		var timeoutErr TimeoutError
		if !errors.As(err, &timeoutErr) || timeoutErr.Limit != limit {
			t.Errorf("errors.As should recover the %s limit", limit)
		}
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	var err error = ValidationError{Field: "allocator", Message: "unknown allocator"}
	if got, want := err.Error(), `validation error for "allocator": unknown allocator`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	wrapped := WrapError(err, "config check failed")
	var validationErr ValidationError
	if !errors.As(wrapped, &validationErr) {
		t.Error("errors.As should find ValidationError through WrapError")
	}
}

func TestMemoryError(t *testing.T) {
	t.Parallel()
	err := MemoryError{Requested: 4096, Limit: 1024}
	if got, want := err.Error(), "memory error: requested 4096 words (limit: 1024)"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(err, ErrAllocationFailure) {
		t.Error("MemoryError should match ErrAllocationFailure")
	}
	if errors.Is(err, ErrOutOfRange) {
		t.Error("MemoryError should not match ErrOutOfRange")
	}
	var memErr MemoryError
	if !errors.As(fmt.Errorf("grow: %w", err), &memErr) || memErr.Requested != 4096 {
		t.Error("errors.As should recover MemoryError fields")
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "saving %s", "out.txt") != nil {
		t.Error("WrapError(nil, ...) should return nil")
	}

	wrapped := WrapError(ErrOutOfRange, "register %s bit %d", "a", 99)
	if got, want := wrapped.Error(), "register a bit 99: out of range"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(wrapped, ErrOutOfRange) {
		t.Error("wrapped error should keep ErrOutOfRange in the chain")
	}

	deadline := WrapError(context.DeadlineExceeded, "script")
	if !errors.Is(deadline, context.DeadlineExceeded) || ExitCodeFor(deadline) != ExitErrorTimeout {
		t.Error("wrapped deadline should still classify as a timeout")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", NewConfigError("bad flag"), ExitErrorConfig},
		{"timeout type", TimeoutError{Operation: "batch", Limit: time.Second}, ExitErrorTimeout},
		{"deadline", WrapError(context.DeadlineExceeded, "script"), ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"mismatch", ScriptError{Script: "s", Line: 2, Cause: ErrMismatch}, ExitErrorMismatch},
		{"operation", NewOperationError("rsh", -1, ErrInvalidArgument), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	t.Parallel()
	codes := []int{ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorMismatch, ExitErrorConfig, ExitErrorCanceled}
	seen := map[int]bool{}
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d is used twice", c)
		}
		seen[c] = true
	}
	if ExitSuccess != 0 || ExitErrorCanceled != 130 {
		t.Errorf("ExitSuccess = %d, ExitErrorCanceled = %d", ExitSuccess, ExitErrorCanceled)
	}
}
