package bigint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	apperrors "github.com/agbru/mpbits/internal/errors"
)

// BitIndex converts an externally supplied shift amount or bit position to
// int. Values that do not fit the platform int are rejected rather than
// wrapped. Negative values pass through; the operations reject them.
func BitIndex(v int64) (int, error) {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, fmt.Errorf("bit index %d: %w: %w", v, apperrors.ErrOutOfRange, err)
	}
	return n, nil
}

// BitIndexUint64 is BitIndex for unsigned input.
func BitIndexUint64(v uint64) (int, error) {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, fmt.Errorf("bit index %d: %w: %w", v, apperrors.ErrOutOfRange, err)
	}
	return n, nil
}

// ParseBitIndex parses a shift amount or bit position written in decimal
// or with a 0x, 0o or 0b prefix, and converts it with BitIndex.
// Syntax errors match ErrInvalidArgument, magnitudes beyond 64 bits or the
// platform int match ErrOutOfRange.
func ParseBitIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return BitIndex(v)
	}
	if !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("bit index %q: %w", s, apperrors.ErrInvalidArgument)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("bit index %q: %w", s, apperrors.ErrOutOfRange)
	}
	u, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bit index %q: %w", s, apperrors.ErrOutOfRange)
	}
	return BitIndexUint64(u)
}
