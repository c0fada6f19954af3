//go:generate mockgen -source=allocator.go -destination=mocks/mock_allocator.go -package=mocks

package wordstore

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"strings"

	apperrors "github.com/agbru/mpbits/internal/errors"
)

// Word is a single machine word of a big-integer magnitude.
type Word = big.Word

// DefaultMaxWords bounds a single storage request of the default allocators
// (16M words, 128MB on 64-bit platforms).
const DefaultMaxWords = 1 << 24

// maxAllocShift is log2 of the largest byte size make accepts: the
// runtime's 48-bit heap address limit on 64-bit platforms, the int range
// on 32-bit ones.
const maxAllocShift = 48 - (64-bits.UintSize)/32*17

// MaxRequestWords is the largest request any allocator in this package
// passes to make. Larger requests fail with a MemoryError even when no
// MaxWords ceiling is configured.
const MaxRequestWords = (1 << maxAllocShift) / (bits.UintSize / 8)

// heapHeadroom is the number of extra words handed out with each heap
// allocation so that small subsequent growth does not reallocate.
const heapHeadroom = 4

// Allocator grows word storage for big-integer values.
//
// Grow returns a slice whose length is at least n. When len(old) >= n it
// returns old unchanged. Otherwise the result starts with a copy of old and
// is zero beyond it; old must not be used afterwards. On failure the error
// matches apperrors.ErrAllocationFailure and old is left untouched.
//
// Release hands storage back once its owner no longer needs it. Passing
// nil is allowed.
type Allocator interface {
	Grow(old []Word, n int) ([]Word, error)
	Release(words []Word)
}

// Heap allocates storage with make. The zero value is usable and is
// bounded only by MaxRequestWords.
type Heap struct {
	// MaxWords rejects requests above this many words. Zero, or a value
	// above MaxRequestWords, means MaxRequestWords.
	MaxWords int
}

var defaultHeap = &Heap{MaxWords: DefaultMaxWords}

// Default returns the shared heap allocator bounded by DefaultMaxWords.
func Default() Allocator { return defaultHeap }

// Grow implements Allocator.
func (h *Heap) Grow(old []Word, n int) ([]Word, error) {
	if n <= len(old) {
		return old, nil
	}
	if err := checkLimit(n, h.MaxWords); err != nil {
		return old, err
	}
	size := n
	if ceiling := effectiveLimit(h.MaxWords); n <= ceiling-heapHeadroom {
		size += heapHeadroom
	} else {
		size = ceiling
	}
	words := make([]Word, size)
	copy(words, old)
	return words, nil
}

// Release implements Allocator. Heap storage is left to the garbage collector.
func (h *Heap) Release([]Word) {}

// effectiveLimit caps a configured ceiling at MaxRequestWords. A
// non-positive limit means MaxRequestWords.
func effectiveLimit(limit int) int {
	if limit <= 0 || limit > MaxRequestWords {
		return MaxRequestWords
	}
	return limit
}

func checkLimit(n, limit int) error {
	if ceiling := effectiveLimit(limit); n > ceiling {
		return apperrors.MemoryError{Requested: uint64(n), Limit: uint64(ceiling)}
	}
	return nil
}

type limited struct {
	Allocator
	maxWords int
}

// Limit wraps a so that requests for more than maxWords words fail with a
// MemoryError before reaching a. A non-positive maxWords returns a unchanged.
func Limit(a Allocator, maxWords int) Allocator {
	if maxWords <= 0 {
		return a
	}
	return &limited{Allocator: a, maxWords: maxWords}
}

func (l *limited) Grow(old []Word, n int) ([]Word, error) {
	if n <= len(old) {
		return old, nil
	}
	if err := checkLimit(n, l.maxWords); err != nil {
		return old, err
	}
	return l.Allocator.Grow(old, n)
}

// Options configures the allocator built by New.
type Options struct {
	// MaxWords caps a single request. Zero selects DefaultMaxWords.
	MaxWords int
	// ArenaWords sizes the block of an arena allocator.
	ArenaWords int
	// Observer, when non-nil, receives storage events.
	Observer Observer
}

// Kinds lists the allocator names accepted by New.
var Kinds = []string{"heap", "pool", "arena"}

// New builds an allocator by name.
//
// Parameters:
//   - kind: One of Kinds (case-insensitive).
//   - opts: Sizing and observation options.
//
// Returns:
//   - Allocator: The configured allocator.
//   - error: A ValidationError if kind is unknown or a size is negative.
func New(kind string, opts Options) (Allocator, error) {
	if opts.MaxWords < 0 {
		return nil, apperrors.ValidationError{Field: "max-words", Message: "must be non-negative"}
	}
	if opts.ArenaWords < 0 {
		return nil, apperrors.ValidationError{Field: "arena-words", Message: "must be non-negative"}
	}
	maxWords := opts.MaxWords
	if maxWords == 0 {
		maxWords = DefaultMaxWords
	}

	var a Allocator
	switch strings.ToLower(kind) {
	case "", "heap":
		a = &Heap{MaxWords: maxWords}
	case "pool":
		a = Limit(Shared(), maxWords)
	case "arena":
		a = Limit(NewArena(opts.ArenaWords, &Heap{MaxWords: maxWords}), maxWords)
	default:
		return nil, apperrors.ValidationError{
			Field:   "allocator",
			Message: fmt.Sprintf("unknown allocator %q (valid: %s)", kind, strings.Join(Kinds, ", ")),
		}
	}
	if opts.Observer != nil {
		a = Instrument(a, opts.Observer)
	}
	return a, nil
}

// IsAllocationFailure reports whether err is a storage growth failure.
func IsAllocationFailure(err error) bool {
	return errors.Is(err, apperrors.ErrAllocationFailure)
}
