package wordstore

import apperrors "github.com/agbru/mpbits/internal/errors"

// Arena pre-allocates one contiguous block of words and hands out
// sub-slices with a bump pointer. Storage is reclaimed in bulk by Reset;
// Release of an arena slice is a no-op.
//
// When the block is exhausted the arena falls back to another allocator,
// or fails with ErrAllocationFailure when it has none. An Arena is not safe
// for concurrent use.
type Arena struct {
	buf      []Word
	offset   int
	fallback Allocator
}

// NewArena creates an arena of the given number of words. A nil fallback
// makes the arena strict.
func NewArena(words int, fallback Allocator) *Arena {
	a := &Arena{fallback: fallback}
	if words > 0 {
		a.buf = make([]Word, words)
	}
	return a
}

// Grow implements Allocator.
func (a *Arena) Grow(old []Word, n int) ([]Word, error) {
	if n <= len(old) {
		return old, nil
	}
	if n > len(a.buf)-a.offset {
		if a.fallback == nil {
			return old, apperrors.MemoryError{
				Requested: uint64(n),
				Limit:     uint64(len(a.buf) - a.offset),
			}
		}
		return a.fallback.Grow(old, n)
	}
	// Full slice expression so appends can never run into the next block.
	words := a.buf[a.offset : a.offset+n : a.offset+n]
	a.offset += n
	clear(words[copy(words, old):])
	return words, nil
}

// Release implements Allocator.
func (a *Arena) Release([]Word) {}

// Reset makes the whole block available again. Every slice previously
// handed out becomes invalid.
func (a *Arena) Reset() {
	a.offset = 0
}

// UsedWords returns the number of words currently allocated from the arena.
func (a *Arena) UsedWords() int {
	return a.offset
}

// CapacityWords returns the total capacity of the arena in words.
func (a *Arena) CapacityWords() int {
	return len(a.buf)
}
