package orchestration

import (
	"github.com/agbru/mpbits/internal/wordstore"
)

// AllocatorFactory returns a fresh allocator for one script, so scripts
// running concurrently never share an arena or a word budget.
type AllocatorFactory func() (wordstore.Allocator, error)

// NewAllocatorFactory validates kind and opts once and returns a factory
// producing that allocator. Arenas are per script; heap and pool
// allocators wrap shared state and are cheap to create.
func NewAllocatorFactory(kind string, opts wordstore.Options) (AllocatorFactory, error) {
	if _, err := wordstore.New(kind, opts); err != nil {
		return nil, err
	}
	return func() (wordstore.Allocator, error) {
		return wordstore.New(kind, opts)
	}, nil
}
