package wordstore

import "sync/atomic"

// PreWarm puts count buffers of the class holding words into the pool, so
// the first registers of a session are served without allocating.
// Sizes above the largest class are ignored.
//
// The number of buffers adapts to the class when count is zero:
//   - up to 1K words: 8 buffers
//   - up to 64K words: 4 buffers
//   - larger: 2 buffers
func (p *Pool) PreWarm(words, count int) {
	idx := poolIndex(words)
	if idx < 0 {
		return
	}
	size := wordSliceSizes[idx]
	if count <= 0 {
		switch {
		case size <= 1024:
			count = 8
		case size <= 65536:
			count = 4
		default:
			count = 2
		}
	}
	for i := 0; i < count; i++ {
		p.pools[idx].Put(make([]Word, size))
	}
}

// warmed tracks whether the shared pool has been pre-warmed.
var warmed atomic.Bool

var sharedPool = NewPool()

// Shared returns the process-wide pool allocator.
func Shared() *Pool { return sharedPool }

// EnsureWarmed pre-warms the shared pool exactly once. It is safe to call
// concurrently; only the first call does any work.
//
// Returns:
//   - bool: true if this call performed the warming.
func EnsureWarmed(words int) bool {
	if warmed.CompareAndSwap(false, true) {
		sharedPool.PreWarm(words, 0)
		return true
	}
	return false
}
