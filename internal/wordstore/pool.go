// This file provides size-classed recycling of word storage to reduce GC
// pressure when registers are grown and released repeatedly.

package wordstore

import (
	"math/bits"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Size Classes
// ─────────────────────────────────────────────────────────────────────────────

// wordSliceSizes defines the size classes: 64, 256, 1K, 4K, 16K, 64K, 256K,
// 1M, 4M, 16M words. Requests above the largest class bypass the pools.
var wordSliceSizes = [...]int{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216}

// poolIndex returns the class index for a given size, or -1 if the size is
// too large for pooling.
//
// Sizes are powers of 4 starting from 4^3 = 64, so index i corresponds to
// 4^(i+3) and bits.Len(size-1) maps directly to the index.
func poolIndex(size int) int {
	if size <= 0 {
		return 0
	}
	if size > wordSliceSizes[len(wordSliceSizes)-1] {
		return -1
	}
	idx := (bits.Len(uint(size-1)) - 5) / 2
	if idx < 0 {
		idx = 0
	}
	return idx
}

// ─────────────────────────────────────────────────────────────────────────────
// Pool Allocator
// ─────────────────────────────────────────────────────────────────────────────

// Pool recycles word storage through one sync.Pool per size class. It is
// safe for concurrent use.
type Pool struct {
	pools [len(wordSliceSizes)]sync.Pool
}

// NewPool creates an empty pool allocator.
func NewPool() *Pool {
	p := &Pool{}
	for i := range p.pools {
		size := wordSliceSizes[i]
		p.pools[i].New = func() any { return make([]Word, size) }
	}
	return p
}

func (p *Pool) acquire(size int) []Word {
	idx := poolIndex(size)
	if idx < 0 {
		return make([]Word, size)
	}
	words := p.pools[idx].Get().([]Word)
	clear(words)
	return words
}

// Grow implements Allocator. Pooled results keep the full class length, so
// the caller sees the whole class as capacity.
func (p *Pool) Grow(old []Word, n int) ([]Word, error) {
	if n <= len(old) {
		return old, nil
	}
	if err := checkLimit(n, 0); err != nil {
		return old, err
	}
	words := p.acquire(n)
	copy(words, old)
	p.Release(old)
	return words, nil
}

// Release implements Allocator. Only slices whose capacity is exactly a
// size class go back to a pool; anything else is left to the GC.
func (p *Pool) Release(words []Word) {
	if words == nil {
		return
	}
	c := cap(words)
	idx := poolIndex(c)
	if idx >= 0 && wordSliceSizes[idx] == c {
		p.pools[idx].Put(words[:c])
	}
}
