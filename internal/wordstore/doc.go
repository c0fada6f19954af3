// Package wordstore provides the word-vector storage used by big-integer
// values. An Allocator grows a word slice to a requested capacity, copying
// the existing prefix and zeroing the rest, and reports failure instead of
// panicking when a request cannot be served.
//
// Available strategies:
//   - Heap: plain make with a little headroom, bounded by MaxWords.
//   - Pool: size-classed sync.Pool recycling, adapted for short-lived
//     registers that are grown and released repeatedly.
//   - Arena: bump-pointer sub-allocation from one block, reset in bulk.
//
// Allocators compose: Limit caps any allocator, Instrument reports to an
// Observer (metrics, logging, counters).
package wordstore
