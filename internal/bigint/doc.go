// Package bigint implements the bit-level layer of an arbitrary-precision
// integer: multi-word and single-bit shifts in both directions, setting,
// clearing and testing individual bits, truncation to the low n bits, and
// counting trailing zero bits.
//
// An Int stores its magnitude as little-endian machine words together with
// a significant-word count (its width) and a sign flag. Every mutator
// leaves the value in minimal form: the most significant counted word is
// non-zero, and zero has width 0 and is never negative.
//
// Storage is obtained from a wordstore.Allocator. Each mutator computes the
// width it needs and reserves that capacity before writing anything, so a
// failed reservation leaves the destination exactly as it was.
//
// Source and destination may be the same value. Left shifts write from the
// most significant word down and right shifts from the least significant
// word up, which is what makes in-place operation safe.
//
// Values are not safe for concurrent use.
package bigint
