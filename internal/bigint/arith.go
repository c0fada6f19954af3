package bigint

import (
	"math/big"
	"math/bits"
)

// Word is one machine word of a magnitude.
type Word = big.Word

const (
	// _W is the word size in bits.
	_W = bits.UintSize
	// allOnes is a word with every bit set.
	allOnes = ^Word(0)
)

// shlVU sets dst = src << s for 0 < s < _W, where len(dst) == len(src)+1.
// Words are combined pairwise from the most significant end, so dst may
// overlap src as long as it starts at the same or a higher address.
func shlVU(dst, src []Word, s uint) {
	m := len(src)
	rs := _W - s
	dst[m] = src[m-1] >> rs
	for i := m - 1; i > 0; i-- {
		dst[i] = src[i]<<s | src[i-1]>>rs
	}
	dst[0] = src[0] << s
}

// shrVU sets dst = src >> s for 0 < s < _W, where len(dst) == len(src).
// Words are combined pairwise from the least significant end, so dst may
// overlap src as long as it starts at the same or a lower address. The top
// destination word receives only the shifted-down remainder of the top
// source word.
func shrVU(dst, src []Word, s uint) {
	m := len(src)
	rs := _W - s
	for i := 0; i < m-1; i++ {
		dst[i] = src[i]>>s | src[i+1]<<rs
	}
	dst[m-1] = src[m-1] >> s
}

// trailingZeroBits returns the number of consecutive zero bits at the
// bottom of a non-zero word.
func trailingZeroBits(w Word) int {
	return bits.TrailingZeros(uint(w))
}
