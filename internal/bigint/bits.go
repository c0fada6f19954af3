package bigint

import apperrors "github.com/agbru/mpbits/internal/errors"

// SetBit sets bit n of the magnitude of z, growing z when n lies beyond its
// width. Words exposed by the growth are zeroed. The width never shrinks.
func (z *Int) SetBit(n int) error {
	if n < 0 {
		return apperrors.NewOperationError("setbit", n, apperrors.ErrInvalidArgument)
	}
	j, b := n/_W, uint(n%_W)
	if j >= z.width {
		if err := z.reserve("setbit", n, j+1); err != nil {
			return err
		}
		clear(z.words[z.width : j+1])
		z.width = j + 1
	}
	z.words[j] |= 1 << b
	return nil
}

// ClearBit clears bit n of the magnitude of z. Unlike IsBitSet, a bit
// beyond the current width is reported as ErrOutOfRange. Clearing the top
// bit may shrink the width by several words.
func (z *Int) ClearBit(n int) error {
	if n < 0 {
		return apperrors.NewOperationError("clearbit", n, apperrors.ErrInvalidArgument)
	}
	j, b := n/_W, uint(n%_W)
	if j >= z.width {
		return apperrors.NewOperationError("clearbit", n, apperrors.ErrOutOfRange)
	}
	z.words[j] &^= 1 << b
	z.norm()
	return nil
}

// IsBitSet reports whether bit n of the magnitude of z is set. Negative or
// out-of-range positions read as unset.
func (z *Int) IsBitSet(n int) bool {
	return IsBitSetWords(z.words, z.width, n)
}

// IsBitSetWords reports whether bit n is set in the first length words of
// a little-endian word vector. length is clamped to len(words), so a bad
// length never indexes outside the slice.
func IsBitSetWords(words []Word, length, n int) bool {
	length = min(length, len(words))
	if n < 0 {
		return false
	}
	j := n / _W
	if j >= length {
		return false
	}
	return words[j]>>(uint(n%_W))&1 == 1
}

// MaskBits truncates z to its low n bits (z mod 2^n on the magnitude).
// It fails if n is negative or addresses bits beyond the current width.
func (z *Int) MaskBits(n int) error {
	if n < 0 {
		return apperrors.NewOperationError("maskbits", n, apperrors.ErrInvalidArgument)
	}
	w, b := n/_W, uint(n%_W)
	if w > z.width || (w == z.width && b != 0) {
		return apperrors.NewOperationError("maskbits", n, apperrors.ErrInvalidArgument)
	}
	if b == 0 {
		z.width = w
	} else {
		z.width = w + 1
		z.words[w] &^= allOnes << b
	}
	z.norm()
	return nil
}

// CountLowZeroBits returns the index of the least significant set bit of
// the magnitude. It returns 0 for zero.
func (z *Int) CountLowZeroBits() int {
	for i := 0; i < z.width; i++ {
		if w := z.words[i]; w != 0 {
			return i*_W + trailingZeroBits(w)
		}
	}
	return 0
}
