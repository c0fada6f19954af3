package bigint

import (
	"math"

	apperrors "github.com/agbru/mpbits/internal/errors"
)

// Lsh sets z = x << n, shifting the magnitude left by n bits and copying
// the sign of x. z and x may be the same value.
//
// Parameters:
//   - x: The value to shift.
//   - n: The shift amount in bits; must be non-negative.
//
// Returns:
//   - error: ErrInvalidArgument for n < 0, ErrAllocationFailure when the
//     result does not fit. z is unchanged on error.
func (z *Int) Lsh(x *Int, n int) error {
	if n < 0 {
		return apperrors.NewOperationError("lsh", n, apperrors.ErrInvalidArgument)
	}
	m := x.width
	if m == 0 {
		z.setZero()
		return nil
	}
	nw, lb := n/_W, uint(n%_W)
	if nw > math.MaxInt-m-1 {
		return apperrors.NewOperationError("lsh", n, apperrors.ErrAllocationFailure)
	}
	neg := x.neg
	if err := z.reserve("lsh", n, m+nw+1); err != nil {
		return err
	}

	// Read x.words only after reserving: when z == x the storage may move.
	src, dst := x.words[:m], z.words
	if lb == 0 {
		dst[m+nw] = 0
		copy(dst[nw:nw+m], src) // copy is overlap-safe
	} else {
		shlVU(dst[nw:nw+m+1], src, lb)
	}
	clear(dst[:nw])

	z.width = m + nw + 1
	z.neg = neg
	z.norm()
	return nil
}

// Lsh1 sets z = x << 1 with a single carry sweep from the least significant
// word up. It produces the same result as Lsh(x, 1).
func (z *Int) Lsh1(x *Int) error {
	m := x.width
	if m == 0 {
		z.setZero()
		return nil
	}
	neg := x.neg
	if err := z.reserve("lsh1", 1, m+1); err != nil {
		return err
	}

	src, dst := x.words[:m], z.words
	var carry Word
	for i, w := range src {
		dst[i] = w<<1 | carry
		carry = w >> (_W - 1)
	}
	if carry != 0 {
		dst[m] = 1
		m++
	}

	z.width = m
	z.neg = neg
	return nil
}

// Rsh sets z = x >> n, shifting the magnitude right by n bits and keeping
// the sign of x, i.e. the magnitude is truncated toward zero. Shifting out
// every significant bit yields zero; that is not an error.
//
// Parameters:
//   - x: The value to shift.
//   - n: The shift amount in bits; must be non-negative.
//
// Returns:
//   - error: ErrInvalidArgument for n < 0, ErrAllocationFailure when z
//     cannot be grown. z is unchanged on error.
func (z *Int) Rsh(x *Int, n int) error {
	if n < 0 {
		return apperrors.NewOperationError("rsh", n, apperrors.ErrInvalidArgument)
	}
	m := x.width
	nw, rb := n/_W, uint(n%_W)
	if m == 0 || nw >= m {
		z.setZero()
		return nil
	}
	neg := x.neg
	rw := m - nw
	if err := z.reserve("rsh", n, rw); err != nil {
		return err
	}

	src, dst := x.words[nw:m], z.words[:rw]
	if rb == 0 {
		copy(dst, src)
	} else {
		shrVU(dst, src, rb)
	}

	z.width = rw
	z.neg = neg
	z.norm()
	return nil
}

// Rsh1 sets z = x >> 1 with a single carry sweep from the most significant
// word down. A top word that becomes zero is dropped immediately.
func (z *Int) Rsh1(x *Int) error {
	m := x.width
	if m == 0 {
		z.setZero()
		return nil
	}
	neg := x.neg
	if err := z.reserve("rsh1", 1, m); err != nil {
		return err
	}

	src, dst := x.words[:m], z.words
	var carry Word
	for i := m - 1; i >= 0; i-- {
		w := src[i]
		dst[i] = w>>1 | carry
		carry = w << (_W - 1)
	}
	if dst[m-1] == 0 {
		m--
	}

	z.width = m
	z.neg = neg
	z.norm()
	return nil
}
