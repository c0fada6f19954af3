package bigint

import (
	"fmt"
	"math/big"
	"math/bits"

	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/wordstore"
)

// Int is a signed arbitrary-precision integer stored as a little-endian
// vector of machine words. The zero value is zero and uses the default
// heap allocator.
type Int struct {
	// words holds the storage; len(words) is the capacity and words[i]
	// carries bits [i*_W, (i+1)*_W) of the magnitude.
	words []Word
	// width is the number of significant words.
	width int
	// neg is the sign; it is never set while the magnitude is zero.
	neg   bool
	alloc wordstore.Allocator
}

// New returns a zero Int whose storage comes from alloc. A nil alloc
// selects wordstore.Default().
func New(alloc wordstore.Allocator) *Int {
	return &Int{alloc: alloc}
}

func (z *Int) allocator() wordstore.Allocator {
	if z.alloc == nil {
		return wordstore.Default()
	}
	return z.alloc
}

// reserve makes sure z can hold k words. It is the only place storage is
// grown; on failure z is unchanged.
func (z *Int) reserve(op string, arg, k int) error {
	if k <= len(z.words) {
		return nil
	}
	words, err := z.allocator().Grow(z.words, k)
	if err != nil {
		return apperrors.NewOperationError(op, arg, err)
	}
	if len(words) < k {
		return apperrors.NewOperationError(op, arg, apperrors.ErrAllocationFailure)
	}
	z.words = words
	return nil
}

// norm drops leading zero words and clears the sign of zero.
func (z *Int) norm() {
	for z.width > 0 && z.words[z.width-1] == 0 {
		z.width--
	}
	if z.width == 0 {
		z.neg = false
	}
}

func (z *Int) setZero() {
	z.width = 0
	z.neg = false
}

// Reserve ensures capacity for at least k words without changing the value.
func (z *Int) Reserve(k int) error {
	if k < 0 {
		return apperrors.NewOperationError("reserve", k, apperrors.ErrInvalidArgument)
	}
	return z.reserve("reserve", k, k)
}

// Release hands the storage back to the allocator and resets z to zero.
func (z *Int) Release() {
	if z.words != nil {
		z.allocator().Release(z.words)
	}
	z.words = nil
	z.setZero()
}

// Width returns the number of significant words.
func (z *Int) Width() int { return z.width }

// Cap returns the number of words z can hold without growing.
func (z *Int) Cap() int { return len(z.words) }

// IsZero reports whether z == 0.
func (z *Int) IsZero() bool { return z.width == 0 }

// IsNegative reports whether z < 0.
func (z *Int) IsNegative() bool { return z.neg }

// SetNegative sets the sign of z. Zero stays non-negative.
func (z *Int) SetNegative(neg bool) {
	z.neg = neg && z.width > 0
}

// BitLen returns the length of the magnitude in bits. The bit length of 0 is 0.
func (z *Int) BitLen() int {
	if z.width == 0 {
		return 0
	}
	return (z.width-1)*_W + bits.Len(uint(z.words[z.width-1]))
}

// Words returns a copy of the significant words, least significant first.
func (z *Int) Words() []Word {
	return append([]Word(nil), z.words[:z.width]...)
}

// SetWords sets the magnitude of z to the little-endian words ws and makes
// z non-negative. Leading zero words in ws are ignored.
func (z *Int) SetWords(ws []Word) error {
	n := len(ws)
	for n > 0 && ws[n-1] == 0 {
		n--
	}
	if err := z.reserve("setwords", n, n); err != nil {
		return err
	}
	copy(z.words, ws[:n])
	z.width = n
	z.neg = false
	return nil
}

// SetUint64 sets z to x.
func (z *Int) SetUint64(x uint64) error {
	return z.SetBig(new(big.Int).SetUint64(x))
}

// SetBig sets z to the value of x.
func (z *Int) SetBig(x *big.Int) error {
	if err := z.SetWords(x.Bits()); err != nil {
		return err
	}
	z.neg = x.Sign() < 0
	return nil
}

// Set sets z to x. z keeps its own allocator.
func (z *Int) Set(x *Int) error {
	if z == x {
		return nil
	}
	m, neg := x.width, x.neg
	if err := z.reserve("set", m, m); err != nil {
		return err
	}
	copy(z.words, x.words[:m])
	z.width = m
	z.neg = neg
	return nil
}

// Big returns the value of z as a new big.Int.
func (z *Int) Big() *big.Int {
	b := new(big.Int).SetBits(z.Words())
	if z.neg {
		b.Neg(b)
	}
	return b
}

// Equal reports whether z and x hold the same value.
func (z *Int) Equal(x *Int) bool {
	if z.width != x.width || z.neg != x.neg {
		return false
	}
	for i := 0; i < z.width; i++ {
		if z.words[i] != x.words[i] {
			return false
		}
	}
	return true
}

// Text returns the value of z in the given base (2 to 62).
func (z *Int) Text(base int) string {
	return z.Big().Text(base)
}

// String returns z in hexadecimal with a 0x prefix.
func (z *Int) String() string {
	return fmt.Sprintf("%#x", z.Big())
}
