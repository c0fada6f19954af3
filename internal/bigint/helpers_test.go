package bigint

import (
	"math/big"
	"math/rand/v2"
	"testing"
)

// checkInvariants fails the test if z is not in minimal form.
func checkInvariants(t *testing.T, z *Int) {
	t.Helper()
	if z.width < 0 || z.width > len(z.words) {
		t.Fatalf("width %d outside [0, %d]", z.width, len(z.words))
	}
	if z.width > 0 && z.words[z.width-1] == 0 {
		t.Fatalf("leading word is zero at width %d", z.width)
	}
	if z.width == 0 && z.neg {
		t.Fatal("zero is marked negative")
	}
}

// invariantsHold is the boolean form of checkInvariants for property tests.
func invariantsHold(z *Int) bool {
	if z.width < 0 || z.width > len(z.words) {
		return false
	}
	if z.width > 0 && z.words[z.width-1] == 0 {
		return false
	}
	return z.width > 0 || !z.neg
}

// fromBig builds an Int from a big.Int using the default allocator.
func fromBig(t testing.TB, b *big.Int) *Int {
	t.Helper()
	z := New(nil)
	if err := z.SetBig(b); err != nil {
		t.Fatalf("SetBig(%v): %v", b, err)
	}
	return z
}

// parseBig parses a literal accepted by big.Int.SetString with base 0.
func parseBig(t testing.TB, s string) *big.Int {
	t.Helper()
	b, ok := new(big.Int).SetString(s, 0)
	if !ok {
		t.Fatalf("bad literal %q", s)
	}
	return b
}

// fromUint64s assembles a value from 64-bit limbs, most significant first.
func fromUint64s(limbs []uint64, neg bool) *big.Int {
	v := new(big.Int)
	for _, l := range limbs {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(l))
	}
	if neg {
		v.Neg(v)
	}
	return v
}

// randomBig returns a value of up to maxWords words with a random sign.
// Some words are sparse so that carries across zero words are exercised.
func randomBig(rng *rand.Rand, maxWords int) *big.Int {
	n := rng.IntN(maxWords + 1)
	words := make([]big.Word, n)
	for i := range words {
		switch rng.IntN(4) {
		case 0:
			words[i] = 0
		case 1:
			words[i] = ^big.Word(0)
		default:
			words[i] = big.Word(rng.Uint64())
		}
	}
	v := new(big.Int).SetBits(words)
	if rng.IntN(2) == 1 {
		v.Neg(v)
	}
	return v
}

// Oracles: each applies an operation to the magnitude and keeps the sign,
// which is how the Int operations are defined.

func signOf(x, m *big.Int) *big.Int {
	if x.Sign() < 0 {
		m.Neg(m)
	}
	return m
}

func wantLsh(x *big.Int, n int) *big.Int {
	return signOf(x, new(big.Int).Lsh(new(big.Int).Abs(x), uint(n)))
}

func wantRsh(x *big.Int, n int) *big.Int {
	return signOf(x, new(big.Int).Rsh(new(big.Int).Abs(x), uint(n)))
}

func wantSetBit(x *big.Int, n int, b uint) *big.Int {
	return signOf(x, new(big.Int).SetBit(new(big.Int).Abs(x), n, b))
}

func wantMask(x *big.Int, n int) *big.Int {
	one := big.NewInt(1)
	mask := new(big.Int).Sub(new(big.Int).Lsh(one, uint(n)), one)
	return signOf(x, new(big.Int).And(new(big.Int).Abs(x), mask))
}

func wantCTZ(x *big.Int) int {
	if x.Sign() == 0 {
		return 0
	}
	return int(new(big.Int).Abs(x).TrailingZeroBits())
}

// wordsFor returns the number of words needed for a bit length.
func wordsFor(bitLen int) int {
	return (bitLen + _W - 1) / _W
}
