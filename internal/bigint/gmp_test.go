//go:build gmp

package bigint

import (
	"math/rand/v2"
	"testing"

	"github.com/ncw/gmp"
)

// TestShiftsAgainstGMP cross-checks the shifts with libgmp. Build with
// -tags gmp on a machine that has libgmp installed.
func TestShiftsAgainstGMP(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for i := 0; i < 2000; i++ {
		x := randomBig(rng, 12)
		n := rng.IntN(20 * _W)

		g, ok := new(gmp.Int).SetString(x.Text(10), 10)
		if !ok {
			t.Fatalf("gmp rejected %v", x)
		}
		neg := g.Sign() < 0
		mag := new(gmp.Int).Abs(g)

		wantL := new(gmp.Int).Lsh(mag, uint(n))
		wantR := new(gmp.Int).Rsh(mag, uint(n))
		if neg {
			wantL.Neg(wantL)
			wantR.Neg(wantR)
		}

		z := New(nil)
		if err := z.Lsh(fromBig(t, x), n); err != nil {
			t.Fatal(err)
		}
		if got := z.Text(10); got != wantL.String() {
			t.Fatalf("Lsh(%v, %d) = %s, gmp %s", x, n, got, wantL.String())
		}
		if err := z.Rsh(fromBig(t, x), n); err != nil {
			t.Fatal(err)
		}
		if got := z.Text(10); got != wantR.String() {
			t.Fatalf("Rsh(%v, %d) = %s, gmp %s", x, n, got, wantR.String())
		}
	}
}
