// Command generate-golden writes the golden vectors used by the bigint
// tests. Expected values come from math/big. Inputs are drawn from a
// seeded splitmix64 stream so the file is reproducible byte for byte.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
)

const defaultOut = "internal/bigint/testdata/golden.json"

// goldenOps lists the operations in the order cases cycle through them.
var goldenOps = []string{"lsh", "lsh1", "rsh", "rsh1", "setbit", "clearbit", "isbitset", "maskbits", "ctz"}

type goldenCase struct {
	Op   string `json:"op"`
	X    string `json:"x"`
	N    int    `json:"n"`
	Want string `json:"want"`
}

type goldenFile struct {
	Seed  uint64       `json:"seed"`
	Cases []goldenCase `json:"cases"`
}

// splitmix64 is the SplitMix64 generator.
type splitmix64 struct{ state uint64 }

func (s *splitmix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// randomValue draws up to four 64-bit limbs, some of them sparse, and a sign.
func (s *splitmix64) randomValue() *big.Int {
	v := new(big.Int)
	limbs := int(s.next() % 5)
	for i := 0; i < limbs; i++ {
		limb := s.next()
		if s.next()%4 == 0 {
			limb &= 0xFFFF
		}
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(limb))
	}
	if s.next()%2 == 1 {
		v.Neg(v)
	}
	return v
}

func hex(v *big.Int) string {
	return fmt.Sprintf("%#x", v)
}

// signed applies the sign of x to the magnitude m.
func signed(x, m *big.Int) *big.Int {
	if x.Sign() < 0 {
		m.Neg(m)
	}
	return m
}

func generate(seed uint64, count int) goldenFile {
	rng := &splitmix64{state: seed}
	one := big.NewInt(1)
	out := goldenFile{Seed: seed, Cases: make([]goldenCase, 0, count)}

	for i := 0; i < count; i++ {
		op := goldenOps[i%len(goldenOps)]
		x := rng.randomValue()
		m := new(big.Int).Abs(x)
		bl := m.BitLen()
		c := goldenCase{Op: op}

		switch op {
		case "lsh":
			c.N = int(rng.next() % 300)
			c.Want = hex(signed(x, new(big.Int).Lsh(m, uint(c.N))))
		case "lsh1":
			c.Want = hex(signed(x, new(big.Int).Lsh(m, 1)))
		case "rsh":
			c.N = int(rng.next() % 300)
			c.Want = hex(signed(x, new(big.Int).Rsh(m, uint(c.N))))
		case "rsh1":
			c.Want = hex(signed(x, new(big.Int).Rsh(m, 1)))
		case "setbit":
			c.N = int(rng.next() % 300)
			c.Want = hex(signed(x, new(big.Int).SetBit(m, c.N, 1)))
		case "clearbit":
			if bl == 0 {
				x.SetInt64(1)
				m.SetInt64(1)
				bl = 1
			}
			c.N = int(rng.next() % uint64(bl))
			c.Want = hex(signed(x, new(big.Int).SetBit(m, c.N, 0)))
		case "isbitset":
			c.N = int(rng.next() % uint64(bl+70))
			c.Want = fmt.Sprint(m.Bit(c.N) == 1)
		case "maskbits":
			c.N = int(rng.next() % uint64(bl+1))
			mask := new(big.Int).Sub(new(big.Int).Lsh(one, uint(c.N)), one)
			c.Want = hex(signed(x, new(big.Int).And(m, mask)))
		case "ctz":
			var tz uint
			if m.Sign() != 0 {
				tz = m.TrailingZeroBits()
			}
			c.Want = fmt.Sprint(tz)
		}
		c.X = hex(x)
		out.Cases = append(out.Cases, c)
	}
	return out
}

func encode(f goldenFile) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func main() {
	out := flag.String("out", defaultOut, "output file")
	seed := flag.Uint64("seed", 42, "splitmix64 seed")
	count := flag.Int("count", 216, "number of cases")
	flag.Parse()

	data, err := encode(generate(*seed, *count))
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d cases to %s\n", *count, *out)
}
