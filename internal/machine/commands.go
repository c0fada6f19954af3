package machine

import (
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/agbru/mpbits/internal/bigint"
	apperrors "github.com/agbru/mpbits/internal/errors"
)

// command describes one instruction of the language.
type command struct {
	args []string // argument names, for usage and arity
	help string
	run  func(m *Machine, args []string) (string, error)
}

func (c command) usage(name string) string {
	if len(c.args) == 0 {
		return name
	}
	return name + " " + strings.Join(c.args, " ")
}

// commands is the instruction table. Keys are lower-case command names.
var commands map[string]command

func init() {
	commands = map[string]command{
		"set":    {[]string{"R", "LIT"}, "load a literal (decimal, 0x, 0b, 0o; optional sign)", (*Machine).cmdSet},
		"copy":   {[]string{"D", "S"}, "D = S", (*Machine).cmdCopy},
		"shl":    {[]string{"D", "S", "N"}, "D = S << N", shift((*bigint.Int).Lsh)},
		"shr":    {[]string{"D", "S", "N"}, "D = S >> N (magnitude, sign kept)", shift((*bigint.Int).Rsh)},
		"shl1":   {[]string{"D", "S"}, "D = S << 1", shift1((*bigint.Int).Lsh1)},
		"shr1":   {[]string{"D", "S"}, "D = S >> 1", shift1((*bigint.Int).Rsh1)},
		"setbit": {[]string{"R", "N"}, "set bit N of R (grows R)", (*Machine).cmdSetBit},
		"clrbit": {[]string{"R", "N"}, "clear bit N of R (N must be within R's width)", (*Machine).cmdClearBit},
		"bit":    {[]string{"R", "N"}, "print bit N of R as 0 or 1", (*Machine).cmdBit},
		"mask":   {[]string{"R", "N"}, "keep the low N bits of R", (*Machine).cmdMask},
		"ctz":    {[]string{"R"}, "print the number of trailing zero bits", (*Machine).cmdCTZ},
		"bitlen": {[]string{"R"}, "print the bit length", (*Machine).cmdBitLen},
		"neg":    {[]string{"R"}, "flip the sign of R (zero stays non-negative)", (*Machine).cmdNeg},
		"print":  {[]string{"R"}, "print R", (*Machine).cmdPrint},
		"words":  {[]string{"R"}, "print width, capacity and words of R", (*Machine).cmdWords},
		"assert": {[]string{"R", "LIT"}, "fail unless R equals LIT", (*Machine).cmdAssert},
		"free":   {[]string{"R"}, "release R's storage and drop it", (*Machine).cmdFree},
	}
}

// CommandNames returns the instruction names in sorted order.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Usage returns "name ARGS  help" lines for every instruction.
func Usage() []string {
	lines := make([]string, 0, len(commands))
	for _, name := range CommandNames() {
		c := commands[name]
		lines = append(lines, fmt.Sprintf("%-18s %s", c.usage(name), c.help))
	}
	return lines
}

// ParseLiteral parses an integer literal accepted by the set and assert
// instructions.
func ParseLiteral(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("literal %q: %w", s, apperrors.ErrInvalidArgument)
	}
	return v, nil
}

func shift(op func(z, x *bigint.Int, n int) error) func(*Machine, []string) (string, error) {
	return func(m *Machine, args []string) (string, error) {
		src, err := m.lookup(args[1])
		if err != nil {
			return "", err
		}
		n, err := bigint.ParseBitIndex(args[2])
		if err != nil {
			return "", err
		}
		return "", m.assign(args[0], func(z *bigint.Int) error {
			return op(z, src, n)
		})
	}
}

func shift1(op func(z, x *bigint.Int) error) func(*Machine, []string) (string, error) {
	return func(m *Machine, args []string) (string, error) {
		src, err := m.lookup(args[1])
		if err != nil {
			return "", err
		}
		return "", m.assign(args[0], func(z *bigint.Int) error {
			return op(z, src)
		})
	}
}

func (m *Machine) cmdSet(args []string) (string, error) {
	v, err := ParseLiteral(args[1])
	if err != nil {
		return "", err
	}
	return "", m.assign(args[0], func(z *bigint.Int) error {
		return z.SetBig(v)
	})
}

func (m *Machine) cmdCopy(args []string) (string, error) {
	src, err := m.lookup(args[1])
	if err != nil {
		return "", err
	}
	return "", m.assign(args[0], func(z *bigint.Int) error {
		return z.Set(src)
	})
}

func (m *Machine) cmdSetBit(args []string) (string, error) {
	n, err := bigint.ParseBitIndex(args[1])
	if err != nil {
		return "", err
	}
	return "", m.assign(args[0], func(z *bigint.Int) error {
		return z.SetBit(n)
	})
}

// withIndex resolves an existing register and a bit index.
func (m *Machine) withIndex(args []string) (*bigint.Int, int, error) {
	r, err := m.lookup(args[0])
	if err != nil {
		return nil, 0, err
	}
	n, err := bigint.ParseBitIndex(args[1])
	if err != nil {
		return nil, 0, err
	}
	return r, n, nil
}

func (m *Machine) cmdClearBit(args []string) (string, error) {
	r, n, err := m.withIndex(args)
	if err != nil {
		return "", err
	}
	return "", r.ClearBit(n)
}

func (m *Machine) cmdBit(args []string) (string, error) {
	r, n, err := m.withIndex(args)
	if err != nil {
		return "", err
	}
	if r.IsBitSet(n) {
		return "1", nil
	}
	return "0", nil
}

func (m *Machine) cmdMask(args []string) (string, error) {
	r, n, err := m.withIndex(args)
	if err != nil {
		return "", err
	}
	return "", r.MaskBits(n)
}

func (m *Machine) cmdCTZ(args []string) (string, error) {
	r, err := m.lookup(args[0])
	if err != nil {
		return "", err
	}
	return strconv.Itoa(r.CountLowZeroBits()), nil
}

func (m *Machine) cmdBitLen(args []string) (string, error) {
	r, err := m.lookup(args[0])
	if err != nil {
		return "", err
	}
	return strconv.Itoa(r.BitLen()), nil
}

func (m *Machine) cmdNeg(args []string) (string, error) {
	r, err := m.lookup(args[0])
	if err != nil {
		return "", err
	}
	r.SetNegative(!r.IsNegative())
	return "", nil
}

func (m *Machine) cmdPrint(args []string) (string, error) {
	r, err := m.lookup(args[0])
	if err != nil {
		return "", err
	}
	return m.format(r), nil
}

func (m *Machine) cmdWords(args []string) (string, error) {
	r, err := m.lookup(args[0])
	if err != nil {
		return "", err
	}
	return FormatWords(r), nil
}

func (m *Machine) cmdAssert(args []string) (string, error) {
	r, err := m.lookup(args[0])
	if err != nil {
		return "", err
	}
	want, err := ParseLiteral(args[1])
	if err != nil {
		return "", err
	}
	if got := r.Big(); got.Cmp(want) != 0 {
		return "", fmt.Errorf("%s = %#x, want %#x: %w", args[0], got, want, apperrors.ErrMismatch)
	}
	return "", nil
}

func (m *Machine) cmdFree(args []string) (string, error) {
	r, err := m.lookup(args[0])
	if err != nil {
		return "", err
	}
	r.Release()
	delete(m.regs, args[0])
	return "", nil
}

// FormatWords renders width, capacity and the significant words of z,
// most significant first, each padded to the full word width.
func FormatWords(z *bigint.Int) string {
	ws := z.Words()
	var sb strings.Builder
	fmt.Fprintf(&sb, "width=%d cap=%d", z.Width(), z.Cap())
	if z.IsNegative() {
		sb.WriteString(" neg")
	}
	for i := len(ws) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, " %0*x", wordHexDigits, uint(ws[i]))
	}
	return sb.String()
}
