package machine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/logging"
	"github.com/agbru/mpbits/internal/wordstore"
)

type recorder struct {
	ops    []string
	failed int
}

func (r *recorder) RecordOp(op string, err error) {
	r.ops = append(r.ops, op)
	if err != nil {
		r.failed++
	}
}

func run(t *testing.T, m *Machine, line string) string {
	t.Helper()
	out, err := m.Exec(line)
	require.NoError(t, err, line)
	return out
}

func TestExecShifts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		prog string
		want string
	}{
		{"lsh across word", "set a 1; shl b a 70; print b", "1180591620717411303424"},
		{"lsh zero", "set a 0; shl a a 1000; print a", "0"},
		{"lsh negative keeps sign", "set a -3; shl a a 2; print a", "-12"},
		{"rsh", "set a 0x10000000000000000; shr b a 64; print b", "1"},
		{"rsh to zero", "set a -5; shr a a 3; print a; bitlen a", "0\n0"},
		{"lsh1 carry", "set a 0x8000000000000000; shl1 a a; print a", "18446744073709551616"},
		{"rsh1", "set a 0x10000000000000000; shr1 a a; print a", "9223372036854775808"},
		{"copy is independent", "set a 5; copy b a; shl1 a a; print b", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := New(nil)
			assert.Equal(t, tt.want, run(t, m, tt.prog))
		})
	}
}

func TestExecBits(t *testing.T) {
	t.Parallel()
	m := New(nil, WithHex(true))

	assert.Equal(t, "0x10000000000000000000000000", run(t, m, "setbit r 100; print r"))
	assert.Equal(t, "1\n0", run(t, m, "bit r 100; bit r 99"))
	assert.Equal(t, "0\n101", run(t, m, "bit r 5000; bitlen r"))
	assert.Equal(t, "100", run(t, m, "ctz r"))

	run(t, m, "setbit r 3; clrbit r 100")
	assert.Equal(t, "0x8", run(t, m, "print r"))
	assert.Equal(t, "3", run(t, m, "ctz r"))

	run(t, m, "set x 0xffff; mask x 4")
	assert.Equal(t, "0xf", run(t, m, "print x"))
	assert.Equal(t, "0", run(t, m, "set z 0; ctz z"))
}

func TestExecNeg(t *testing.T) {
	t.Parallel()
	m := New(nil)
	assert.Equal(t, "-7", run(t, m, "set a 7; neg a; print a"))
	assert.Equal(t, "7", run(t, m, "neg a; print a"))
	assert.Equal(t, "0", run(t, m, "set z 0; neg z; print z"))
}

func TestExecWords(t *testing.T) {
	t.Parallel()
	m := New(nil)
	out := run(t, m, "set a 0x10000000000000000; words a")
	assert.True(t, strings.HasPrefix(out, "width="), out)
	assert.Contains(t, out, "0000000000000001")

	out = run(t, m, "set z 0; words z")
	assert.True(t, strings.HasPrefix(out, "width=0 cap="), out)
}

func TestExecErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		prog string
		want error
	}{
		{"unknown command", "frob a", ErrUnknownCommand},
		{"arity", "shl a b", ErrUsage},
		{"unknown register", "print nope", ErrUnknownRegister},
		{"bad register name", "set 9a 1", ErrUsage},
		{"bad literal", "set a 0xzz", apperrors.ErrInvalidArgument},
		{"negative shift", "set a 1; shl a a -1", apperrors.ErrInvalidArgument},
		{"clear beyond width", "set a 1; clrbit a 64", apperrors.ErrOutOfRange},
		{"mask beyond width", "set a 1; mask a 200", apperrors.ErrInvalidArgument},
		{"index overflow", "set a 1; setbit a 99999999999999999999999", apperrors.ErrOutOfRange},
		{"assert", "set a 3; assert a 4", apperrors.ErrMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(nil).Exec(tt.prog)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecStopsAtFirstError(t *testing.T) {
	t.Parallel()
	m := New(nil)
	out, err := m.Exec("set a 1; print a; print b; print a")
	require.ErrorIs(t, err, ErrUnknownRegister)
	assert.Equal(t, "1", out)
}

func TestExecCommentsAndCase(t *testing.T) {
	t.Parallel()
	m := New(nil)
	assert.Equal(t, "", run(t, m, "   # nothing here"))
	assert.Equal(t, "", run(t, m, "SET a 1; Shl1 a a # double it; print a"))
	out, err := m.Exec("PRINT a")
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestAllocationFailureLeavesRegister(t *testing.T) {
	t.Parallel()
	m := New(&wordstore.Heap{MaxWords: 2})
	run(t, m, "set a 0xffff")
	_, err := m.Exec("shl a a 640")
	require.ErrorIs(t, err, apperrors.ErrAllocationFailure)
	assert.Equal(t, "65535", run(t, m, "print a"))
}

func TestFailedWriteDoesNotCreateRegister(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		prog string
		want error
	}{
		{"shift too far", "shl y x 999999999999", apperrors.ErrAllocationFailure},
		{"shift past ceiling", "shl y x 640", apperrors.ErrAllocationFailure},
		{"setbit past ceiling", "setbit y 4096", apperrors.ErrAllocationFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := New(&wordstore.Heap{MaxWords: 8})
			run(t, m, "set x 0xffff")
			_, err := m.Exec(tt.prog)
			require.ErrorIs(t, err, tt.want)

			_, ok := m.Register("y")
			assert.False(t, ok)
			assert.NotContains(t, m.Registers(), "y")
			_, err = m.Exec("print y")
			assert.ErrorIs(t, err, ErrUnknownRegister)
		})
	}
}

func TestMachinesShareQuietLogger(t *testing.T) {
	t.Parallel()
	a, b := New(nil), New(nil)
	assert.Same(t, a.logger, b.logger)

	custom := logging.NewZerologAdapter(zerolog.Nop())
	assert.Same(t, custom, New(nil, WithLogger(custom)).logger)
}

func TestFreeAndRegisters(t *testing.T) {
	t.Parallel()
	m := New(nil)
	run(t, m, "set b 1; set a 2; set c 3")
	assert.Equal(t, []string{"a", "b", "c"}, m.Registers())

	run(t, m, "free b")
	_, ok := m.Register("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "c"}, m.Registers())

	m.Reset()
	assert.Empty(t, m.Registers())
}

func TestRecorderAndExecuted(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	m := New(nil, WithRecorder(rec))
	_, _ = m.Exec("set a 1; shl a a 3; clrbit a 500")
	assert.Equal(t, []string{"set", "shl", "clrbit"}, rec.ops)
	assert.Equal(t, 1, rec.failed)
	assert.Equal(t, 3, m.Executed())

	// Usage errors never reach an instruction.
	_, _ = m.Exec("shl a")
	assert.Len(t, rec.ops, 3)
}

func TestRun(t *testing.T) {
	t.Parallel()
	script := `# build 2^130 and check it
set a 1
shl a a 130
assert a 0x400000000000000000000000000000000
bitlen a
shr1 a a; ctz a
`
	var out bytes.Buffer
	m := New(nil)
	require.NoError(t, m.Run(context.Background(), "pow.bits", strings.NewReader(script), &out))
	assert.Equal(t, "131\n129\n", out.String())
}

func TestRunReportsLine(t *testing.T) {
	t.Parallel()
	script := "set a 1\n\nassert a 2\nprint a\n"
	var out bytes.Buffer
	err := New(nil).Run(context.Background(), "bad.bits", strings.NewReader(script), &out)

	var scriptErr apperrors.ScriptError
	require.True(t, errors.As(err, &scriptErr))
	assert.Equal(t, "bad.bits", scriptErr.Script)
	assert.Equal(t, 3, scriptErr.Line)
	assert.ErrorIs(t, err, apperrors.ErrMismatch)
	assert.Empty(t, out.String())
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(nil).Run(ctx, "c.bits", strings.NewReader("set a 1\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUsage(t *testing.T) {
	t.Parallel()
	lines := Usage()
	assert.Len(t, lines, len(CommandNames()))
	assert.True(t, strings.HasPrefix(lines[0], "assert R LIT"), lines[0])
}

func TestParseLiteral(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"42":    "42",
		"-0x10": "-16",
		"0b101": "5",
		"0o17":  "15",
		"1_000": "1000",
	} {
		v, err := ParseLiteral(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v.String(), in)
	}
	_, err := ParseLiteral("ten")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestRunLineHook(t *testing.T) {
	t.Parallel()
	var seen []int
	m := New(nil, WithLineHook(func(line int) { seen = append(seen, line) }))
	err := m.Run(context.Background(), "h.bits", strings.NewReader("set a 1\n# c\nprint b\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestRunFinishHook(t *testing.T) {
	t.Parallel()
	var (
		script string
		regs   []string
		got    error
	)
	m := New(nil, WithFinishHook(func(name string, m *Machine, err error) {
		script, regs, got = name, m.Registers(), err
	}))
	err := m.Run(context.Background(), "f.bits", strings.NewReader("set b 2\nset a 1\nprint c\n"), &bytes.Buffer{})
	require.ErrorIs(t, err, ErrUnknownRegister)
	assert.Equal(t, "f.bits", script)
	assert.Equal(t, []string{"a", "b"}, regs)
	assert.Equal(t, err, got)
}
