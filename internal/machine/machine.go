package machine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agbru/mpbits/internal/bigint"
	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/logging"
	"github.com/agbru/mpbits/internal/wordstore"
)

var (
	// ErrUnknownCommand is returned for a line whose first token is not an
	// instruction.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownRegister is returned when a source register was never set.
	ErrUnknownRegister = errors.New("unknown register")
	// ErrUsage is returned when an instruction gets the wrong number of
	// arguments or a malformed register name.
	ErrUsage = errors.New("usage")
)

const wordHexDigits = bits.UintSize / 4

// maxLineBytes bounds a single script line; long literals need more than
// bufio's default token size.
const maxLineBytes = 16 << 20

var registerName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpRecorder receives the outcome of every executed instruction.
type OpRecorder interface {
	RecordOp(op string, err error)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for per-instruction debug events.
func WithLogger(l logging.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithRecorder sets the sink for instruction outcomes.
func WithRecorder(r OpRecorder) Option {
	return func(m *Machine) { m.recorder = r }
}

// WithHex makes print render values in hexadecimal.
func WithHex(hex bool) Option {
	return func(m *Machine) { m.hex = hex }
}

// WithLineHook registers fn to be called by Run after each completed
// script line with the 1-based line number.
func WithLineHook(fn func(line int)) Option {
	return func(m *Machine) { m.onLine = fn }
}

// quiet is the logger of machines built without WithLogger.
var quiet logging.Logger = logging.NewZerologAdapter(zerolog.Nop())

// WithFinishHook registers fn to be called when Run returns, with the
// script name and Run's error. Registers are still live during the call.
func WithFinishHook(fn func(script string, m *Machine, err error)) Option {
	return func(m *Machine) { m.onFinish = fn }
}

// Machine holds a set of named registers sharing one allocator.
// It is not safe for concurrent use.
type Machine struct {
	alloc    wordstore.Allocator
	regs     map[string]*bigint.Int
	logger   logging.Logger
	recorder OpRecorder
	hex      bool
	executed int
	onLine   func(int)
	onFinish func(string, *Machine, error)
}

// New returns an empty machine whose registers draw storage from alloc.
// A nil alloc selects the default heap allocator.
func New(alloc wordstore.Allocator, opts ...Option) *Machine {
	if alloc == nil {
		alloc = wordstore.Default()
	}
	m := &Machine{
		alloc:  alloc,
		regs:   make(map[string]*bigint.Int),
		logger: quiet,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetHex switches print between decimal and hexadecimal output.
func (m *Machine) SetHex(hex bool) { m.hex = hex }

// Hex reports whether print renders hexadecimal.
func (m *Machine) Hex() bool { return m.hex }

// Executed returns the number of instructions run so far.
func (m *Machine) Executed() int { return m.executed }

// Register returns the named register, if it exists.
func (m *Machine) Register(name string) (*bigint.Int, bool) {
	r, ok := m.regs[name]
	return r, ok
}

// Registers returns the names of all live registers in sorted order.
func (m *Machine) Registers() []string {
	names := make([]string, 0, len(m.regs))
	for name := range m.regs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Reset releases every register.
func (m *Machine) Reset() {
	for name, r := range m.regs {
		r.Release()
		delete(m.regs, name)
	}
}

// Exec runs every instruction on line and returns their joined output.
// Execution stops at the first failing instruction; output produced before
// it is still returned.
func (m *Machine) Exec(line string) (string, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	var out []string
	for stmt := range strings.SplitSeq(line, ";") {
		fields := strings.Fields(stmt)
		if len(fields) == 0 {
			continue
		}
		s, err := m.exec(fields)
		if s != "" {
			out = append(out, s)
		}
		if err != nil {
			return strings.Join(out, "\n"), err
		}
	}
	return strings.Join(out, "\n"), nil
}

func (m *Machine) exec(fields []string) (string, error) {
	name := strings.ToLower(fields[0])
	cmd, ok := commands[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])
	}
	args := fields[1:]
	if len(args) != len(cmd.args) {
		return "", fmt.Errorf("%w: %s", ErrUsage, cmd.usage(name))
	}
	out, err := cmd.run(m, args)
	m.executed++
	if m.recorder != nil {
		m.recorder.RecordOp(name, err)
	}
	if err != nil {
		m.logger.Debug("instruction failed",
			logging.String("op", name),
			logging.String("args", strings.Join(args, " ")),
			logging.Err(err))
		return out, err
	}
	m.logger.Debug("instruction executed",
		logging.String("op", name),
		logging.String("args", strings.Join(args, " ")))
	return out, nil
}

// Run executes a script read from r, writing instruction output to w one
// line at a time. The returned error is an apperrors.ScriptError naming
// the failing line, or the context error if ctx ends first.
func (m *Machine) Run(ctx context.Context, script string, r io.Reader, w io.Writer) error {
	err := m.run(ctx, script, r, w)
	if m.onFinish != nil {
		m.onFinish(script, m, err)
	}
	return err
}

func (m *Machine) run(ctx context.Context, script string, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return apperrors.ScriptError{Script: script, Line: lineNo, Cause: err}
		}
		out, err := m.Exec(sc.Text())
		if out != "" {
			if _, werr := fmt.Fprintln(w, out); werr != nil {
				return fmt.Errorf("writing output of %s: %w", script, werr)
			}
		}
		if err != nil {
			return apperrors.ScriptError{Script: script, Line: lineNo, Cause: err}
		}
		if m.onLine != nil {
			m.onLine(lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return apperrors.ScriptError{Script: script, Line: lineNo + 1, Cause: err}
	}
	return nil
}

func (m *Machine) lookup(name string) (*bigint.Int, error) {
	r, ok := m.regs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRegister, name)
	}
	return r, nil
}

// assign runs op on the named register. A register that does not exist yet
// is created only when op succeeds.
func (m *Machine) assign(name string, op func(z *bigint.Int) error) error {
	if r, ok := m.regs[name]; ok {
		return op(r)
	}
	if !registerName.MatchString(name) {
		return fmt.Errorf("%w: bad register name %q", ErrUsage, name)
	}
	r := bigint.New(m.alloc)
	if err := op(r); err != nil {
		r.Release()
		return err
	}
	m.regs[name] = r
	return nil
}

func (m *Machine) format(z *bigint.Int) string {
	if m.hex {
		return z.String()
	}
	return z.Text(10)
}
