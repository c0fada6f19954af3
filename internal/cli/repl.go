package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/mpbits/internal/format"
	"github.com/agbru/mpbits/internal/machine"
	"github.com/agbru/mpbits/internal/metrics"
	"github.com/agbru/mpbits/internal/sysmon"
	"github.com/agbru/mpbits/internal/ui"
	"github.com/agbru/mpbits/internal/wordstore"
)

// Prompt is printed before each REPL input line.
const Prompt = "bits> "

// REPLConfig holds the settings shown by the status command.
type REPLConfig struct {
	// Allocator names the storage strategy backing the registers.
	Allocator string
	// MaxWords is the per-value word ceiling.
	MaxWords int
	// Metrics, when set, enables the metrics command.
	Metrics *metrics.Registry
	// Storage, when set, adds storage event counts to status.
	Storage *wordstore.Stats
}

// REPL is an interactive session over a register machine.
type REPL struct {
	config  REPLConfig
	machine *machine.Machine
	memory  *metrics.MemoryCollector
	in      io.Reader
	out     io.Writer
}

// NewREPL returns a session driving m.
func NewREPL(m *machine.Machine, config REPLConfig) *REPL {
	return &REPL{
		config:  config,
		machine: m,
		memory:  metrics.NewMemoryCollector(),
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// SetInput sets the input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets the output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and executes lines until exit, quit or EOF. Errors are
// printed and the session continues.
func (r *REPL) Start() {
	r.printBanner()
	fmt.Fprintf(r.out, "Type %shelp%s for commands.\n\n", ui.ColorYellow(), ui.ColorReset())

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+Prompt+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		eof := err != nil

		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if eof {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╭────────────────────────────────────────────╮%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s│%s  %smpbits%s: multi-precision bit laboratory    %s│%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╰────────────────────────────────────────────╯%s\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sInstructions:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, line := range machine.Usage() {
		fmt.Fprintf(r.out, "  %s\n", line)
	}
	fmt.Fprintf(r.out, "%sSession:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %-18s %s\n", "regs", "list registers")
	fmt.Fprintf(r.out, "  %-18s %s\n", "dump R", "show R's words in a panel")
	fmt.Fprintf(r.out, "  %-18s %s\n", "hex", "toggle hexadecimal print")
	fmt.Fprintf(r.out, "  %-18s %s\n", "status", "show configuration and memory")
	if r.config.Metrics != nil {
		fmt.Fprintf(r.out, "  %-18s %s\n", "metrics", "print collected metrics")
	}
	fmt.Fprintf(r.out, "  %-18s %s\n", "help", "show this help")
	fmt.Fprintf(r.out, "  %-18s %s\n", "exit, quit", "leave")
	fmt.Fprintf(r.out, "Separate instructions with ';'. Text after '#' is ignored.\n")
}

// processCommand handles one input line and reports whether to continue.
func (r *REPL) processCommand(input string) bool {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	case "help", "h", "?":
		r.printHelp()
		return true
	case "hex":
		r.cmdHex()
		return true
	case "status", "st":
		r.cmdStatus()
		return true
	case "regs":
		r.cmdRegs()
		return true
	case "dump":
		r.cmdDump(fields[1:])
		return true
	case "metrics":
		if r.config.Metrics != nil {
			r.cmdMetrics()
			return true
		}
	}

	out, err := r.machine.Exec(input)
	if out != "" {
		fmt.Fprintln(r.out, out)
	}
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		if errors.Is(err, machine.ErrUnknownCommand) {
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}
	return true
}

func (r *REPL) cmdHex() {
	r.machine.SetHex(!r.machine.Hex())
	status := "disabled"
	if r.machine.Hex() {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ui.ColorGreen(), status, ui.ColorReset())
}

func (r *REPL) cmdRegs() {
	names := r.machine.Registers()
	if len(names) == 0 {
		fmt.Fprintln(r.out, "(no registers)")
		return
	}
	for _, name := range names {
		reg, _ := r.machine.Register(name)
		fmt.Fprintf(r.out, "  %s%-8s%s bitlen %-8d cap %s\n",
			ui.ColorYellow(), name, ui.ColorReset(), reg.BitLen(),
			format.FormatWords(reg.Cap(), bits.UintSize/8))
	}
}

func (r *REPL) cmdDump(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: dump R%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	reg, ok := r.machine.Register(args[0])
	if !ok {
		fmt.Fprintf(r.out, "%sError: %v %q%s\n", ui.ColorRed(), machine.ErrUnknownRegister, args[0], ui.ColorReset())
		return
	}
	DisplayWordDump(args[0], reg, r.out)
}

func (r *REPL) cmdMetrics() {
	if err := r.config.Metrics.WriteText(r.out); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
}

func (r *REPL) cmdStatus() {
	snap := r.memory.Snapshot()
	hex := "no"
	if r.machine.Hex() {
		hex = "yes"
	}
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Allocator:    %s%s%s\n", ui.ColorCyan(), r.config.Allocator, ui.ColorReset())
	fmt.Fprintf(r.out, "  Max words:    %s%s%s\n", ui.ColorCyan(), format.FormatWords(r.config.MaxWords, bits.UintSize/8), ui.ColorReset())
	fmt.Fprintf(r.out, "  Hexadecimal:  %s%s%s\n", ui.ColorCyan(), hex, ui.ColorReset())
	fmt.Fprintf(r.out, "  Registers:    %s%d%s\n", ui.ColorCyan(), len(r.machine.Registers()), ui.ColorReset())
	fmt.Fprintf(r.out, "  Executed:     %s%d%s instructions\n", ui.ColorCyan(), r.machine.Executed(), ui.ColorReset())
	if s := r.config.Storage; s != nil {
		fmt.Fprintf(r.out, "  Storage:      %d grows (+%s), %d failures, %s released\n",
			s.Grows.Load(), format.FormatWords(int(s.GrownWords.Load()), bits.UintSize/8),
			s.Failures.Load(), format.FormatWords(int(s.ReleasedWords.Load()), bits.UintSize/8))
	}
	fmt.Fprintf(r.out, "%sPlatform:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Word size:    %s%d%s bits\n", ui.ColorCyan(), bits.UintSize, ui.ColorReset())
	fmt.Fprintf(r.out, "  Go:           %s %s/%s, %d CPUs\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	fmt.Fprintf(r.out, "  CPU features: %s\n", cpuFeatures())
	fmt.Fprintf(r.out, "%sMemory:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Heap:         %s (%s words)\n", format.FormatBytes(snap.HeapAlloc), format.FormatNumberString(fmt.Sprint(snap.HeapWords())))
	fmt.Fprintf(r.out, "  Sys:          %s\n", format.FormatBytes(snap.Sys))
	fmt.Fprintf(r.out, "  GC cycles:    %d\n", snap.NumGC)
	fmt.Fprintf(r.out, "  System:       %s\n", sysmon.Sample())
	fmt.Fprintln(r.out)
}

// cpuFeatures lists the instruction set extensions relevant to word
// shifting and bit scanning that the host supports.
func cpuFeatures() string {
	var f []string
	add := func(ok bool, name string) {
		if ok {
			f = append(f, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasBMI1, "bmi1")
		add(cpu.X86.HasBMI2, "bmi2")
		add(cpu.X86.HasPOPCNT, "popcnt")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasSVE, "sve")
	}
	if len(f) == 0 {
		return "none detected"
	}
	return strings.Join(f, " ")
}
