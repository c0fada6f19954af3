// Package config parses the command line, environment, and configuration
// file into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/logging"
	"github.com/agbru/mpbits/internal/wordstore"
)

// EnvPrefix prefixes every environment variable read by ParseConfig.
const EnvPrefix = "MPBITS_"

// Default values for the tunable settings.
const (
	DefaultAllocator  = "heap"
	DefaultArenaWords = 1 << 20
	DefaultTimeout    = 5 * time.Minute
	DefaultLogLevel   = "warn"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Exec is a one-line program given with -e.
	Exec string
	// Scripts lists script files given as positional arguments.
	Scripts []string
	// REPL starts the interactive session. It is implied when neither Exec
	// nor Scripts is given.
	REPL bool
	// TUI runs the scripts under the interactive dashboard.
	TUI bool
	// Allocator names the storage strategy (see wordstore.Kinds).
	Allocator string
	// MaxWords caps a single storage request. Zero selects the allocator default.
	MaxWords int
	// ArenaWords sizes the arena block.
	ArenaWords int
	// Hex prints values in hexadecimal.
	Hex bool
	// Quiet prints script output only.
	Quiet bool
	// Verbose prints untruncated values and the summary table.
	Verbose bool
	// NoColor disables ANSI colors.
	NoColor bool
	// Timeout bounds the whole run.
	Timeout time.Duration
	// LogLevel is a zerolog level name.
	LogLevel string
	// Metrics dumps Prometheus text to stderr on exit.
	Metrics bool
	// MetricsAddr, when set, serves /metrics over HTTP at this address.
	MetricsAddr string
	// OutputFile receives script outputs when non-empty.
	OutputFile string
	// ConfigFile is the TOML file that was loaded, if any.
	ConfigFile string
	// Completion names a shell to print a completion script for.
	Completion string
	// Version prints version information and exits.
	Version bool
}

// Validate checks the semantic validity of the configuration.
//
// Returns:
//   - error: A ConfigError describing the first invalid setting, or nil.
func (c AppConfig) Validate() error {
	if !slices.Contains(wordstore.Kinds, strings.ToLower(c.Allocator)) {
		return apperrors.NewConfigError("unknown allocator %q (valid: %s)", c.Allocator, strings.Join(wordstore.Kinds, ", "))
	}
	if c.MaxWords < 0 {
		return apperrors.NewConfigError("--max-words must be non-negative, got %d", c.MaxWords)
	}
	if c.ArenaWords < 0 {
		return apperrors.NewConfigError("--arena-words must be non-negative, got %d", c.ArenaWords)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("--log-level: %v", err)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	if c.TUI && c.REPL {
		return apperrors.NewConfigError("--tui needs -e or script files")
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("--tui and --quiet are mutually exclusive")
	}
	if c.REPL && (c.Exec != "" || len(c.Scripts) > 0) {
		return apperrors.NewConfigError("--repl cannot be combined with -e or script files")
	}
	if c.Completion != "" && !slices.Contains([]string{"bash", "zsh", "fish"}, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q for --completion (valid: bash, zsh, fish)", c.Completion)
	}
	return nil
}

// ParseConfig builds the configuration from args.
//
// Values are resolved with the priority: command-line flags, then MPBITS_*
// environment variables, then the TOML file named by --config or
// MPBITS_CONFIG, then the defaults.
//
// Parameters:
//   - programName: The name shown in usage messages.
//   - args: The command-line arguments, without the program name.
//   - errorWriter: Receives usage and flag parsing errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp when help was requested, otherwise a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options] [script ...]\n\n", programName)
		fmt.Fprintln(errorWriter, "Runs bit-manipulation scripts on arbitrary-precision registers.")
		fmt.Fprintln(errorWriter, "Without -e or script files an interactive session is started.")
		fmt.Fprintln(errorWriter, "\nOptions:")
		fs.PrintDefaults()
	}

	config := AppConfig{}
	fs.StringVar(&config.Exec, "e", "", "Execute a one-line program (commands separated by ';').")
	fs.BoolVar(&config.REPL, "repl", false, "Start the interactive session.")
	fs.BoolVar(&config.TUI, "tui", false, "Run scripts under the interactive dashboard.")
	fs.StringVar(&config.Allocator, "allocator", DefaultAllocator, "Storage strategy ("+strings.Join(wordstore.Kinds, ", ")+").")
	fs.IntVar(&config.MaxWords, "max-words", 0, "Word ceiling for a single value (0 selects the allocator default).")
	fs.IntVar(&config.ArenaWords, "arena-words", DefaultArenaWords, "Arena block size in words.")
	fs.BoolVar(&config.Hex, "hex", false, "Print values in hexadecimal.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print script output only.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print full values and a summary table.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colors.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error, disabled).")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print storage and operation metrics on exit.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics over HTTP at this address (e.g. :9090).")
	fs.StringVar(&config.OutputFile, "output", "", "Write script outputs to a file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&config.ConfigFile, "config", "", "TOML configuration file.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script (bash, zsh, fish).")
	fs.BoolVar(&config.Version, "version", false, "Show version information.")
	fs.BoolVar(&config.Version, "V", false, "Shorthand for --version.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	config.Scripts = fs.Args()

	explicit := explicitFlags(fs)
	if !explicit["config"] {
		config.ConfigFile, _ = lookupEnv("CONFIG")
	}
	if config.ConfigFile != "" {
		if err := applyFileOverrides(&config, explicit, config.ConfigFile); err != nil {
			return AppConfig{}, err
		}
	}
	applyEnvOverrides(&config, explicit)

	if config.Exec == "" && len(config.Scripts) == 0 {
		config.REPL = true
	}
	if config.Completion != "" || config.Version {
		config.TUI = false
	}
	if config.Completion != "" || config.Version {
		config.REPL = false
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}
