// Package app wires configuration, storage, the register machine, and the
// command-line presentation into the mpbits application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/rs/zerolog"

	"github.com/agbru/mpbits/internal/cli"
	"github.com/agbru/mpbits/internal/config"
	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/format"
	"github.com/agbru/mpbits/internal/logging"
	"github.com/agbru/mpbits/internal/metrics"
	"github.com/agbru/mpbits/internal/orchestration"
	"github.com/agbru/mpbits/internal/server"
	"github.com/agbru/mpbits/internal/sysmon"
	"github.com/agbru/mpbits/internal/ui"
	"github.com/agbru/mpbits/internal/wordstore"
)

// Application represents the mpbits application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// In feeds the interactive session.
	In io.Reader

	logger  *logging.ZerologAdapter
	metrics *metrics.Registry
	storage *wordstore.Stats
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader used by the interactive session.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "mpbits"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)
	a.logger = logging.NewConsoleLogger(a.ErrWriter, "mpbits", level, a.Config.NoColor || ui.GetCurrentTheme().Name == "none")
	a.metrics = metrics.NewRegistry()
	a.storage = &wordstore.Stats{}

	factory, err := a.allocatorFactory()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	stopServer, err := a.startMetricsServer(ctx)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	defer stopServer()

	var code int
	if a.Config.REPL {
		code = a.runREPL(factory, out)
	} else {
		code = a.runScripts(ctx, factory, out)
	}

	if a.Config.Metrics {
		if err := a.metrics.WriteText(a.ErrWriter); err != nil {
			a.logger.Error("metrics dump failed", err)
		}
	}
	return code
}

// allocatorFactory builds the per-script allocator factory with storage
// events routed to the metrics registry and the debug log.
func (a *Application) allocatorFactory() (orchestration.AllocatorFactory, error) {
	observer := wordstore.Multi(a.metrics, a.storage, wordstore.NewLogObserver(a.logger.Zerolog()))
	opts := wordstore.Options{
		MaxWords:   a.Config.MaxWords,
		ArenaWords: a.Config.ArenaWords,
		Observer:   observer,
	}
	factory, err := orchestration.NewAllocatorFactory(a.Config.Allocator, opts)
	if err != nil {
		return nil, err
	}
	if a.Config.MaxWords > 0 {
		requested := uint64(a.Config.MaxWords) * uint64(bits.UintSize/8)
		if sys := sysmon.Sample(); !sys.Fits(requested) {
			zl := a.logger.Zerolog()
			zl.Warn().
				Str("max_words", format.FormatWords(a.Config.MaxWords, bits.UintSize/8)).
				Str("available", format.FormatBytes(sys.AvailableBytes)).
				Msg("word ceiling exceeds available memory")
		}
	}
	if a.Config.Allocator == "pool" && wordstore.EnsureWarmed(poolWarmWords) {
		a.logger.Debug("storage pool warmed", logging.Int("words", poolWarmWords))
	}
	return factory, nil
}

// startMetricsServer serves the registry over HTTP when --metrics-addr is
// set. The returned function stops the server and waits for it.
func (a *Application) startMetricsServer(ctx context.Context) (func(), error) {
	if a.Config.MetricsAddr == "" {
		return func() {}, nil
	}
	srv := server.New(a.Config.MetricsAddr, a.metrics, a.logger)
	if err := srv.Listen(); err != nil {
		return nil, fmt.Errorf("metrics server: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx); err != nil {
			a.logger.Error("metrics server failed", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

// poolWarmWords is the value size the shared pool is pre-warmed for.
const poolWarmWords = 1 << 10

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
