package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/mpbits/internal/cli"
	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/logging"
	"github.com/agbru/mpbits/internal/machine"
	"github.com/agbru/mpbits/internal/orchestration"
	"github.com/agbru/mpbits/internal/tui"
	"github.com/agbru/mpbits/internal/wordstore"
)

// ExecScriptName names the program given with -e in results and errors.
const ExecScriptName = "-e"

// runScripts executes the -e program and the script files concurrently and
// reports their results.
func (a *Application) runScripts(ctx context.Context, factory orchestration.AllocatorFactory, out io.Writer) int {
	scripts, err := a.loadScripts()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	a.logger.Debug("running scripts",
		logging.Int("scripts", len(scripts)),
		logging.String("allocator", a.Config.Allocator),
		logging.String("timeout", a.Config.Timeout.String()),
		logging.Bool("tui", a.Config.TUI))

	machineOpts := []machine.Option{
		machine.WithLogger(a.logger),
		machine.WithRecorder(a.metrics),
		machine.WithHex(a.Config.Hex),
	}

	var exitCode int
	var results []orchestration.ScriptResult
	if a.Config.TUI {
		exitCode, results = tui.Run(ctx, tui.Session{
			Scripts:   scripts,
			Factory:   factory,
			Options:   machineOpts,
			Storage:   a.storage,
			Allocator: a.Config.Allocator,
			MaxWords:  a.Config.MaxWords,
			Verbose:   a.Config.Verbose,
			Version:   Version,
			Annotate:  a.annotateTimeouts,
		}, tea.WithInput(a.In), tea.WithOutput(out))
	} else {
		exitCode, results = a.runPlain(ctx, scripts, factory, machineOpts, out)
	}

	if a.Config.OutputFile != "" {
		if err := cli.WriteResultsToFile(a.Config.OutputFile, results); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		} else if !a.Config.Quiet {
			cli.DisplaySavedPath(a.Config.OutputFile, out)
		}
	}
	return exitCode
}

// runPlain runs scripts with spinner progress and writes their output.
func (a *Application) runPlain(ctx context.Context, scripts []orchestration.Script, factory orchestration.AllocatorFactory, opts []machine.Option, out io.Writer) (int, []orchestration.ScriptResult) {
	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	results := orchestration.ExecuteScripts(ctx, scripts, factory, progressReporter, progressOut, opts...)
	a.annotateTimeouts(results)

	presOpts := orchestration.PresentationOptions{
		Quiet:   a.Config.Quiet,
		Verbose: a.Config.Verbose,
	}
	return orchestration.AnalyzeResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out), results
}

// annotateTimeouts replaces the deadline cause of interrupted scripts with
// a TimeoutError carrying the configured limit.
func (a *Application) annotateTimeouts(results []orchestration.ScriptResult) {
	for i := range results {
		var se apperrors.ScriptError
		if !errors.Is(results[i].Err, context.DeadlineExceeded) || !errors.As(results[i].Err, &se) {
			continue
		}
		se.Cause = apperrors.TimeoutError{Operation: results[i].Name, Limit: a.Config.Timeout}
		results[i].Err = se
	}
}

// loadScripts returns the -e program followed by the script files in
// command-line order.
func (a *Application) loadScripts() ([]orchestration.Script, error) {
	var scripts []orchestration.Script
	if a.Config.Exec != "" {
		scripts = append(scripts, orchestration.Script{Name: ExecScriptName, Body: a.Config.Exec})
	}
	for _, path := range a.Config.Scripts {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewConfigError("cannot read script: %v", err)
		}
		scripts = append(scripts, orchestration.Script{Name: path, Body: string(body)})
	}
	return scripts, nil
}

// runREPL starts the interactive session on a single machine.
func (a *Application) runREPL(factory orchestration.AllocatorFactory, out io.Writer) int {
	alloc, err := factory()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	m := machine.New(alloc,
		machine.WithLogger(a.logger),
		machine.WithRecorder(a.metrics),
		machine.WithHex(a.Config.Hex))
	defer m.Reset()

	maxWords := a.Config.MaxWords
	if maxWords == 0 {
		maxWords = wordstore.DefaultMaxWords
	}
	repl := cli.NewREPL(m, cli.REPLConfig{
		Allocator: a.Config.Allocator,
		MaxWords:  maxWords,
		Metrics:   a.metrics,
		Storage:   a.storage,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}
