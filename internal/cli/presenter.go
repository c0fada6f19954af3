package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/format"
	"github.com/agbru/mpbits/internal/orchestration"
	"github.com/agbru/mpbits/internal/ui"
	"github.com/agbru/mpbits/internal/wordstore"
)

// CLIProgressReporter shows a spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numScripts int, out io.Writer) {
	DisplayProgress(wg, progressChan, numScripts, out)
}

// CLIResultPresenter renders script results for a terminal.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentOutput writes a script's output. Outside quiet mode, runs of
// more than one script get a header per script, and long lines are
// truncated unless verbose is set.
func (CLIResultPresenter) PresentOutput(res orchestration.ScriptResult, opts orchestration.PresentationOptions, out io.Writer) {
	if res.Output == "" {
		return
	}
	if opts.Quiet || opts.Verbose {
		fmt.Fprint(out, res.Output)
		return
	}
	for line := range strings.Lines(res.Output) {
		line = strings.TrimSuffix(line, "\n")
		if short, cut := truncate(line); cut {
			fmt.Fprintf(out, "%s %s(%d chars, truncated)%s\n", short, ui.ColorGrey(), len(line), ui.ColorReset())
			continue
		}
		fmt.Fprintln(out, line)
	}
}

// PresentSummary writes a table with one row per script.
func (p CLIResultPresenter) PresentSummary(results []orchestration.ScriptResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Script Summary ---\n")

	nameWidth, durWidth := len("Script"), len("Duration")
	durations := make([]string, len(results))
	for i, r := range results {
		nameWidth = max(nameWidth, len(r.Name))
		durations[i] = p.FormatDuration(r.Duration)
		durWidth = max(durWidth, len(durations[i]))
	}

	fmt.Fprintf(out, "%sScript%s%s   %sDuration%s%s   %sInstr%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", nameWidth-len("Script")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", durWidth-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())

	for i, r := range results {
		status := fmt.Sprintf("%sOK%s", ui.ColorGreen(), ui.ColorReset())
		if r.Err != nil {
			status = fmt.Sprintf("%sFAIL (%v)%s", ui.ColorRed(), r.Err, ui.ColorReset())
		}
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %5d   %s\n",
			ui.ColorBlue(), r.Name, ui.ColorReset(), padRight("", nameWidth-len(r.Name)),
			ui.ColorYellow(), durations[i], ui.ColorReset(), padRight("", durWidth-len(durations[i])),
			r.Instructions, status)
	}
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

// FormatDuration implements orchestration.DurationFormatter.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// HandleError implements orchestration.ErrorHandler.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return HandleScriptError(err, duration, out)
}

// HandleScriptError prints a message describing err and returns the exit
// code for it.
func HandleScriptError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	code := apperrors.ExitCodeFor(err)
	var msg string
	var timeoutErr apperrors.TimeoutError
	switch {
	case errors.As(err, &timeoutErr):
		msg = fmt.Sprintf("Timed out: %v", err)
	case errors.Is(err, context.DeadlineExceeded):
		msg = fmt.Sprintf("Timed out after %s: %v", format.FormatExecutionDuration(duration), err)
	case errors.Is(err, context.Canceled):
		msg = "Canceled."
	case errors.Is(err, apperrors.ErrMismatch):
		msg = fmt.Sprintf("Assertion failed: %v", err)
	case wordstore.IsAllocationFailure(err):
		msg = fmt.Sprintf("Out of storage: %v", err)
	default:
		msg = fmt.Sprintf("Error: %v", err)
	}
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorRed(), msg, ui.ColorReset())
	return code
}
