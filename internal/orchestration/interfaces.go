package orchestration

import (
	"io"
	"sync"
	"time"
)

// ScriptResult is the outcome of running one script.
type ScriptResult struct {
	// Name identifies the script, usually its path or "-e".
	Name string
	// Output is everything the script printed, including output produced
	// before a failure.
	Output string
	// Instructions counts the instructions executed.
	Instructions int
	// Duration is the wall time spent in the script.
	Duration time.Duration
	// Err is the first error the script hit, nil on success.
	Err error
}

// ProgressUpdate reports how far script Index has got, from 0 to 1.
type ProgressUpdate struct {
	Index int
	Value float64
}

// PresentationOptions configures how results are presented.
type PresentationOptions struct {
	Quiet   bool
	Verbose bool
}

// ProgressReporter displays progress while scripts run. DisplayProgress
// runs in its own goroutine, must drain progressChan until it is closed,
// and calls wg.Done on return.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numScripts int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numScripts int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numScripts int, out io.Writer) {
	f(wg, progressChan, numScripts, out)
}

// NullProgressReporter drains updates without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders script results.
type ResultPresenter interface {
	// PresentOutput writes what a script printed.
	PresentOutput(result ScriptResult, opts PresentationOptions, out io.Writer)
	// PresentSummary writes a one-row-per-script table.
	PresentSummary(results []ScriptResult, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports a failure and returns the exit code for it.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
