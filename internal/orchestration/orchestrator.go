package orchestration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/machine"
)

const tracerName = "github.com/agbru/mpbits/internal/orchestration"

// ProgressBufferMultiplier sizes the progress channel per script so slow
// reporters rarely cause updates to be dropped.
const ProgressBufferMultiplier = 5

// progressStep is the minimum progress change worth reporting.
const progressStep = 0.01

// Script is a named program for the register machine.
type Script struct {
	Name string
	Body string
}

// ExecuteScripts runs every script in its own Machine with its own
// allocator, concurrently, and returns their results in input order.
// A failing script does not stop the others. Machine options such as
// WithHex or WithRecorder apply to every machine; the recorder must be
// safe for concurrent use.
func ExecuteScripts(ctx context.Context, scripts []Script, newAlloc AllocatorFactory, reporter ProgressReporter, out io.Writer, opts ...machine.Option) []ScriptResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]ScriptResult, len(scripts))
	progressChan := make(chan ProgressUpdate, len(scripts)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(scripts), out)

	tracer := otel.Tracer(tracerName)
	for i, script := range scripts {
		g.Go(func() error {
			results[i] = runScript(ctx, tracer, i, script, newAlloc, progressChan, opts)
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

func runScript(ctx context.Context, tracer trace.Tracer, index int, script Script, newAlloc AllocatorFactory, progressChan chan<- ProgressUpdate, opts []machine.Option) ScriptResult {
	ctx, span := tracer.Start(ctx, "script",
		trace.WithAttributes(attribute.String("script.name", script.Name)))
	defer span.End()

	start := time.Now()
	res := ScriptResult{Name: script.Name}

	alloc, err := newAlloc()
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		recordSpanError(span, err)
		return res
	}

	total := strings.Count(script.Body, "\n")
	if !strings.HasSuffix(script.Body, "\n") {
		total++
	}
	last := 0.0
	hook := machine.WithLineHook(func(line int) {
		v := float64(line) / float64(total)
		if v-last < progressStep {
			return
		}
		last = v
		select {
		case progressChan <- ProgressUpdate{Index: index, Value: v}:
		default:
		}
	})

	m := machine.New(alloc, append(append([]machine.Option(nil), opts...), hook)...)
	defer m.Reset()

	var buf bytes.Buffer
	err = m.Run(ctx, script.Name, strings.NewReader(script.Body), &buf)
	res.Output = buf.String()
	res.Instructions = m.Executed()
	res.Duration = time.Since(start)
	res.Err = err

	span.SetAttributes(attribute.Int("script.instructions", res.Instructions))
	if apperrors.IsContextError(err) {
		span.SetAttributes(attribute.Bool("script.interrupted", true))
	}
	if err != nil {
		recordSpanError(span, err)
		return res
	}
	progressChan <- ProgressUpdate{Index: index, Value: 1}
	return res
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AnalyzeResults presents each script's output and a summary, and returns
// the exit code. All scripts succeeding yields ExitSuccess; otherwise the
// first failure in input order decides the code.
func AnalyzeResults(results []ScriptResult, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	var firstErr *ScriptResult
	for i := range results {
		presenter.PresentOutput(results[i], opts, out)
		if results[i].Err != nil && firstErr == nil {
			firstErr = &results[i]
		}
	}

	if opts.Quiet {
		if firstErr != nil {
			return apperrors.ExitCodeFor(firstErr.Err)
		}
		return apperrors.ExitSuccess
	}

	if len(results) > 1 || opts.Verbose {
		presenter.PresentSummary(results, out)
	}
	if firstErr == nil {
		return apperrors.ExitSuccess
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if len(results) > 1 {
		fmt.Fprintf(out, "\n%d of %d scripts failed.\n", failed, len(results))
	}
	return handler.HandleError(firstErr.Err, firstErr.Duration, out)
}
