package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/mpbits/internal/cli"
	"github.com/agbru/mpbits/internal/format"
	"github.com/agbru/mpbits/internal/machine"
	"github.com/agbru/mpbits/internal/orchestration"
)

// maxRegisterPanels bounds the registers rendered per script.
const maxRegisterPanels = 8

// programRef lets bridge goroutines reach the tea.Program. The model is
// copied on every Update, so it holds a pointer to this instead of the
// program itself.
type programRef struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// SetProgram routes messages to p.
func (r *programRef) SetProgram(p *tea.Program) {
	r.setSend(p.Send)
}

func (r *programRef) setSend(fn func(tea.Msg)) {
	r.mu.Lock()
	r.send = fn
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	send := r.send
	r.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by
// forwarding aggregated updates to the dashboard.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains progressChan and sends a ProgressMsg per update.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numScripts int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numScripts)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Generation:      t.generation,
			Index:           ap.Index,
			Value:           ap.Value,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.generation})
}

// TUIResultPresenter sends results and failures to the dashboard instead
// of writing them.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler      = (*TUIResultPresenter)(nil)
)

// PresentOutput sends an OutputMsg.
func (t *TUIResultPresenter) PresentOutput(result orchestration.ScriptResult, _ orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(OutputMsg{Generation: t.generation, Result: result})
}

// PresentSummary sends a SummaryMsg.
func (t *TUIResultPresenter) PresentSummary(results []orchestration.ScriptResult, _ io.Writer) {
	t.ref.Send(SummaryMsg{Generation: t.generation, Results: results})
}

// FormatDuration uses the command-line format.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError sends an ErrorMsg and returns the exit code the command
// line would use.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Generation: t.generation, Err: err, Duration: duration})
	return cli.HandleScriptError(err, duration, io.Discard)
}

// registerCapture returns a machine option that renders the registers of
// each finished script and sends them as a RegistersMsg.
func registerCapture(ref *programRef, generation uint64) machine.Option {
	return machine.WithFinishHook(func(script string, m *machine.Machine, _ error) {
		names := m.Registers()
		msg := RegistersMsg{Generation: generation, Script: script}
		if len(names) > maxRegisterPanels {
			msg.Hidden = len(names) - maxRegisterPanels
			names = names[:maxRegisterPanels]
		}
		for _, name := range names {
			r, _ := m.Register(name)
			msg.Panels = append(msg.Panels, cli.RenderWordDump(name, r))
		}
		ref.Send(msg)
	})
}
