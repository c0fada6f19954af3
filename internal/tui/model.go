package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/machine"
	"github.com/agbru/mpbits/internal/metrics"
	"github.com/agbru/mpbits/internal/orchestration"
	"github.com/agbru/mpbits/internal/sysmon"
	"github.com/agbru/mpbits/internal/wordstore"
)

// Session describes what the dashboard runs.
type Session struct {
	Scripts []orchestration.Script
	Factory orchestration.AllocatorFactory
	// Options apply to every machine.
	Options []machine.Option
	// Storage is sampled for the storage panel. It may be nil.
	Storage   *wordstore.Stats
	Allocator string
	MaxWords  int
	Verbose   bool
	Version   string
	// Annotate, when set, rewrites results before they are presented.
	Annotate func([]orchestration.ScriptResult)
}

// Layout constants for the dashboard.
const (
	headerHeight      = 1
	minBodyHeight     = 8
	leftWidthPercent  = 45
	storagePanelLines = 8
	sampleInterval    = 500 * time.Millisecond
)

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	scripts ScriptsModel
	storage StorageModel
	detail  DetailModel
	footer  FooterModel
	keymap  KeyMap

	session   Session
	parentCtx context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	ref       *programRef
	memory    *metrics.MemoryCollector

	generation uint64
	done       bool
	exitCode   int
	results    []orchestration.ScriptResult

	width  int
	height int
}

// NewModel creates the dashboard for session.
func NewModel(parentCtx context.Context, session Session) Model {
	names := make([]string, len(session.Scripts))
	for i, s := range session.Scripts {
		names[i] = s.Name
	}
	ctx, cancel := context.WithCancel(parentCtx)
	keys := DefaultKeyMap()
	return Model{
		header:    NewHeaderModel(session.Version, session.Allocator),
		scripts:   NewScriptsModel(names),
		storage:   NewStorageModel(session.MaxWords),
		detail:    NewDetailModel(),
		footer:    NewFooterModel(keys),
		keymap:    keys,
		session:   session,
		parentCtx: parentCtx,
		ctx:       ctx,
		cancel:    cancel,
		ref:       &programRef{},
		memory:    metrics.NewMemoryCollector(),
		exitCode:  apperrors.ExitSuccess,
	}
}

// Init starts the run and the sampling loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		sampleStorageCmd(m.session.Storage, m.memory),
		tickCmd(),
		runScriptsCmd(m.ctx, m.ref, m.session, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case tea.MouseMsg:
		m.detail.Update(msg)
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation {
			m.scripts.SetProgress(msg.Index, msg.Value, msg.AverageProgress, msg.ETA)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case OutputMsg:
		if msg.Generation == m.generation {
			m.scripts.SetResult(msg.Result)
			m.detail.AddResult(msg.Result)
		}
		return m, nil

	case SummaryMsg:
		return m, nil

	case RegistersMsg:
		if msg.Generation == m.generation {
			m.detail.AddRegisters(msg)
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.detail.AddError(msg)
		}
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.results = msg.Results
		status := "done"
		if msg.ExitCode != apperrors.ExitSuccess {
			status = "failed"
		}
		m.header.SetDone(status)
		return m, sampleStorageCmd(m.session.Storage, m.memory)

	case ContextCancelledMsg:
		if msg.Generation != m.generation || m.done {
			return m, nil
		}
		m.done = true
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		m.header.SetDone("canceled")
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleStorageCmd(m.session.Storage, m.memory), tickCmd())

	case StorageMsg:
		m.storage.Update(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Rerun):
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.header.Reset()
		m.scripts.Reset()
		m.detail.Reset()
		m.done = false
		m.results = nil
		m.exitCode = apperrors.ExitSuccess
		return m, tea.Batch(
			tickCmd(),
			runScriptsCmd(m.ctx, m.ref, m.session, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Switch):
		m.detail.Switch()
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		m.layoutPanels()
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.detail.Update(msg)
		return m, nil
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	left := lipgloss.JoinVertical(lipgloss.Left, m.scripts.View(), m.storage.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.detail.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)

	body := max(m.height-headerHeight-lipgloss.Height(m.footer.View()), minBodyHeight)
	leftWidth := m.width * leftWidthPercent / 100
	storageHeight := min(storagePanelLines, body/2)

	m.scripts.SetSize(leftWidth, body-storageHeight)
	m.storage.SetSize(leftWidth, storageHeight)
	m.detail.SetSize(m.width-leftWidth, body)
}

// ExitCode returns the exit code of the last run.
func (m Model) ExitCode() int { return m.exitCode }

// Results returns the results of the last completed run.
func (m Model) Results() []orchestration.ScriptResult { return m.results }

// Run shows the dashboard until the user quits and returns the exit code
// and the results of the last completed run.
func Run(ctx context.Context, session Session, opts ...tea.ProgramOption) (int, []orchestration.ScriptResult) {
	initStyles()

	model := NewModel(ctx, session)
	defer model.cancel()

	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)...)
	model.ref.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric, nil
	}
	if fm, ok := final.(Model); ok {
		fm.cancel()
		return fm.exitCode, fm.results
	}
	return apperrors.ExitSuccess, nil
}

// runScriptsCmd runs the session through the orchestration package with
// bridge reporters tagged with gen.
func runScriptsCmd(ctx context.Context, ref *programRef, s Session, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{ref: ref, generation: gen}

		opts := append(append([]machine.Option(nil), s.Options...), registerCapture(ref, gen))
		results := orchestration.ExecuteScripts(ctx, s.Scripts, s.Factory, reporter, io.Discard, opts...)
		if s.Annotate != nil {
			s.Annotate(results)
		}
		presOpts := orchestration.PresentationOptions{Verbose: s.Verbose}
		code := orchestration.AnalyzeResults(results, presOpts, presenter, presenter, io.Discard)
		return RunCompleteMsg{Generation: gen, ExitCode: code, Results: results}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleStorageCmd reads the allocator counters, runtime memory and
// system usage.
func sampleStorageCmd(stats *wordstore.Stats, mem *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		msg := StorageMsg{
			Memory: mem.Snapshot(),
			System: sysmon.Sample(),
		}
		if stats != nil {
			msg.Grows = stats.Grows.Load()
			msg.GrownWords = stats.GrownWords.Load()
			msg.Failures = stats.Failures.Load()
			msg.ReleasedWords = stats.ReleasedWords.Load()
		}
		return msg
	}
}

// watchContextCmd reports the end of ctx.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Generation: gen, Err: ctx.Err()}
	}
}
