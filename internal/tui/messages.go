package tui

import (
	"time"

	"github.com/agbru/mpbits/internal/metrics"
	"github.com/agbru/mpbits/internal/orchestration"
	"github.com/agbru/mpbits/internal/sysmon"
)

// Messages sent by the bridge carry the generation of the run that
// produced them; the model drops those of an earlier run.

// ProgressMsg reports the progress of one script.
type ProgressMsg struct {
	Generation      uint64
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg is sent once the progress channel has closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// OutputMsg carries the result of one script.
type OutputMsg struct {
	Generation uint64
	Result     orchestration.ScriptResult
}

// SummaryMsg carries every result once all scripts have finished.
type SummaryMsg struct {
	Generation uint64
	Results    []orchestration.ScriptResult
}

// RegistersMsg carries the rendered registers a script left behind.
type RegistersMsg struct {
	Generation uint64
	Script     string
	Panels     []string
	// Hidden counts registers not rendered.
	Hidden int
}

// ErrorMsg reports the failure that decides the exit code.
type ErrorMsg struct {
	Generation uint64
	Err        error
	Duration   time.Duration
}

// RunCompleteMsg is returned by the command that runs the scripts.
type RunCompleteMsg struct {
	Generation uint64
	ExitCode   int
	Results    []orchestration.ScriptResult
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Generation uint64
	Err        error
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// StorageMsg is a snapshot of allocator, runtime and system statistics.
type StorageMsg struct {
	Grows         int64
	GrownWords    int64
	Failures      int64
	ReleasedWords int64
	Memory        metrics.MemorySnapshot
	System        sysmon.Stats
}
