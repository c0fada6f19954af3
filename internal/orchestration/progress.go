package orchestration

import (
	"time"

	"github.com/agbru/mpbits/internal/format"
)

// ProgressAggregator folds per-script updates into an overall progress
// value and ETA.
type ProgressAggregator struct {
	state      *format.ProgressWithETA
	numScripts int
}

// NewProgressAggregator returns an aggregator for numScripts scripts, or
// nil when numScripts <= 0.
func NewProgressAggregator(numScripts int) *ProgressAggregator {
	if numScripts <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      format.NewProgressWithETA(numScripts),
		numScripts: numScripts,
	}
}

// AggregatedProgress is the view after applying one update.
type AggregatedProgress struct {
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update applies one update.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumScripts returns the number of tracked scripts.
func (a *ProgressAggregator) NumScripts() int {
	return a.numScripts
}

// IsMultiScript reports whether more than one script is tracked.
func (a *ProgressAggregator) IsMultiScript() bool {
	return a.numScripts > 1
}

// DrainChannel discards updates until the channel is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
