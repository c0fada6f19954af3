package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mpbits/internal/format"
)

// HeaderModel renders the top bar: title, allocator, elapsed time and the
// run status.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	allocator string
	status    string
	width     int
}

// NewHeaderModel creates a header for a run using allocator.
func NewHeaderModel(version, allocator string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		allocator: allocator,
		status:    "running",
	}
}

// SetDone freezes the elapsed time and shows status.
func (h *HeaderModel) SetDone(status string) {
	h.endTime = time.Now()
	h.status = status
}

// Reset restarts the elapsed time.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.status = "running"
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, or its total once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := "mpbits"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	status := statusRunStyle
	switch h.status {
	case "done":
		status = statusDoneStyle
	case "failed", "canceled":
		status = statusFailedStyle
	}

	row := titleStyle.Render(title) +
		pipe + labelStyle.Render("allocator ") + valueStyle.Render(h.allocator) +
		pipe + labelStyle.Render(fmt.Sprintf("elapsed %s", format.FormatExecutionDuration(h.Elapsed()))) +
		pipe + status.Render(h.status)
	return lipgloss.NewStyle().Width(h.width).MaxWidth(h.width).Render(row)
}
