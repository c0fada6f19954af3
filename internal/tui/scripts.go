package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/agbru/mpbits/internal/format"
	"github.com/agbru/mpbits/internal/orchestration"
)

type scriptState int

const (
	stateRunning scriptState = iota
	stateDone
	stateFailed
)

type scriptRow struct {
	name         string
	value        float64
	state        scriptState
	instructions int
	duration     time.Duration
}

// ScriptsModel shows one progress bar per script and the overall progress.
type ScriptsModel struct {
	rows    []scriptRow
	bar     progress.Model
	average float64
	eta     time.Duration
	width   int
	height  int
}

// NewScriptsModel creates the panel for the named scripts.
func NewScriptsModel(names []string) ScriptsModel {
	rows := make([]scriptRow, len(names))
	for i, n := range names {
		rows[i] = scriptRow{name: n}
	}
	opt := progress.WithDefaultGradient()
	if barColor != "" {
		opt = progress.WithSolidFill(barColor)
	}
	return ScriptsModel{rows: rows, bar: progress.New(opt, progress.WithoutPercentage())}
}

// SetProgress records the progress of script i and the overall average.
func (s *ScriptsModel) SetProgress(i int, value, average float64, eta time.Duration) {
	if i < 0 || i >= len(s.rows) {
		return
	}
	if value > s.rows[i].value {
		s.rows[i].value = value
	}
	s.average = average
	s.eta = eta
}

// SetResult marks the first unfinished script named like r as done or
// failed. Results arrive in input order, so duplicate names resolve to
// the right row.
func (s *ScriptsModel) SetResult(r orchestration.ScriptResult) {
	for i := range s.rows {
		row := &s.rows[i]
		if row.name != r.Name || row.state != stateRunning {
			continue
		}
		row.state = stateDone
		row.value = 1
		if r.Err != nil {
			row.state = stateFailed
		}
		row.instructions = r.Instructions
		row.duration = r.Duration
		return
	}
}

// Failed counts the scripts that ended with an error.
func (s ScriptsModel) Failed() int {
	n := 0
	for _, r := range s.rows {
		if r.state == stateFailed {
			n++
		}
	}
	return n
}

// Reset clears all progress.
func (s *ScriptsModel) Reset() {
	for i := range s.rows {
		s.rows[i] = scriptRow{name: s.rows[i].name}
	}
	s.average = 0
	s.eta = 0
}

// SetSize updates the panel dimensions.
func (s *ScriptsModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// nameWidth is the column reserved for script names.
const nameWidth = 16

// View renders the panel.
func (s ScriptsModel) View() string {
	inner := max(s.width-4, 10)
	bar := s.bar
	bar.Width = max(inner-nameWidth-20, 4)

	lines := []string{titleStyle.Render("Scripts") + dimStyle.Render(fmt.Sprintf("  %d total", len(s.rows)))}
	for _, r := range s.rows {
		lines = append(lines, s.renderRow(r, bar))
	}
	summary := fmt.Sprintf("overall %5.1f%%", s.average*100)
	if s.eta > 0 && s.average < 1 {
		summary += "  eta " + format.FormatETA(s.eta)
	}
	if n := s.Failed(); n > 0 {
		summary += "  " + statusFailedStyle.Render(fmt.Sprintf("%d failed", n))
	}
	lines = append(lines, labelStyle.Render(summary))

	return panelStyle.
		Width(max(s.width-2, 0)).
		Height(max(s.height-2, 0)).
		Render(strings.Join(lines, "\n"))
}

func (s ScriptsModel) renderRow(r scriptRow, bar progress.Model) string {
	name := r.name
	if runes := []rune(name); len(runes) > nameWidth {
		name = "…" + string(runes[len(runes)-nameWidth+1:])
	}
	var mark, tail string
	switch r.state {
	case stateDone:
		mark = statusDoneStyle.Render("✓")
		tail = dimStyle.Render(fmt.Sprintf("%d ops %s", r.instructions, format.FormatExecutionDuration(r.duration)))
	case stateFailed:
		mark = statusFailedStyle.Render("✗")
		tail = statusFailedStyle.Render(fmt.Sprintf("failed, %d ops", r.instructions))
	default:
		mark = statusRunStyle.Render("•")
		tail = dimStyle.Render(fmt.Sprintf("%5.1f%%", r.value*100))
	}
	return fmt.Sprintf("%s %-*s %s %s", mark, nameWidth, name, bar.ViewAs(r.value), tail)
}
