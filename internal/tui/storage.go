package tui

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/agbru/mpbits/internal/format"
)

const wordBytes = bits.UintSize / 8

// StorageModel shows allocator statistics next to runtime and system
// memory.
type StorageModel struct {
	snap     StorageMsg
	sampled  bool
	maxWords int
	width    int
	height   int
}

// NewStorageModel creates the panel. maxWords is the per-value ceiling
// shown for reference.
func NewStorageModel(maxWords int) StorageModel {
	return StorageModel{maxWords: maxWords}
}

// Update stores a new snapshot.
func (s *StorageModel) Update(msg StorageMsg) {
	s.snap = msg
	s.sampled = true
}

// SetSize updates the panel dimensions.
func (s *StorageModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// View renders the panel.
func (s StorageModel) View() string {
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(value)
	}
	lines := []string{titleStyle.Render("Storage")}
	if !s.sampled {
		lines = append(lines, dimStyle.Render("sampling..."))
	} else {
		failures := fmt.Sprintf("%d", s.snap.Failures)
		if s.snap.Failures > 0 {
			failures = statusFailedStyle.Render(failures)
		}
		lines = append(lines,
			row("grows", fmt.Sprintf("%d (+%s)", s.snap.Grows, format.FormatWords(int(s.snap.GrownWords), wordBytes))),
			row("released", format.FormatWords(int(s.snap.ReleasedWords), wordBytes)),
			labelStyle.Render(fmt.Sprintf("%-10s", "failures"))+failures,
		)
		if s.maxWords > 0 {
			lines = append(lines, row("ceiling", format.FormatWords(s.maxWords, wordBytes)))
		}
		lines = append(lines,
			row("heap", fmt.Sprintf("%s, %d GC", format.FormatBytes(s.snap.Memory.HeapAlloc), s.snap.Memory.NumGC)),
			row("system", fmt.Sprintf("cpu %.1f%%, mem %.1f%%", s.snap.System.CPUPercent, s.snap.System.MemPercent)),
		)
	}
	return panelStyle.
		Width(max(s.width-2, 0)).
		Height(max(s.height-2, 0)).
		Render(strings.Join(lines, "\n"))
}
