package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mpbits/internal/ui"
)

// Dashboard styles, rebuilt from the ui panel theme by initStyles.
var (
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	dimStyle          lipgloss.Style
	labelStyle        lipgloss.Style
	valueStyle        lipgloss.Style
	statusRunStyle    lipgloss.Style
	statusDoneStyle   lipgloss.Style
	statusFailedStyle lipgloss.Style

	// barColor feeds the solid fill of the progress bars.
	barColor string
)

func init() {
	initStyles()
}

// initStyles rebuilds every style from the current ui theme. Run calls it
// again after the application has picked a theme.
func initStyles() {
	t := ui.GetCurrentPanelTheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Zero).
		Padding(0, 1)
	activePanelStyle = panelStyle.BorderForeground(t.Border)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	dimStyle = lipgloss.NewStyle().Foreground(t.Zero)
	labelStyle = lipgloss.NewStyle().Foreground(t.Index)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Text)
	statusRunStyle = lipgloss.NewStyle().Foreground(t.Index)
	statusDoneStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	statusFailedStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Sign)

	barColor = ""
	if c, ok := t.Border.(lipgloss.Color); ok {
		barColor = string(c)
	}
}
