package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the key help.
type FooterModel struct {
	help  help.Model
	keys  KeyMap
	width int
}

// NewFooterModel creates a footer for keys.
func NewFooterModel(keys KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = labelStyle
	h.Styles.ShortDesc = dimStyle
	h.Styles.FullKey = labelStyle
	h.Styles.FullDesc = dimStyle
	return FooterModel{help: h, keys: keys}
}

// ToggleHelp switches between the short and full help.
func (f *FooterModel) ToggleHelp() {
	f.help.ShowAll = !f.help.ShowAll
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// View renders the footer.
func (f FooterModel) View() string {
	return lipgloss.NewStyle().Width(f.width).Render(f.help.View(f.keys))
}
