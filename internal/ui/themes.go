package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette: ANSI escape sequences for plain output and
// lipgloss colors for bordered panels.
type Theme struct {
	Name string

	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string

	Panel PanelTheme
}

// PanelTheme colors the parts of a register word dump.
type PanelTheme struct {
	Border lipgloss.TerminalColor
	Title  lipgloss.TerminalColor
	Text   lipgloss.TerminalColor
	Index  lipgloss.TerminalColor
	Zero   lipgloss.TerminalColor
	Sign   lipgloss.TerminalColor
}

// fg returns the 256-color foreground sequence for code.
func fg(code string) string { return "\033[38;5;" + code + "m" }

const (
	escBold      = "\033[1m"
	escUnderline = "\033[4m"
	escReset     = "\033[0m"
)

var (
	DarkPanelTheme = PanelTheme{
		Border: lipgloss.Color("#4488FF"),
		Title:  lipgloss.Color("#9ece6a"),
		Text:   lipgloss.Color("#E0E0E0"),
		Index:  lipgloss.Color("#FFB347"),
		Zero:   lipgloss.Color("#666666"),
		Sign:   lipgloss.Color("#FF4444"),
	}
	LightPanelTheme = PanelTheme{
		Border: lipgloss.Color("#1f4fbf"),
		Title:  lipgloss.Color("#2e7d32"),
		Text:   lipgloss.Color("#202020"),
		Index:  lipgloss.Color("#a15c00"),
		Zero:   lipgloss.Color("#9e9e9e"),
		Sign:   lipgloss.Color("#b71c1c"),
	}
	NoColorPanelTheme = PanelTheme{
		Border: lipgloss.NoColor{},
		Title:  lipgloss.NoColor{},
		Text:   lipgloss.NoColor{},
		Index:  lipgloss.NoColor{},
		Zero:   lipgloss.NoColor{},
		Sign:   lipgloss.NoColor{},
	}

	// DarkTheme is the default.
	DarkTheme = Theme{
		Name:    "dark",
		Primary: fg("39"), Secondary: fg("245"), Success: fg("82"),
		Warning: fg("220"), Error: fg("196"), Info: fg("141"),
		Bold: escBold, Underline: escUnderline, Reset: escReset,
		Panel: DarkPanelTheme,
	}
	LightTheme = Theme{
		Name:    "light",
		Primary: fg("27"), Secondary: fg("240"), Success: fg("28"),
		Warning: fg("130"), Error: fg("124"), Info: fg("54"),
		Bold: escBold, Underline: escUnderline, Reset: escReset,
		Panel: LightPanelTheme,
	}
	// NoColorTheme emits no escape sequences at all.
	NoColorTheme = Theme{Name: "none", Panel: NoColorPanelTheme}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	mu      sync.RWMutex
	current = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// GetCurrentPanelTheme returns the panel palette of the active theme.
func GetCurrentPanelTheme() PanelTheme { return GetCurrentTheme().Panel }

// SetCurrentTheme installs t as the active theme.
func SetCurrentTheme(t Theme) {
	mu.Lock()
	current = t
	mu.Unlock()
}

// SetTheme selects a theme by name. Unknown names fall back to dark.
func SetTheme(name string) {
	t, ok := themes[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme disables color when noColor is set or NO_COLOR is present in
// the environment (https://no-color.org/), and selects dark otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
