// Package ui holds the color themes shared by the CLI: ANSI escape
// sequences for plain terminal output and lipgloss colors for bordered
// panels. NO_COLOR and --no-color select a theme that emits nothing.
package ui
