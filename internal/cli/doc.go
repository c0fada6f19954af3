// Package cli is the terminal front end: the interactive REPL, the
// spinner shown while scripts run, result presentation, word dumps, and
// shell completion scripts.
package cli
