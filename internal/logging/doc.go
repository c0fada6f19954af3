// Package logging provides the logging interface shared by the register
// machine, the script orchestrator and the application layer. It hides the
// zerolog backend behind a small Logger interface and offers a standard
// library adapter for callers that already own a *log.Logger.
package logging
