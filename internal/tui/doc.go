// Package tui implements the --tui dashboard: a bubbletea program that runs
// scripts through the orchestration package and shows per-script progress,
// storage statistics, script output and the registers each script left
// behind.
//
// The bridge types adapt orchestration.ProgressReporter, ResultPresenter
// and ErrorHandler to bubbletea messages, so the orchestration code is the
// same one the plain command line uses.
package tui
