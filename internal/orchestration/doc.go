// Package orchestration runs register-machine scripts concurrently and
// turns their outcomes into a report and an exit code. Presentation is
// reached only through the ProgressReporter and ResultPresenter
// interfaces, so the CLI and tests plug in their own.
package orchestration
