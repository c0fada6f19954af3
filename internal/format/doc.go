// Package format holds the text formatting helpers shared by the CLI:
// durations, ETAs, progress bars, thousands separators and byte sizes.
package format
