// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayProgress], [DisplayWordDump].
//
//   - Render* and Format* functions return strings without performing I/O.
//     Examples: [RenderWordDump], [FormatResultsReport].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultsToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/agbru/mpbits/internal/errors"
	"github.com/agbru/mpbits/internal/format"
	"github.com/agbru/mpbits/internal/orchestration"
	"github.com/agbru/mpbits/internal/ui"
)

// FormatResultsReport renders results as a plain-text report: a header,
// then one section per script with its status and full output.
func FormatResultsReport(results []orchestration.ScriptResult, generated time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# mpbits results\n")
	fmt.Fprintf(&b, "# Generated: %s\n", generated.Format(time.RFC3339))
	fmt.Fprintf(&b, "# Scripts: %d\n", len(results))
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "error: " + r.Err.Error()
		}
		fmt.Fprintf(&b, "\n## %s\n", r.Name)
		fmt.Fprintf(&b, "# Status: %s\n", status)
		fmt.Fprintf(&b, "# Instructions: %d\n", r.Instructions)
		fmt.Fprintf(&b, "# Duration: %s\n", format.FormatExecutionDuration(r.Duration))
		b.WriteString(r.Output)
	}
	return b.String()
}

// WriteResultsToFile writes FormatResultsReport to path, creating parent
// directories as needed. An empty path is a no-op.
func WriteResultsToFile(path string, results []orchestration.ScriptResult) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "failed to create directory")
		}
	}
	report := FormatResultsReport(results, time.Now())
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return apperrors.WrapError(err, "failed to write output file")
	}
	return nil
}

// DisplaySavedPath confirms where results were written.
func DisplaySavedPath(path string, out io.Writer) {
	fmt.Fprintf(out, "\n%s✓ Results saved to: %s%s%s\n",
		ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
