package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/mpbits/internal/errors"
)

func runApp(t *testing.T, in string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	application, err := New(append([]string{"mpbits", "--no-color"}, args...), &stderr, WithInput(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("New(%v): %v", args, err)
	}
	code := application.Run(context.Background(), &stdout)
	return stdout.String(), stderr.String(), code
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExecQuiet(t *testing.T) {
	out, _, code := runApp(t, "", "-q", "-e", "set a 5; shl a a 3; print a")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if out != "40\n" {
		t.Errorf("output = %q, want %q", out, "40\n")
	}
}

func TestRunExecHex(t *testing.T) {
	out, _, code := runApp(t, "", "-q", "--hex", "-e", "setbit a 64; print a")
	if code != apperrors.ExitSuccess || out != "0x10000000000000000\n" {
		t.Errorf("code=%d output=%q", code, out)
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
		msg  string
	}{
		{"assertion", []string{"-e", "set a 4; shr1 a a; assert a 3"}, apperrors.ExitErrorMismatch, "Assertion failed"},
		{"out of range", []string{"-e", "set a 1; clrbit a 500"}, apperrors.ExitErrorGeneric, "clearbit(500): out of range"},
		{"storage ceiling", []string{"--max-words", "4", "-e", "setbit a 100000"}, apperrors.ExitErrorGeneric, "Out of storage"},
		{"unknown command", []string{"-e", "rotate a 3"}, apperrors.ExitErrorGeneric, "Error:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, code := runApp(t, "", tt.args...)
			if code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
			if !strings.Contains(out, tt.msg) {
				t.Errorf("output should contain %q:\n%s", tt.msg, out)
			}
		})
	}
}

func TestRunScriptFiles(t *testing.T) {
	dir := t.TempDir()
	ok := writeScript(t, dir, "ok.bits", "set a 0b1011\nctz a\nbitlen a\n")
	bad := writeScript(t, dir, "bad.bits", "set a 1\n\nassert a 2\n")
	report := filepath.Join(dir, "out", "report.txt")

	out, _, code := runApp(t, "", "-o", report, ok, bad)
	if code != apperrors.ExitErrorMismatch {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorMismatch)
	}
	for _, s := range []string{"0\n4\n", "--- Script Summary ---", "1 of 2 scripts failed.", "bad.bits:3:", "Results saved to"} {
		if !strings.Contains(out, s) {
			t.Errorf("output should contain %q:\n%s", s, out)
		}
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "## "+ok) || !strings.Contains(string(data), "# Status: error:") {
		t.Errorf("unexpected report:\n%s", data)
	}
}

func TestRunTimeout(t *testing.T) {
	out, _, code := runApp(t, "", "--timeout", "1ns", "-e", "set a 1; shl a a 1")
	if code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(out, `operation "-e" timed out after 1ns`) {
		t.Errorf("output should name the limit:\n%s", out)
	}
}

func TestRunMissingScript(t *testing.T) {
	_, stderr, code := runApp(t, "", filepath.Join(t.TempDir(), "absent.bits"))
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(stderr, "cannot read script") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunAllocators(t *testing.T) {
	for _, kind := range []string{"heap", "pool", "arena"} {
		t.Run(kind, func(t *testing.T) {
			out, _, code := runApp(t, "", "-q", "--allocator", kind, "--arena-words", "64",
				"-e", "setbit a 1000; shr a a 999; print a; free a")
			if code != apperrors.ExitSuccess || out != "2\n" {
				t.Errorf("code=%d output=%q", code, out)
			}
		})
	}
}

func TestRunMetrics(t *testing.T) {
	_, stderr, code := runApp(t, "", "-q", "--metrics", "-e", "set a 1; shl a a 200")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, s := range []string{`mpbits_operations_total{op="shl",result="ok"} 1`, "mpbits_storage_grows_total"} {
		if !strings.Contains(stderr, s) {
			t.Errorf("metrics should contain %q:\n%s", s, stderr)
		}
	}
}

func TestRunREPL(t *testing.T) {
	out, _, code := runApp(t, "set a 7\nshl1 a a\nprint a\nexit\n")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "14\n") || !strings.Contains(out, "Goodbye!") {
		t.Errorf("unexpected session:\n%s", out)
	}
}

func TestRunCompletion(t *testing.T) {
	out, _, code := runApp(t, "", "--completion", "bash")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "complete -F _mpbits_completions mpbits") {
		t.Errorf("code=%d output=%q", code, out)
	}
}

func TestRunVersion(t *testing.T) {
	out, _, code := runApp(t, "", "--version")
	if code != apperrors.ExitSuccess || !strings.HasPrefix(out, "mpbits ") {
		t.Errorf("code=%d output=%q", code, out)
	}
}

func TestNewConfigErrors(t *testing.T) {
	_, err := New([]string{"mpbits", "--allocator", "slab"}, &bytes.Buffer{})
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
		t.Error("config errors should map to ExitErrorConfig")
	}

	_, err = New([]string{"mpbits", "--help"}, &bytes.Buffer{})
	if !IsHelpError(err) {
		t.Errorf("expected help error, got %v", err)
	}
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-q", "-V"}, true},
		{[]string{"-e", "print a"}, false},
		{[]string{"--", "--version"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestRunMetricsServerBindFailure(t *testing.T) {
	_, stderr, code := runApp(t, "", "--metrics-addr", "256.0.0.1:bad", "-e", "set a 1")
	if code != apperrors.ExitErrorGeneric || !strings.Contains(stderr, "metrics server") {
		t.Errorf("code=%d stderr=%q", code, stderr)
	}
}

func TestRunWithMetricsServer(t *testing.T) {
	out, _, code := runApp(t, "", "-q", "--metrics-addr", "127.0.0.1:0", "-e", "set a 3; print a")
	if code != apperrors.ExitSuccess || out != "3\n" {
		t.Errorf("code=%d output=%q", code, out)
	}
}
