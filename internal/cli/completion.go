package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/mpbits/internal/wordstore"
)

// FlagCompletion describes a command-line flag for completion scripts.
// Every generator reads flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // long name without "--"
	Short     string   // short name without "-"
	Help      string   // description
	Values    []string // suggested values; nil for booleans or free text
	ValueName string   // label of the value in zsh
	IsFile    bool     // the value is a path
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Short: "e", Help: "Execute a one-line program", ValueName: "program"},
	{Long: "repl", Help: "Start the interactive session"},
	{Long: "tui", Help: "Run scripts under the dashboard"},
	{Long: "allocator", Help: "Storage strategy", Values: wordstore.Kinds, ValueName: "kind"},
	{Long: "max-words", Help: "Word ceiling per value", Values: []string{"4096", "65536", "1048576", "16777216"}, ValueName: "words"},
	{Long: "arena-words", Help: "Arena block size in words", Values: []string{"4096", "65536", "1048576"}, ValueName: "words"},
	{Long: "hex", Help: "Print values in hexadecimal"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"10s", "1m", "5m", "30m"}, ValueName: "duration"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "disabled"}, ValueName: "level"},
	{Long: "metrics", Help: "Print metrics on exit"},
	{Long: "metrics-addr", Help: "Serve metrics over HTTP", Values: []string{":9090", "127.0.0.1:9090"}, ValueName: "addr"},
	{Long: "output", Short: "o", Help: "Write results to a file", IsFile: true, ValueName: "file"},
	{Long: "config", Help: "TOML configuration file", IsFile: true, ValueName: "file"},
	{Long: "quiet", Short: "q", Help: "Print script output only"},
	{Long: "verbose", Short: "v", Help: "Print full values and a summary"},
	{Long: "no-color", Help: "Disable colors"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell.
func GenerateCompletion(out io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion()
	case "zsh":
		script = zshCompletion()
	case "fish":
		script = fishCompletion()
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion() string {
	var opts []string
	var cases strings.Builder
	var files []string
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)
		switch {
		case f.IsFile:
			files = append(files, flagNames(f)...)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(flagNames(f), "|"), strings.Join(f.Values, " "))
		}
	}
	if len(files) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(files, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for mpbits
# Add this to your ~/.bashrc or ~/.bash_completion

_mpbits_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
    COMPREPLY=( $(compgen -f -- "${cur}") )
}

complete -F _mpbits_completions mpbits
`, strings.Join(opts, " "), cases.String())
}

func zshArgEntry(f FlagCompletion) string {
	suffix := ""
	switch {
	case f.IsFile:
		suffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		suffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	switch {
	case f.Long != "" && f.Short != "":
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, suffix)
	case f.Long != "":
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, suffix)
	default:
		return fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, suffix)
	}
}

func zshCompletion() string {
	args := make([]string, 0, len(flagRegistry)+1)
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, "        '*:script:_files'")
	return fmt.Sprintf(`#compdef mpbits

# Zsh completion script for mpbits
# Place in a directory on $fpath

_mpbits() {
    _arguments -s \
%s
}

_mpbits "$@"
`, strings.Join(args, " \\\n"))
}

func fishCompletion() string {
	lines := []string{
		"# Fish completion script for mpbits",
		"# Add this to ~/.config/fish/completions/mpbits.fish",
		"",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c mpbits"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		if f.Long != "" {
			parts = append(parts, "-l "+f.Long)
		}
		parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
