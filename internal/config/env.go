package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// flagSet records which flags were given explicitly on the command line.
// Environment and file values only apply to flags absent from it.
type flagSet map[string]bool

func explicitFlags(fs *flag.FlagSet) flagSet {
	set := flagSet{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// any reports whether any of names (a flag and its aliases) was given.
func (s flagSet) any(names ...string) bool {
	for _, n := range names {
		if s[n] {
			return true
		}
	}
	return false
}

func lookupEnv(key string) (string, bool) {
	v := os.Getenv(EnvPrefix + key)
	return v, v != ""
}

// envOverride binds MPBITS_<key> to the flags it stands in for.
// Values that fail to parse are ignored and leave the field unchanged.
type envOverride struct {
	key   string
	flags []string
	apply func(*AppConfig, string)
}

func intEnv(dst func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*dst(c) = n
		}
	}
}

func stringEnv(dst func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *dst(c) = v }
}

func boolEnv(dst func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		p := dst(c)
		*p = parseBoolEnv(v, *p)
	}
}

var envOverrides = []envOverride{
	{"MAX_WORDS", []string{"max-words"}, intEnv(func(c *AppConfig) *int { return &c.MaxWords })},
	{"ARENA_WORDS", []string{"arena-words"}, intEnv(func(c *AppConfig) *int { return &c.ArenaWords })},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}},
	{"ALLOCATOR", []string{"allocator"}, stringEnv(func(c *AppConfig) *string { return &c.Allocator })},
	{"LOG_LEVEL", []string{"log-level"}, stringEnv(func(c *AppConfig) *string { return &c.LogLevel })},
	{"METRICS_ADDR", []string{"metrics-addr"}, stringEnv(func(c *AppConfig) *string { return &c.MetricsAddr })},
	{"OUTPUT", []string{"output", "o"}, stringEnv(func(c *AppConfig) *string { return &c.OutputFile })},
	{"HEX", []string{"hex"}, boolEnv(func(c *AppConfig) *bool { return &c.Hex })},
	{"VERBOSE", []string{"verbose", "v"}, boolEnv(func(c *AppConfig) *bool { return &c.Verbose })},
	{"QUIET", []string{"quiet", "q"}, boolEnv(func(c *AppConfig) *bool { return &c.Quiet })},
	{"NO_COLOR", []string{"no-color"}, boolEnv(func(c *AppConfig) *bool { return &c.NoColor })},
	{"TUI", []string{"tui"}, boolEnv(func(c *AppConfig) *bool { return &c.TUI })},
	{"METRICS", []string{"metrics"}, boolEnv(func(c *AppConfig) *bool { return &c.Metrics })},
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case, returning
// fallback for anything else.
func parseBoolEnv(val string, fallback bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

func applyEnvOverrides(config *AppConfig, explicit flagSet) {
	for _, o := range envOverrides {
		if explicit.any(o.flags...) {
			continue
		}
		if v, ok := lookupEnv(o.key); ok {
			o.apply(config, v)
		}
	}
}
