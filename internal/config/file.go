package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/agbru/mpbits/internal/errors"
)

// fileConfig mirrors the keys accepted in a TOML configuration file:
//
//	allocator   = "arena"
//	max_words   = 65536
//	arena_words = 1048576
//	timeout     = "30s"
//	log_level   = "info"
//	hex         = true
//	metrics_addr = "127.0.0.1:9090"
//
//	[output]
//	file    = "results.txt"
//	quiet   = false
//	verbose = true
//	color   = true
//	metrics = false
//	tui     = false
type fileConfig struct {
	Allocator   string `toml:"allocator"`
	MaxWords    int    `toml:"max_words"`
	ArenaWords  int    `toml:"arena_words"`
	Timeout     string `toml:"timeout"`
	LogLevel    string `toml:"log_level"`
	Hex         bool   `toml:"hex"`
	MetricsAddr string `toml:"metrics_addr"`
	Output      struct {
		File    string `toml:"file"`
		Quiet   bool   `toml:"quiet"`
		Verbose bool   `toml:"verbose"`
		Color   bool   `toml:"color"`
		Metrics bool   `toml:"metrics"`
		TUI     bool   `toml:"tui"`
	} `toml:"output"`
}

// fileOverride maps a TOML key path to the flags that take precedence over it.
type fileOverride struct {
	key   []string
	flags []string
	apply func(*AppConfig, *fileConfig) error
}

var fileOverrides = []fileOverride{
	{[]string{"allocator"}, []string{"allocator"}, func(c *AppConfig, f *fileConfig) error {
		c.Allocator = f.Allocator
		return nil
	}},
	{[]string{"max_words"}, []string{"max-words"}, func(c *AppConfig, f *fileConfig) error {
		c.MaxWords = f.MaxWords
		return nil
	}},
	{[]string{"arena_words"}, []string{"arena-words"}, func(c *AppConfig, f *fileConfig) error {
		c.ArenaWords = f.ArenaWords
		return nil
	}},
	{[]string{"timeout"}, []string{"timeout"}, func(c *AppConfig, f *fileConfig) error {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return apperrors.NewConfigError("timeout: invalid duration %q", f.Timeout)
		}
		c.Timeout = d
		return nil
	}},
	{[]string{"log_level"}, []string{"log-level"}, func(c *AppConfig, f *fileConfig) error {
		c.LogLevel = f.LogLevel
		return nil
	}},
	{[]string{"hex"}, []string{"hex"}, func(c *AppConfig, f *fileConfig) error {
		c.Hex = f.Hex
		return nil
	}},
	{[]string{"metrics_addr"}, []string{"metrics-addr"}, func(c *AppConfig, f *fileConfig) error {
		c.MetricsAddr = f.MetricsAddr
		return nil
	}},
	{[]string{"output", "file"}, []string{"output", "o"}, func(c *AppConfig, f *fileConfig) error {
		c.OutputFile = f.Output.File
		return nil
	}},
	{[]string{"output", "quiet"}, []string{"quiet", "q"}, func(c *AppConfig, f *fileConfig) error {
		c.Quiet = f.Output.Quiet
		return nil
	}},
	{[]string{"output", "verbose"}, []string{"verbose", "v"}, func(c *AppConfig, f *fileConfig) error {
		c.Verbose = f.Output.Verbose
		return nil
	}},
	{[]string{"output", "color"}, []string{"no-color"}, func(c *AppConfig, f *fileConfig) error {
		c.NoColor = !f.Output.Color
		return nil
	}},
	{[]string{"output", "metrics"}, []string{"metrics"}, func(c *AppConfig, f *fileConfig) error {
		c.Metrics = f.Output.Metrics
		return nil
	}},
	{[]string{"output", "tui"}, []string{"tui"}, func(c *AppConfig, f *fileConfig) error {
		c.TUI = f.Output.TUI
		return nil
	}},
}

// applyFileOverrides loads path and applies every key it defines whose
// flag was not given on the command line. Unknown keys are rejected.
func applyFileOverrides(config *AppConfig, explicit flagSet, path string) error {
	var file fileConfig
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return apperrors.NewConfigError("config file %s: %v", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperrors.NewConfigError("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for _, o := range fileOverrides {
		if !meta.IsDefined(o.key...) || explicit.any(o.flags...) {
			continue
		}
		if err := o.apply(config, &file); err != nil {
			return err
		}
	}
	return nil
}
