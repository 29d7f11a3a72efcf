package config

import (
	"runtime"
	"time"
)

type Config struct {
	Version       int           `toml:"version"`
	Scan          Scan          `toml:"scan"`
	Exclude       Exclude       `toml:"exclude"`
	Engine        Engine        `toml:"engine"`
	Output        Output        `toml:"output"`
	DB            Database      `toml:"db"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Scan struct {
	Roots        []string `toml:"roots"`
	IncludeTests bool     `toml:"include_tests"`
	Extensions   []string `toml:"extensions"`
	TestSuffixes []string `toml:"test_suffixes"`
}

type Exclude struct {
	Dirs []string `toml:"dirs"`
	// Files are glob patterns matched against base names.
	Files []string `toml:"files"`
}

type Engine struct {
	Workers         int      `toml:"workers"`
	StrictParse     bool     `toml:"strict_parse"`
	Bindings        string   `toml:"bindings"`
	DisabledMetrics []string `toml:"disabled_metrics"`
	MaxFileBytes    int64    `toml:"max_file_bytes"`
}

type Output struct {
	Dir                string   `toml:"dir"`
	Formats            []string `toml:"formats"`
	VariablesAndFields bool     `toml:"variables_and_fields"`
	Top                int      `toml:"top"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
	Project     string        `toml:"project"`
}

type Watch struct {
	Debounce           time.Duration `toml:"debounce"`
	MaxRerunsPerMinute int           `toml:"max_reruns_per_minute"`
}

type Observability struct {
	MetricsAddr string `toml:"metrics_addr"`
	Tracing     bool   `toml:"tracing"`
}

const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"

	BindingsSyntactic = "syntactic"
	BindingsNone      = "none"
)

// DefaultConfig is used when no configuration file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func defaultWorkers() int {
	return max(runtime.NumCPU(), 1)
}
