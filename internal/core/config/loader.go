package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"classmetrics/internal/core/errors"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateScan(cfg); err != nil {
		return err
	}
	if err := validateExclude(cfg); err != nil {
		return err
	}
	if err := validateEngine(cfg); err != nil {
		return err
	}
	if err := validateOutput(cfg); err != nil {
		return err
	}
	if err := validateDatabase(cfg); err != nil {
		return err
	}
	return validateWatch(cfg)
}

// Validate checks a config assembled in code, after overrides.
func Validate(cfg *Config) error {
	normalize(cfg)
	return validate(cfg)
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Scan.Roots) == 0 {
		cfg.Scan.Roots = []string{"."}
	}
	if len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = []string{".java"}
	}
	if cfg.Scan.TestSuffixes == nil {
		cfg.Scan.TestSuffixes = []string{"Test.java", "Tests.java", "IT.java"}
	}

	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{".git", "target", "build", "node_modules"}
	}

	if cfg.Engine.Workers <= 0 {
		cfg.Engine.Workers = defaultWorkers()
	}
	if strings.TrimSpace(cfg.Engine.Bindings) == "" {
		cfg.Engine.Bindings = BindingsSyntactic
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		cfg.Output.Dir = "classmetrics-out"
	}
	if cfg.Output.Formats == nil {
		cfg.Output.Formats = []string{FormatCSV}
	}
	if cfg.Output.Top <= 0 {
		cfg.Output.Top = 10
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = filepath.Join("data", "history.db")
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
	if strings.TrimSpace(cfg.DB.Project) == "" {
		cfg.DB.Project = "default"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRerunsPerMinute <= 0 {
		cfg.Watch.MaxRerunsPerMinute = 12
	}
}

func normalize(cfg *Config) {
	cfg.Engine.Bindings = strings.ToLower(strings.TrimSpace(cfg.Engine.Bindings))
	cfg.Output.Dir = strings.TrimSpace(cfg.Output.Dir)
	cfg.DB.Path = strings.TrimSpace(cfg.DB.Path)
	cfg.DB.Project = strings.TrimSpace(cfg.DB.Project)
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)

	cfg.Scan.Extensions = normalizeList(cfg.Scan.Extensions, func(ext string) string {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	})
	cfg.Output.Formats = normalizeList(cfg.Output.Formats, strings.ToLower)
	cfg.Engine.DisabledMetrics = normalizeList(cfg.Engine.DisabledMetrics, strings.ToLower)
}

func normalizeList(values []string, fn func(string) string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		v = fn(v)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
