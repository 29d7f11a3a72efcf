package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"classmetrics/internal/core/errors"

	"github.com/gobwas/glob"
)

func invalid(format string, args ...any) error {
	return errors.New(errors.CodeValidationError, fmt.Sprintf(format, args...))
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return invalid("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	for i, root := range cfg.Scan.Roots {
		if strings.TrimSpace(root) == "" {
			return invalid("scan.roots[%d] must not be empty", i)
		}
		for _, other := range cfg.Scan.Roots[:i] {
			if pathsOverlap(root, other) {
				return invalid("scan.roots %q and %q overlap; files would be analysed twice", other, root)
			}
		}
	}
	for _, ext := range cfg.Scan.Extensions {
		if ext == "." {
			return invalid("scan.extensions entries must name an extension")
		}
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, dir := range cfg.Exclude.Dirs {
		if hasWildcard(dir) {
			return invalid("exclude.dirs entry %q must be a plain directory name; use exclude.files for patterns", dir)
		}
	}
	for _, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("exclude.files pattern %q is invalid", pattern))
		}
	}
	return nil
}

func validateEngine(cfg *Config) error {
	if cfg.Engine.Workers < 1 {
		return invalid("engine.workers must be >= 1")
	}
	switch cfg.Engine.Bindings {
	case BindingsSyntactic, BindingsNone:
	default:
		return invalid("engine.bindings must be one of: %s, %s", BindingsSyntactic, BindingsNone)
	}
	if cfg.Engine.MaxFileBytes < 0 {
		return invalid("engine.max_file_bytes must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if cfg.Output.Dir == "" {
		return invalid("output.dir must not be empty")
	}
	for _, format := range cfg.Output.Formats {
		switch format {
		case FormatCSV, FormatJSON, FormatMarkdown:
		default:
			return invalid("output.formats entry %q must be one of: csv, json, markdown", format)
		}
	}
	if cfg.Output.Top < 1 {
		return invalid("output.top must be >= 1")
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if !cfg.DB.Enabled {
		return nil
	}
	if cfg.DB.Path == "" {
		return invalid("db.path must not be empty when db.enabled=true")
	}
	if cfg.DB.Project == "" {
		return invalid("db.project must not be empty when db.enabled=true")
	}
	if pathsOverlap(cfg.DB.Path, cfg.Output.Dir) {
		return invalid("db.path %q must not be the output directory", cfg.DB.Path)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRerunsPerMinute < 1 {
		return invalid("watch.max_reruns_per_minute must be >= 1")
	}
	return nil
}

func hasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

// pathsOverlap reports whether one cleaned path equals or contains the other.
func pathsOverlap(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(a, b+sep) || strings.HasPrefix(b, a+sep)
}
