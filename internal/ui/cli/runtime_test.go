package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"classmetrics/internal/core/config"
)

func TestParseOptions_PositionalRoots(t *testing.T) {
	opts, err := parseOptions([]string{"-watch", "-strict", "src/main", "src/extra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.watch || !opts.strict {
		t.Fatalf("flags not parsed: %+v", opts)
	}
	if opts.configPath != defaultConfigPath || opts.trendLimit != 10 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if len(opts.args) != 2 || opts.args[1] != "src/extra" {
		t.Fatalf("unexpected args: %v", opts.args)
	}
}

func TestApplyModeOptions_RejectsWatchAndTrend(t *testing.T) {
	opts := &cliOptions{watch: true, trend: "p.A", trendLimit: 10}
	err := applyModeOptions(opts, config.DefaultConfig())
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyModeOptions_TrendRequiresHistory(t *testing.T) {
	opts := &cliOptions{trend: "p.A", trendLimit: 10}
	err := applyModeOptions(opts, config.DefaultConfig())
	if err == nil || !strings.Contains(err.Error(), "requires --history") {
		t.Fatalf("unexpected error: %v", err)
	}

	opts.history = true
	cfg := config.DefaultConfig()
	if err := applyModeOptions(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DB.Enabled {
		t.Fatal("expected --history to enable the database")
	}
}

func TestApplyModeOptions_OverridesConfig(t *testing.T) {
	opts := &cliOptions{args: []string{"./override"}, includeTests: true, strict: true, trendLimit: 10}
	cfg := config.DefaultConfig()

	if err := applyModeOptions(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Scan.Roots) != 1 || cfg.Scan.Roots[0] != "./override" {
		t.Fatalf("unexpected roots: %v", cfg.Scan.Roots)
	}
	if !cfg.Scan.IncludeTests || !cfg.Engine.StrictParse {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestApplyModeOptions_RejectsNonPositiveTrendLimit(t *testing.T) {
	opts := &cliOptions{trendLimit: 0}
	if err := applyModeOptions(opts, config.DefaultConfig()); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadConfig_DefaultPathMissingUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, path, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no config path, got %q", path)
	}
	if cfg.Version != 1 {
		t.Fatalf("expected default config, got %+v", cfg)
	}

	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for explicit missing config")
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if !strings.Contains(stdout.String(), "classmetrics v") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-no-such-flag"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func writeProject(t *testing.T) (root, configPath string) {
	t.Helper()
	root = t.TempDir()
	src := filepath.Join(root, "src", "p")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	service := "package p;\n\npublic class Service {\n    int run(int n) {\n        if (n > 0) { return n; }\n        return 0;\n    }\n}\n"
	if err := os.WriteFile(filepath.Join(src, "Service.java"), []byte(service), 0o644); err != nil {
		t.Fatal(err)
	}

	configPath = filepath.Join(root, "classmetrics.toml")
	content := "[scan]\nroots = [" + quote(filepath.Join(root, "src")) + "]\n\n" +
		"[output]\ndir = " + quote(filepath.Join(root, "out")) + "\nformats = [\"csv\", \"json\"]\n\n" +
		"[db]\npath = " + quote(filepath.Join(root, "state", "history.db")) + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, configPath
}

func quote(s string) string {
	return "'" + s + "'"
}

func TestRun_SingleScanWritesOutputs(t *testing.T) {
	root, cfgPath := writeProject(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfgPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("unexpected exit code %d, stderr: %s", code, stderr.String())
	}
	for _, name := range []string{"class.csv", "method.csv", "metrics.json"} {
		if _, err := os.Stat(filepath.Join(root, "out", name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if !strings.Contains(stdout.String(), "files 1") {
		t.Fatalf("summary missing: %q", stdout.String())
	}
}

func TestRun_HistoryThenTrend(t *testing.T) {
	_, cfgPath := writeProject(t)

	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		if code := run([]string{"-config", cfgPath, "-history"}, &stdout, &stderr); code != 0 {
			t.Fatalf("run %d failed with %d: %s", i, code, stderr.String())
		}
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfgPath, "-history", "-trend", "p.Service"}, &stdout, &stderr); code != 0 {
		t.Fatalf("trend failed with %d: %s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two runs, got %q", stdout.String())
	}
	if !strings.HasPrefix(lines[0], "Run\tStartedAt\tWMC") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[2], "\t2\t") {
		t.Fatalf("expected WMC 2 in %q", lines[2])
	}
}

func TestRun_TrendUnknownClass(t *testing.T) {
	_, cfgPath := writeProject(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfgPath, "-history", "-trend", "p.Missing"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "no history for class p.Missing") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

func TestApplyModeOptions_RejectsInvalidSelect(t *testing.T) {
	opts := &cliOptions{selectQuery: "SELECT modules", trendLimit: 10}
	if err := applyModeOptions(opts, config.DefaultConfig()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_SelectPrintsMatchingClasses(t *testing.T) {
	_, cfgPath := writeProject(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-select", "SELECT classes WHERE wmc >= 2"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("unexpected exit code %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "p.Service\t") {
		t.Fatalf("expected p.Service in %q", stdout.String())
	}

	stdout.Reset()
	code = run([]string{"-config", cfgPath, "-select", "SELECT classes WHERE wmc > 50"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if lines := strings.Split(strings.TrimSpace(stdout.String()), "\n"); len(lines) != 1 {
		t.Fatalf("expected only the header, got %q", stdout.String())
	}
}
