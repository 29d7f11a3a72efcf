package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	coreapp "classmetrics/internal/core/app"
	"classmetrics/internal/core/config"
	"classmetrics/internal/core/errors"
	"classmetrics/internal/core/ports"
	"classmetrics/internal/data/history"
	"classmetrics/internal/data/query"
	"classmetrics/internal/shared/observability"
	"classmetrics/internal/ui/report"
)

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "classmetrics v%s\n", versionString)
		return 0
	}

	configureLogging(stderr, opts.verbose, opts.logJSON)

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)
	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if err := config.Validate(cfg); err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.MetricsAddr != "" {
		srv, err := observability.Listen(cfg.Observability.MetricsAddr)
		if err != nil {
			slog.Error("failed to start metrics server", "addr", cfg.Observability.MetricsAddr, "error", err)
			return 1
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := srv.Serve(ctx); err != nil {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			stop()
			<-done
		}()
	}

	deps := coreapp.Dependencies{Summary: stdout}
	if cfg.DB.Enabled {
		store, err := history.Open(cfg.DB.Path, cfg.DB.BusyTimeout)
		if err != nil {
			slog.Error("history setup failed", "path", cfg.DB.Path, "error", err)
			return 1
		}
		defer store.Close()
		deps.History = store
	}

	analysis, err := coreapp.New(cfg, deps)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}

	if opts.trend != "" {
		points, err := analysis.ClassTrend(ctx, opts.trend, opts.trendLimit)
		if err != nil {
			slog.Error("trend query failed", "class", opts.trend, "error", err)
			return 1
		}
		if len(points) == 0 {
			fmt.Fprintf(stderr, "no history for class %s\n", opts.trend)
			return 1
		}
		_, _ = stdout.Write(report.RenderTrendTSV(points))
		return 0
	}

	if opts.selectQuery != "" {
		q, err := query.Parse(opts.selectQuery)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		rep, err := analysis.Run(ctx, nil)
		if err != nil {
			slog.Error("analysis failed", "error", err)
			return 1
		}
		_, _ = stdout.Write(report.RenderClassTSV(q.Filter(rep.Classes)))
		return 0
	}

	if !opts.watch {
		if _, err := analysis.RunScan(ctx, ports.ScanRequest{}); err != nil {
			slog.Error("analysis failed", "error", err)
			return 1
		}
		return 0
	}

	if cfgPath != "" {
		watcher := config.NewWatcher(cfgPath, func(next *config.Config) {
			if err := applyModeOptions(&opts, next); err != nil {
				slog.Warn("ignoring reloaded configuration", "error", err)
				return
			}
			if err := analysis.Reconfigure(next); err != nil {
				slog.Warn("ignoring reloaded configuration", "error", err)
				return
			}
			slog.Info("configuration reloaded", "path", cfgPath)
		})
		if err := watcher.Start(ctx); err != nil {
			slog.Warn("config file will not be watched", "path", cfgPath, "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	if err := analysis.Watch(ctx, nil); err != nil {
		slog.Error("watch mode failed", "error", err)
		return 1
	}
	return 0
}

// loadConfig falls back to defaults only when the default path is absent.
// The returned path is empty when no file was read.
func loadConfig(path string) (*config.Config, string, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if path == defaultConfigPath && errors.IsCode(err, errors.CodeNotFound) {
		slog.Debug("no config file, using defaults", "path", path)
		return config.DefaultConfig(), "", nil
	}
	return nil, "", err
}

func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	modes := 0
	for _, on := range []bool{opts.watch, opts.trend != "", opts.selectQuery != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("--watch, --trend and --select cannot be combined")
	}
	if opts.selectQuery != "" {
		if _, err := query.Parse(opts.selectQuery); err != nil {
			return err
		}
	}
	if opts.trend != "" && len(opts.args) > 0 {
		return fmt.Errorf("--trend does not accept positional path arguments")
	}
	if opts.trendLimit <= 0 {
		return fmt.Errorf("--trend-limit must be positive")
	}

	if len(opts.args) > 0 {
		cfg.Scan.Roots = append([]string(nil), opts.args...)
	}
	if opts.includeTests {
		cfg.Scan.IncludeTests = true
	}
	if opts.strict {
		cfg.Engine.StrictParse = true
	}
	if opts.history {
		cfg.DB.Enabled = true
	}

	if opts.trend != "" && !cfg.DB.Enabled {
		return fmt.Errorf("--trend requires --history or db.enabled")
	}
	return nil
}

func configureLogging(w io.Writer, verbose, asJSON bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(w, handlerOpts)
	if asJSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}
