// Package app orchestrates analysis runs: file discovery, parallel per-file
// processing, the ledger barrier, outputs, history and watch mode.
package app

import (
	"io"
	"os"
	"sync"

	"classmetrics/internal/core/config"
	"classmetrics/internal/core/errors"
	"classmetrics/internal/core/ports"
	"classmetrics/internal/engine/ledger"
	"classmetrics/internal/engine/metric"
	"classmetrics/internal/engine/parser"
	"classmetrics/internal/engine/traversal"
	"classmetrics/internal/shared/observability"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/trace"
)

// Dependencies are the adapters an App runs against. Nil fields get
// defaults: the tree-sitter Java front end, the built-in metric suite, no
// history, no sink and os.Stdout for the summary.
type Dependencies struct {
	FrontEnd ports.FrontEnd
	Registry *metric.Registry
	History  ports.HistoryStore
	Sink     ports.ResultSink
	Summary  io.Writer
}

// pipeline is everything a run needs that depends on the configuration.
// Runs take a snapshot so a reload never changes a run midway.
type pipeline struct {
	cfg          *config.Config
	frontEnd     ports.FrontEnd
	registry     *metric.Registry
	engine       *traversal.Engine
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

type App struct {
	deps   Dependencies
	tracer trace.Tracer

	mu sync.RWMutex
	p  *pipeline

	// reloaded is signalled by Reconfigure so a running Watch rebuilds.
	reloaded chan struct{}

	// Serializes runs so watch reruns never overlap.
	runMu sync.Mutex

	hashMu sync.RWMutex
	hashes map[string]string
}

var _ ports.AnalysisService = (*App)(nil)

func New(cfg *config.Config, deps Dependencies) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if deps.Summary == nil {
		deps.Summary = os.Stdout
	}
	p, err := buildPipeline(cfg, deps)
	if err != nil {
		return nil, err
	}
	return &App{
		deps:     deps,
		tracer:   observability.Tracer(cfg.Observability.Tracing),
		p:        p,
		reloaded: make(chan struct{}, 1),
		hashes:   make(map[string]string),
	}, nil
}

func buildPipeline(cfg *config.Config, deps Dependencies) (*pipeline, error) {
	frontEnd := deps.FrontEnd
	if frontEnd == nil {
		loader, err := parser.NewGrammarLoader(parser.LanguageSpec{
			Extensions:       cfg.Scan.Extensions,
			TestFileSuffixes: cfg.Scan.TestSuffixes,
		})
		if err != nil {
			return nil, err
		}
		fe, err := parser.NewJavaFrontEnd(loader, parser.Options{
			StrictParse:  cfg.Engine.StrictParse,
			Bindings:     cfg.Engine.Bindings,
			MaxFileBytes: cfg.Engine.MaxFileBytes,
		})
		if err != nil {
			return nil, err
		}
		frontEnd = fe
	}

	registry := deps.Registry
	if registry == nil {
		registry = metric.Default()
	}
	registry, err := registry.Without(cfg.Engine.DisabledMetrics...)
	if err != nil {
		return nil, err
	}
	// Construction failures are fatal for the run, so they surface here.
	if err := registry.Validate(metric.Env{Ledger: ledger.New()}); err != nil {
		return nil, err
	}

	excludeDirs, err := compileGlobs(cfg.Exclude.Dirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	excludeFiles, err := compileGlobs(cfg.Exclude.Files, "exclude file")
	if err != nil {
		return nil, err
	}

	return &pipeline{
		cfg:          cfg,
		frontEnd:     frontEnd,
		registry:     registry,
		engine:       traversal.New(registry),
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
	}, nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid "+label+" pattern "+p)
		}
		out = append(out, g)
	}
	return out, nil
}

// Config returns the configuration the next run will use.
func (a *App) Config() *config.Config {
	return a.current().cfg
}

// Reconfigure swaps in a new configuration. Runs already in progress keep
// the old one; a running Watch rebuilds its watcher from the new one.
func (a *App) Reconfigure(cfg *config.Config) error {
	p, err := buildPipeline(cfg, a.deps)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.p = p
	a.mu.Unlock()
	select {
	case a.reloaded <- struct{}{}:
	default:
	}
	return nil
}

func (a *App) current() *pipeline {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.p
}
