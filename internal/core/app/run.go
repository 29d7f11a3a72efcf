package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"classmetrics/internal/core/errors"
	"classmetrics/internal/engine/ledger"
	"classmetrics/internal/engine/record"
	"classmetrics/internal/shared/observability"
	"classmetrics/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of one run.
type Report struct {
	StartedAt time.Time
	Duration  time.Duration
	// Files lists every discovered file, analysed or not.
	Files []string
	// Classes are sorted by file then class name, with ledger-derived
	// values already filled in.
	Classes []*record.ClassRecord
	Errors  []record.FileError
	Ledger  *ledger.Ledger
	// Hashes maps every readable file to its content hash.
	Hashes map[string]string
}

// MethodCount totals the method records of every class.
func (r *Report) MethodCount() int {
	n := 0
	for _, c := range r.Classes {
		n += len(c.MethodRecords())
	}
	return n
}

// fileOutcome is what one worker produces for one file.
type fileOutcome struct {
	path    string
	hash    string
	classes []*record.ClassRecord
	ledger  *ledger.Ledger
	err     error
}

// Run analyses every file under roots (the configured roots when empty).
// File-level failures end up in Report.Errors. Discovery failures, plugin
// construction failures and cancellation abort the run.
func (a *App) Run(ctx context.Context, roots []string) (*Report, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	p := a.current()
	if len(roots) == 0 {
		roots = p.cfg.Scan.Roots
	}

	ctx, span := a.tracer.Start(ctx, "classmetrics.run")
	defer span.End()

	start := time.Now()
	files, err := p.scan(roots)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("files", len(files)))
	slog.Debug("discovered source files", "files", len(files), "roots", roots)

	outcomes := make([]fileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Engine.Workers, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := a.processFile(gctx, p, path)
			if errors.IsCode(out.err, errors.CodeConstruction) {
				return out.err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Barrier: every file is done, so fan-in and child counts are final.
	report := &Report{
		StartedAt: start.UTC(),
		Files:     files,
		Ledger:    ledger.New(),
		Hashes:    make(map[string]string, len(files)),
	}
	for _, o := range outcomes {
		if o.hash != "" {
			report.Hashes[o.path] = o.hash
		}
		if o.err != nil {
			report.Errors = append(report.Errors, record.FileError{Path: o.path, Err: o.err})
			continue
		}
		report.Ledger.Merge(o.ledger)
		report.Classes = append(report.Classes, o.classes...)
	}
	report.Ledger.Annotate(report.Classes)
	record.SortClasses(report.Classes)
	report.Duration = time.Since(start)

	a.rememberHashes(report.Hashes)
	observability.RunDuration.Observe(report.Duration.Seconds())
	slog.Info("analysis finished",
		"files", len(files),
		"classes", len(report.Classes),
		"errors", len(report.Errors),
		"duration", report.Duration,
		"heap_mb", util.HeapAllocMB(),
	)
	return report, nil
}

// processFile never returns an error: failures, panics included, become
// the outcome's err and are reported to the sink like successes. Plugin
// construction failures are left to Run and skip the sink.
func (a *App) processFile(ctx context.Context, p *pipeline, path string) (out fileOutcome) {
	out.path = path
	ctx, span := a.tracer.Start(ctx, "classmetrics.file", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.Debug("file processing panic", "path", path, "panic", r, "stack", string(debug.Stack()))
			out.classes, out.ledger = nil, nil
			out.err = errors.AddContext(
				errors.Wrap(fmt.Errorf("%v", r), errors.CodeTraversal, "file processing panicked"),
				errors.CtxPath, path)
		}
		if out.err != nil {
			span.RecordError(out.err)
			span.SetStatus(codes.Error, string(errors.CodeOf(out.err)))
		}
		if !errors.IsCode(out.err, errors.CodeConstruction) {
			a.notify(out)
		}
	}()

	content, err := os.ReadFile(path)
	if err != nil {
		out.err = errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read source file"), errors.CtxPath, path)
		return out
	}
	out.hash = util.ContentHash(content)

	parseStart := time.Now()
	unit, err := p.frontEnd.Parse(path, content)
	observability.ParseDuration.Observe(time.Since(parseStart).Seconds())
	if err != nil {
		out.err = errors.AddContext(err, errors.CtxPath, path)
		return out
	}
	if unit.HasErrors {
		slog.Debug("analysing recovered syntax tree", "path", path)
	}

	l := ledger.New()
	traverseStart := time.Now()
	res, err := p.engine.Traverse(ctx, unit, l)
	observability.TraversalDuration.Observe(time.Since(traverseStart).Seconds())
	if err != nil {
		out.err = err
		return out
	}

	out.classes = res.Classes()
	out.ledger = l
	return out
}

func (a *App) notify(out fileOutcome) {
	if out.err != nil {
		observability.FilesProcessedTotal.WithLabelValues(observability.StatusError).Inc()
		slog.Warn("failed to process file", "path", out.path, "error", out.err)
		if a.deps.Sink != nil {
			a.deps.Sink.NotifyError(out.path, out.err)
		}
		return
	}

	observability.FilesProcessedTotal.WithLabelValues(observability.StatusOK).Inc()
	observability.ClassesTotal.Add(float64(len(out.classes)))
	methods := 0
	for _, c := range out.classes {
		methods += len(c.MethodRecords())
	}
	observability.MethodsTotal.Add(float64(methods))
	if a.deps.Sink != nil {
		a.deps.Sink.Accept(out.path, out.classes)
	}
}
