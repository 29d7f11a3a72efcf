package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"classmetrics/internal/core/ports"
	"classmetrics/internal/core/watcher"
	"classmetrics/internal/shared/observability"
	"classmetrics/internal/shared/util"
)

// watchSession is the file watcher and rerun limiter built from one
// configuration.
type watchSession struct {
	p       *pipeline
	roots   []string
	w       *watcher.Watcher
	limiter *util.Limiter
}

func (s *watchSession) Close() error { return s.w.Close() }

// changeQueue collects changed paths between reruns.
type changeQueue struct {
	mu      sync.Mutex
	pending map[string]struct{}
	signal  chan struct{}
}

func newChangeQueue() *changeQueue {
	return &changeQueue{pending: make(map[string]struct{}), signal: make(chan struct{}, 1)}
}

func (q *changeQueue) add(paths []string) {
	if len(paths) == 0 {
		return
	}
	q.mu.Lock()
	for _, path := range paths {
		q.pending[path] = struct{}{}
	}
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *changeQueue) take() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	changed := util.SortedStringKeys(q.pending)
	q.pending = make(map[string]struct{})
	return changed
}

// Watch runs one full scan and then reruns it whenever watched sources
// change, until ctx is cancelled. Reruns are rate limited and skipped when
// no file content actually changed. Rerun failures are logged, not
// returned. After Reconfigure the watcher and limiter are rebuilt from the
// new configuration and a rerun follows; roots given here stay fixed.
func (a *App) Watch(ctx context.Context, roots []string) error {
	fixedRoots := uniqueScanRoots(roots)
	queue := newChangeQueue()

	s, err := a.openWatch(a.current(), fixedRoots, queue)
	if err != nil {
		return err
	}
	defer func() { s.Close() }()

	if _, err := a.RunScan(ctx, ports.ScanRequest{Roots: s.roots}); err != nil {
		return err
	}
	slog.Info("watching for changes", "roots", s.roots)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-a.reloaded:
			p := a.current()
			if p == s.p {
				continue
			}
			next, err := a.openWatch(p, fixedRoots, queue)
			if err != nil {
				slog.Error("failed to rebuild watcher, keeping previous settings", "error", err)
				continue
			}
			s.Close()
			s = next
			queue.take()
			slog.Info("configuration reloaded, rerunning", "roots", s.roots)
			if err := a.rerun(ctx, s.roots); err != nil {
				return nil
			}
			continue

		case <-queue.signal:
		}

		changed := queue.take()
		if !a.changedSinceLastRun(changed) {
			observability.WatchRerunsSkippedTotal.WithLabelValues("unchanged").Inc()
			slog.Debug("skipping rerun, content unchanged", "files", len(changed))
			continue
		}
		if !s.limiter.Allow() {
			observability.WatchRerunsSkippedTotal.WithLabelValues("rate_limited").Inc()
			slog.Info("rerun delayed by rate limit")
			if err := s.limiter.Wait(ctx); err != nil {
				return nil
			}
		}

		slog.Info("sources changed, rerunning", "files", len(changed))
		if err := a.rerun(ctx, s.roots); err != nil {
			return nil
		}
	}
}

// rerun logs scan failures and only reports cancellation.
func (a *App) rerun(ctx context.Context, roots []string) error {
	if _, err := a.RunScan(ctx, ports.ScanRequest{Roots: roots}); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Error("rerun failed", "error", err)
	}
	return nil
}

// openWatch starts watching roots, or the configured roots when none are
// given, with the debounce, filters and rate limit of p.
func (a *App) openWatch(p *pipeline, roots []string, queue *changeQueue) (*watchSession, error) {
	if len(roots) == 0 {
		roots = uniqueScanRoots(p.cfg.Scan.Roots)
	}
	outDir, err := filepath.Abs(p.cfg.Output.Dir)
	if err != nil {
		outDir = p.cfg.Output.Dir
	}

	onChange := func(paths []string) {
		kept := paths[:0:0]
		for _, path := range paths {
			if !util.HasPathPrefix(path, outDir) {
				kept = append(kept, path)
			}
		}
		queue.add(kept)
	}

	w, err := watcher.NewWatcher(p.cfg.Watch.Debounce, p.cfg.Exclude.Dirs, p.cfg.Exclude.Files, onChange)
	if err != nil {
		return nil, err
	}
	w.SetFilters(p.frontEnd.SupportedExtensions(), p.cfg.Scan.TestSuffixes, p.cfg.Scan.IncludeTests)
	if err := w.Watch(roots); err != nil {
		w.Close()
		return nil, err
	}
	return &watchSession{
		p:       p,
		roots:   roots,
		w:       w,
		limiter: util.PerMinute(p.cfg.Watch.MaxRerunsPerMinute),
	}, nil
}
