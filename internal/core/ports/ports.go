package ports

import (
	"context"
	"time"

	"classmetrics/internal/data/history"
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// FrontEnd turns source files into engine compilation units and answers
// which paths it can handle.
type FrontEnd interface {
	Parse(path string, content []byte) (*ast.Unit, error)
	IsSupportedPath(path string) bool
	IsTestFile(path string) bool
	SupportedExtensions() []string
}

// ResultSink receives per-file outcomes as soon as each file finishes. It is
// called from worker goroutines and must be safe for concurrent use.
type ResultSink interface {
	Accept(path string, classes []*record.ClassRecord)
	NotifyError(path string, err error)
}

// HistoryStore abstracts run persistence for trend workflows.
type HistoryStore interface {
	SaveRun(ctx context.Context, snap history.Snapshot) (string, error)
	LatestRuns(ctx context.Context, project string, limit int) ([]history.Run, error)
	ClassTrend(ctx context.Context, project, class string, limit int) ([]history.TrendPoint, error)
	Close() error
}

// ScanRequest defines a scan operation request for driving adapters.
type ScanRequest struct {
	Roots []string
}

// ScanResult summarizes a completed scan operation.
type ScanResult struct {
	RunID    string
	Files    int
	Classes  int
	Methods  int
	Errors   int
	Duration time.Duration
	Written  []string
}

// AnalysisService is the driving surface used by the CLI.
type AnalysisService interface {
	RunScan(ctx context.Context, req ScanRequest) (ScanResult, error)
}
