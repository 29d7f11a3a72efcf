package app

import (
	"context"
	"log/slog"

	"classmetrics/internal/core/config"
	"classmetrics/internal/core/errors"
	"classmetrics/internal/core/ports"
	"classmetrics/internal/data/history"
	"classmetrics/internal/ui/report"
)

// RunScan runs the analysis and then does everything a CLI run does with
// the report: persist history, write outputs and print the summary.
func (a *App) RunScan(ctx context.Context, req ports.ScanRequest) (ports.ScanResult, error) {
	rep, err := a.Run(ctx, req.Roots)
	if err != nil {
		return ports.ScanResult{}, err
	}
	cfg := a.Config()

	result := ports.ScanResult{
		Files:    len(rep.Files),
		Classes:  len(rep.Classes),
		Methods:  rep.MethodCount(),
		Errors:   len(rep.Errors),
		Duration: rep.Duration,
	}

	if a.deps.History != nil {
		id, err := a.deps.History.SaveRun(ctx, snapshotOf(cfg, rep))
		if err != nil {
			// Outputs are still worth writing when history is unavailable.
			slog.Warn("failed to save run history", "error", err)
		} else {
			result.RunID = id
		}
	}

	written, err := writeOutputs(cfg, rep, result.RunID)
	result.Written = written
	if err != nil {
		return result, err
	}

	if err := report.PrintSummary(a.deps.Summary, report.Summary{
		RunID:    result.RunID,
		Project:  cfg.DB.Project,
		Files:    len(rep.Files),
		Duration: rep.Duration,
		Classes:  rep.Classes,
		Errors:   rep.Errors,
		Written:  written,
		Top:      cfg.Output.Top,
	}); err != nil {
		return result, errors.Wrap(err, errors.CodeInternal, "print summary")
	}
	return result, nil
}

// ClassTrend reads the stored history of one class for the configured
// project.
func (a *App) ClassTrend(ctx context.Context, class string, limit int) ([]history.TrendPoint, error) {
	if a.deps.History == nil {
		return nil, errors.New(errors.CodeNotSupported, "history is disabled")
	}
	return a.deps.History.ClassTrend(ctx, a.Config().DB.Project, class, limit)
}

func snapshotOf(cfg *config.Config, rep *Report) history.Snapshot {
	snap := history.Snapshot{
		Run: history.Run{
			Project:   cfg.DB.Project,
			StartedAt: rep.StartedAt,
			Duration:  rep.Duration,
			Files:     len(rep.Files),
			Classes:   len(rep.Classes),
			Methods:   rep.MethodCount(),
			Errors:    len(rep.Errors),
		},
		Classes: make([]history.ClassRow, 0, len(rep.Classes)),
	}
	for _, c := range rep.Classes {
		snap.Classes = append(snap.Classes, history.ClassRow{
			File:        c.File,
			Class:       c.ClassName,
			Kind:        c.Type,
			ContentHash: rep.Hashes[c.File],
			LOC:         c.LOC,
			WMC:         c.WMC,
			CBO:         c.CBO,
			CBOModified: c.CBOModified,
			FanIn:       c.FanIn,
			FanOut:      c.FanOut,
			RFC:         c.RFC,
			LCOM:        c.LCOM,
			NOC:         c.NOC,
			NOSI:        c.NOSI,
			MaxNested:   c.MaxNestedBlocks,
		})
		for _, m := range c.MethodRecords() {
			snap.Methods = append(snap.Methods, history.MethodRow{
				Class:     c.ClassName,
				Method:    m.MethodName,
				Line:      m.Line,
				LOC:       m.LOC,
				WMC:       m.WMC,
				CBO:       m.CBO,
				RFC:       m.RFC,
				MaxNested: m.MaxNestedBlocks,
				Params:    m.Parameters,
			})
		}
	}
	return snap
}
