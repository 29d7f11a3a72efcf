package app

import (
	"bytes"
	"io"
	"path/filepath"
	"time"

	"classmetrics/internal/core/config"
	"classmetrics/internal/core/errors"
	"classmetrics/internal/engine/ledger"
	"classmetrics/internal/engine/record"
	"classmetrics/internal/shared/util"
	"classmetrics/internal/ui/report/formats"
)

// Output file names inside the output directory.
const (
	ClassCSV    = "class.csv"
	MethodCSV   = "method.csv"
	VariableCSV = "variable.csv"
	FieldCSV    = "field.csv"
	MetricsJSON = "metrics.json"
	HotspotsMD  = "hotspots.md"
)

type outputTarget struct {
	name  string
	write func(w io.Writer) error
}

// writeOutputs renders every configured format into the output directory
// and returns the written paths in order.
func writeOutputs(cfg *config.Config, rep *Report, runID string) ([]string, error) {
	var targets []outputTarget
	for _, format := range cfg.Output.Formats {
		switch format {
		case config.FormatCSV:
			targets = append(targets,
				outputTarget{ClassCSV, func(w io.Writer) error { return formats.WriteClassCSV(w, rep.Classes) }},
				outputTarget{MethodCSV, func(w io.Writer) error { return formats.WriteMethodCSV(w, rep.Classes) }},
			)
			if cfg.Output.VariablesAndFields {
				targets = append(targets,
					outputTarget{VariableCSV, func(w io.Writer) error { return formats.WriteVariableCSV(w, rep.Classes) }},
					outputTarget{FieldCSV, func(w io.Writer) error { return formats.WriteFieldCSV(w, rep.Classes) }},
				)
			}
		case config.FormatJSON:
			run := formats.RunInfo{
				ID:        runID,
				Project:   cfg.DB.Project,
				StartedAt: rep.StartedAt,
				Duration:  rep.Duration.Round(time.Millisecond).String(),
				Files:     len(rep.Files),
			}
			targets = append(targets, outputTarget{MetricsJSON, func(w io.Writer) error {
				return formats.WriteJSON(w, run, rep.Classes, rep.Errors, couplingCategories(rep))
			}})
		case config.FormatMarkdown:
			targets = append(targets, outputTarget{HotspotsMD, func(w io.Writer) error {
				md := formats.GenerateHotspots(rep.Classes, rep.Errors, formats.HotspotOptions{
					Project:     cfg.DB.Project,
					GeneratedAt: rep.StartedAt,
					Top:         cfg.Output.Top,
				})
				_, err := io.WriteString(w, md)
				return err
			}})
		default:
			return nil, errors.Newf(errors.CodeNotSupported, "unknown output format %q", format)
		}
	}

	written := make([]string, 0, len(targets))
	for _, t := range targets {
		var buf bytes.Buffer
		if err := t.write(&buf); err != nil {
			return written, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "render output"), errors.CtxPath, t.name)
		}
		path := filepath.Join(cfg.Output.Dir, t.name)
		if err := util.WriteFileWithDirs(path, buf.Bytes(), 0o644); err != nil {
			return written, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write output"), errors.CtxPath, path)
		}
		written = append(written, path)
	}
	return written, nil
}

func couplingCategories(rep *Report) formats.CategoryLookup {
	return func(c *record.ClassRecord) map[string][]string {
		byType := rep.Ledger.Categories(ledger.ClassKey(c.ClassName))
		out := make(map[string][]string, len(byType))
		for to, cats := range byType {
			names := make([]string, 0, len(cats))
			for _, cat := range cats {
				names = append(names, cat.String())
			}
			out[to] = names
		}
		return out
	}
}
