package formats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"classmetrics/internal/engine/record"
)

// HotspotOptions controls the hotspot report.
type HotspotOptions struct {
	Project     string
	GeneratedAt time.Time
	Top         int
}

type ranking struct {
	title string
	value func(*record.ClassRecord) int
}

var rankings = []ranking{
	{"Complexity (WMC)", func(c *record.ClassRecord) int { return c.WMC }},
	{"Coupling (CBO)", func(c *record.ClassRecord) int { return c.CBO }},
	{"Lack of Cohesion (LCOM)", func(c *record.ClassRecord) int { return c.LCOM }},
}

// GenerateHotspots renders the top classes by WMC, CBO and LCOM as markdown.
func GenerateHotspots(classes []*record.ClassRecord, errs []record.FileError, opts HotspotOptions) string {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}
	if opts.Top <= 0 {
		opts.Top = 10
	}

	methods := 0
	for _, c := range classes {
		methods += len(c.MethodRecords())
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Class Metrics Hotspots\n")
	b.WriteString("project: " + nonEmpty(opts.Project, "default") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Hotspots\n\n")
	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Classes | %d |\n", len(classes)))
	b.WriteString(fmt.Sprintf("| Methods | %d |\n", methods))
	b.WriteString(fmt.Sprintf("| File Errors | %d |\n\n", len(errs)))

	for _, r := range rankings {
		b.WriteString("## " + r.title + "\n")
		top := topClasses(classes, r.value, opts.Top)
		if len(top) == 0 {
			b.WriteString("No classes analysed.\n\n")
			continue
		}
		b.WriteString("| Class | File | Value | WMC | CBO | LCOM |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for _, c := range top {
			b.WriteString(fmt.Sprintf("| `%s` | %s | %d | %d | %d | %d |\n",
				c.ClassName, escapeCell(c.File), r.value(c), c.WMC, c.CBO, c.LCOM))
		}
		b.WriteString("\n")
	}

	if len(errs) > 0 {
		b.WriteString("## File Errors\n")
		for _, fe := range errs {
			b.WriteString(fmt.Sprintf("- %s: %s\n", escapeCell(fe.Path), escapeCell(fe.Err.Error())))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// topClasses orders by value descending, ties by class name, and keeps n.
func topClasses(classes []*record.ClassRecord, value func(*record.ClassRecord) int, n int) []*record.ClassRecord {
	sorted := make([]*record.ClassRecord, len(classes))
	copy(sorted, classes)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := value(sorted[i]), value(sorted[j])
		if vi != vj {
			return vi > vj
		}
		return sorted[i].ClassName < sorted[j].ClassName
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
