package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"classmetrics/internal/engine/record"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// Summary is what the terminal summary shows after a run.
type Summary struct {
	RunID    string
	Project  string
	Files    int
	Duration time.Duration
	Classes  []*record.ClassRecord
	Errors   []record.FileError
	Written  []string
	Top      int
}

// RenderSummary renders the run totals and the most complex classes.
func RenderSummary(s Summary) string {
	methods := 0
	for _, c := range s.Classes {
		methods += len(c.MethodRecords())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("classmetrics") + "\n")
	b.WriteString(fmt.Sprintf("files %d  classes %d  methods %d  in %s\n",
		s.Files, len(s.Classes), methods, s.Duration.Round(time.Millisecond)))

	if len(s.Errors) == 0 {
		b.WriteString(successStyle.Render("no file errors") + "\n")
	} else {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d file errors", len(s.Errors))) + "\n")
		for _, fe := range s.Errors {
			b.WriteString("  " + fe.Error() + "\n")
		}
	}

	if top := byWMC(s.Classes, s.Top); len(top) > 0 {
		rows := make([][]string, 0, len(top))
		for _, c := range top {
			rows = append(rows, []string{
				c.ClassName,
				strconv.Itoa(c.WMC),
				strconv.Itoa(c.CBO),
				strconv.Itoa(c.RFC),
				strconv.Itoa(c.LCOM),
				strconv.Itoa(c.LOC),
			})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Class", "WMC", "CBO", "RFC", "LCOM", "LOC").
			Rows(rows...)
		b.WriteString(t.String() + "\n")
	}

	for _, path := range s.Written {
		b.WriteString(statusStyle.Render("wrote "+path) + "\n")
	}
	if s.RunID != "" {
		b.WriteString(statusStyle.Render(fmt.Sprintf("saved run %s (%s)", s.RunID, s.Project)) + "\n")
	}
	return b.String()
}

// PrintSummary writes RenderSummary to w.
func PrintSummary(w io.Writer, s Summary) error {
	_, err := io.WriteString(w, RenderSummary(s))
	return err
}

func byWMC(classes []*record.ClassRecord, n int) []*record.ClassRecord {
	if n <= 0 {
		n = 10
	}
	sorted := make([]*record.ClassRecord, len(classes))
	copy(sorted, classes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].WMC != sorted[j].WMC {
			return sorted[i].WMC > sorted[j].WMC
		}
		return sorted[i].ClassName < sorted[j].ClassName
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
