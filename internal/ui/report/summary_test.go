package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmetrics/internal/core/errors"
	"classmetrics/internal/data/history"
	"classmetrics/internal/engine/record"
)

func TestRenderSummary(t *testing.T) {
	simple := record.NewClass("A.java", "p.Simple", record.TypeClass, 0, 1)
	simple.WMC = 1
	busy := record.NewClass("B.java", "p.Busy", record.TypeClass, 0, 1)
	busy.WMC = 9
	busy.AddMethod(record.NewMethod("run/0", "p.Busy.run/0", false, 0, 2))

	out := RenderSummary(Summary{
		RunID:    "run-1",
		Project:  "shop",
		Files:    3,
		Duration: 1500 * time.Millisecond,
		Classes:  []*record.ClassRecord{simple, busy},
		Errors:   []record.FileError{{Path: "C.java", Err: errors.New(errors.CodeParse, "bad")}},
		Written:  []string{"out/class.csv"},
		Top:      1,
	})

	assert.Contains(t, out, "files 3  classes 2  methods 1  in 1.5s")
	assert.Contains(t, out, "1 file errors")
	assert.Contains(t, out, "C.java: [PARSE_ERROR] bad")
	assert.Contains(t, out, "p.Busy")
	assert.NotContains(t, out, "p.Simple")
	assert.Contains(t, out, "wrote out/class.csv")
	assert.Contains(t, out, "saved run run-1 (shop)")
}

func TestPrintSummaryWithoutErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, Summary{}))
	assert.Contains(t, buf.String(), "no file errors")
	assert.NotContains(t, buf.String(), "saved run")
}

func TestRenderTrendTSV(t *testing.T) {
	at := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	out := string(RenderTrendTSV([]history.TrendPoint{
		{RunID: "r1", StartedAt: at, WMC: 3},
		{RunID: "r2", StartedAt: at.Add(time.Hour), WMC: 5, DeltaWMC: 2},
	}))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Run\tStartedAt\tWMC"))
	assert.Equal(t, "r2\t2026-02-13T11:00:00Z\t5\t0\t0\t0\t0\t+2\t+0\t+0\t+0", lines[2])
}

func TestRenderClassTSV(t *testing.T) {
	c := record.NewClass("src/A.java", "p.A", record.TypeClass, 0, 1)
	c.WMC = 7
	c.NOC = 2

	lines := strings.Split(strings.TrimSpace(string(RenderClassTSV([]*record.ClassRecord{c}))), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Class\tFile\tType"))
	assert.Equal(t, "p.A\tsrc/A.java\tclass\t0\t7\t0\t0\t0\t0\t2", lines[1])
}
