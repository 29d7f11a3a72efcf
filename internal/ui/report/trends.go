package report

import (
	"fmt"
	"strings"

	"classmetrics/internal/data/history"
)

// RenderTrendTSV renders a class trend, oldest run first.
func RenderTrendTSV(points []history.TrendPoint) []byte {
	var buf strings.Builder

	buf.WriteString("Run\tStartedAt\tWMC\tCBO\tRFC\tLCOM\tLOC\tDeltaWMC\tDeltaCBO\tDeltaRFC\tDeltaLCOM\n")
	for _, p := range points {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%d\t%d\t%+d\t%+d\t%+d\t%+d\n",
			p.RunID,
			p.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			p.WMC,
			p.CBO,
			p.RFC,
			p.LCOM,
			p.LOC,
			p.DeltaWMC,
			p.DeltaCBO,
			p.DeltaRFC,
			p.DeltaLCOM,
		))
	}
	return []byte(buf.String())
}
