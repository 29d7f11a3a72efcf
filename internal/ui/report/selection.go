package report

import (
	"fmt"
	"strings"

	"classmetrics/internal/engine/record"
)

// RenderClassTSV lists classes with their headline metrics, one per line.
func RenderClassTSV(classes []*record.ClassRecord) []byte {
	var buf strings.Builder

	buf.WriteString("Class\tFile\tType\tLOC\tWMC\tCBO\tRFC\tLCOM\tFanIn\tNOC\n")
	for _, c := range classes {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			c.ClassName, c.File, c.Type, c.LOC, c.WMC, c.CBO, c.RFC, c.LCOM, c.FanIn, c.NOC))
	}
	return []byte(buf.String())
}
