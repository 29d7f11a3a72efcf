package ledger

import (
	"strings"

	"classmetrics/internal/engine/record"
)

// ClassKey is the name a class scope is recorded under: binary nesting
// separators become dots so edges written from declarations and from
// type references meet.
func ClassKey(className string) string {
	return strings.ReplaceAll(className, "$", ".")
}

// Annotate copies the run-wide values of every class and method into the
// records. Call it once every file has been merged into l.
func (l *Ledger) Annotate(classes []*record.ClassRecord) {
	for _, c := range classes {
		key := ClassKey(c.ClassName)
		c.FanIn = l.ClassFanIn(key)
		c.FanOut = l.ClassFanOut(key)
		c.CBOModified = c.FanIn + c.FanOut
		c.NOC = l.Children(key)
		for _, m := range c.MethodRecords() {
			m.FanIn = l.MethodFanIn(m.QualifiedMethodName)
			m.FanOut = l.MethodFanOut(m.QualifiedMethodName)
			m.CBOModified = m.FanIn + m.FanOut
		}
	}
}
