package formats

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"classmetrics/internal/engine/record"
)

var classHeader = []string{
	"file", "class", "type", "cbo", "cboModified", "fanin", "fanout", "wmc", "rfc", "lcom", "noc", "nosi", "loc",
	"returnQty", "loopQty", "comparisonsQty", "tryCatchQty", "parenthesizedExpsQty", "assignmentsQty",
	"mathOperationsQty", "variablesQty", "maxNestedBlocksQty", "anonymousClassesQty", "innerClassesQty",
	"lambdasQty", "uniqueWordsQty",
	"totalFieldsQty", "staticFieldsQty", "publicFieldsQty", "privateFieldsQty", "protectedFieldsQty",
	"defaultFieldsQty", "finalFieldsQty", "synchronizedFieldsQty",
	"totalMethodsQty", "staticMethodsQty", "publicMethodsQty", "privateMethodsQty", "protectedMethodsQty",
	"defaultMethodsQty", "visibleMethodsQty", "abstractMethodsQty", "finalMethodsQty", "synchronizedMethodsQty",
	"modifiers",
}

var methodHeader = []string{
	"file", "class", "method", "constructor", "line", "cbo", "cboModified", "fanin", "fanout", "wmc", "rfc", "loc",
	"returnsQty", "variablesQty", "parametersQty", "methodsInvokedQty", "loopQty", "comparisonsQty",
	"tryCatchQty", "parenthesizedExpsQty", "assignmentsQty", "mathOperationsQty", "maxNestedBlocksQty",
	"anonymousClassesQty", "innerClassesQty", "lambdasQty", "uniqueWordsQty", "modifiers", "hasJavaDoc",
}

var usageHeader = []string{"file", "class", "method", "variable", "usage"}

// rowWriter accumulates the first write error so row builders stay flat.
type rowWriter struct {
	w   *csv.Writer
	err error
}

func newRowWriter(w io.Writer, header []string) *rowWriter {
	rw := &rowWriter{w: csv.NewWriter(w)}
	rw.write(header)
	return rw
}

func (rw *rowWriter) write(row []string) {
	if rw.err == nil {
		rw.err = rw.w.Write(row)
	}
}

func (rw *rowWriter) close() error {
	rw.w.Flush()
	if rw.err != nil {
		return rw.err
	}
	return rw.w.Error()
}

func itoa(values ...int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// WriteClassCSV writes one row per class record.
func WriteClassCSV(w io.Writer, classes []*record.ClassRecord) error {
	rw := newRowWriter(w, classHeader)
	for _, c := range classes {
		row := []string{c.File, c.ClassName, c.Type}
		row = append(row, itoa(
			c.CBO, c.CBOModified, c.FanIn, c.FanOut, c.WMC, c.RFC, c.LCOM, c.NOC, c.NOSI, c.LOC,
			c.Returns, c.Loops, c.Comparisons, c.TryCatches, c.Parenthesized, c.Assignments,
			c.MathOperations, c.Variables, c.MaxNestedBlocks, c.AnonymousClasses, c.InnerClasses,
			c.Lambdas, c.UniqueWords,
			c.Fields.Total, c.Fields.Static, c.Fields.Public, c.Fields.Private, c.Fields.Protected,
			c.Fields.Default, c.Fields.Final, c.Fields.Synchronized,
			c.Methods.Total, c.Methods.Static, c.Methods.Public, c.Methods.Private, c.Methods.Protected,
			c.Methods.Default, c.Methods.Visible, c.Methods.Abstract, c.Methods.Final, c.Methods.Synchronized,
		)...)
		row = append(row, strings.Join(c.Modifiers.Words(), " "))
		rw.write(row)
	}
	return rw.close()
}

// WriteMethodCSV writes one row per method record, grouped by class.
func WriteMethodCSV(w io.Writer, classes []*record.ClassRecord) error {
	rw := newRowWriter(w, methodHeader)
	for _, c := range classes {
		for _, m := range c.MethodRecords() {
			row := []string{c.File, c.ClassName, m.MethodName, strconv.FormatBool(m.Constructor)}
			row = append(row, itoa(
				m.Line, m.CBO, m.CBOModified, m.FanIn, m.FanOut, m.WMC, m.RFC, m.LOC,
				m.Returns, m.Variables, m.Parameters, len(m.Invocations), m.Loops, m.Comparisons,
				m.TryCatches, m.Parenthesized, m.Assignments, m.MathOperations, m.MaxNestedBlocks,
				m.AnonymousClasses, m.InnerClasses, m.Lambdas, m.UniqueWords,
			)...)
			row = append(row, strings.Join(m.Modifiers.Words(), " "), strconv.FormatBool(m.HasJavadoc))
			rw.write(row)
		}
	}
	return rw.close()
}

// WriteVariableCSV writes the local variable usage of every method.
func WriteVariableCSV(w io.Writer, classes []*record.ClassRecord) error {
	return writeUsage(w, classes, func(m *record.MethodRecord) map[string]int { return m.VariablesUsage })
}

// WriteFieldCSV writes the field usage of every method.
func WriteFieldCSV(w io.Writer, classes []*record.ClassRecord) error {
	return writeUsage(w, classes, func(m *record.MethodRecord) map[string]int { return m.FieldUsage })
}

func writeUsage(w io.Writer, classes []*record.ClassRecord, usage func(*record.MethodRecord) map[string]int) error {
	rw := newRowWriter(w, usageHeader)
	for _, c := range classes {
		for _, m := range c.MethodRecords() {
			counts := usage(m)
			for _, name := range record.SortedKeys(counts) {
				rw.write([]string{c.File, c.ClassName, m.MethodName, name, strconv.Itoa(counts[name])})
			}
		}
	}
	return rw.close()
}
