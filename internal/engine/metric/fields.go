package metric

import (
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// fieldCounter breaks field declarations down by modifier. A declaration
// with several fragments counts once; every fragment name is listed.
type fieldCounter struct {
	Base
	counts record.FieldCounts
	names  []string
}

func newFieldCounter(Env) *fieldCounter { return &fieldCounter{} }

func (m *fieldCounter) Visit(n *ast.Node) {
	if n.Kind != ast.KindFieldDeclaration {
		return
	}
	c := &m.counts
	c.Total++
	for _, f := range n.Fragments {
		m.names = append(m.names, f.Name)
	}
	switch {
	case n.Modifiers.Has(ast.ModPublic):
		c.Public++
	case n.Modifiers.Has(ast.ModPrivate):
		c.Private++
	case n.Modifiers.Has(ast.ModProtected):
		c.Protected++
	default:
		c.Default++
	}
	if n.Modifiers.Has(ast.ModStatic) {
		c.Static++
	}
	if n.Modifiers.Has(ast.ModFinal) {
		c.Final++
	}
	if n.Modifiers.Has(ast.ModSynchronized) {
		c.Synchronized++
	}
}

func (m *fieldCounter) FinalizeClass(r *record.ClassRecord) {
	r.Fields = m.counts
	r.FieldNames = m.names
}

// methodCounter breaks method declarations down by modifier. Initializers
// are not methods here.
type methodCounter struct {
	Base
	counts record.MethodCounts
}

func newMethodCounter(Env) *methodCounter { return &methodCounter{} }

func (m *methodCounter) Visit(n *ast.Node) {
	if n.Kind != ast.KindMethodDeclaration {
		return
	}
	c := &m.counts
	c.Total++
	switch {
	case n.Modifiers.Has(ast.ModPublic):
		c.Public++
	case n.Modifiers.Has(ast.ModPrivate):
		c.Private++
	case n.Modifiers.Has(ast.ModProtected):
		c.Protected++
	default:
		c.Default++
	}
	if !n.Modifiers.Has(ast.ModPrivate) {
		c.Visible++
	}
	if n.Modifiers.Has(ast.ModStatic) {
		c.Static++
	}
	if n.Modifiers.Has(ast.ModFinal) {
		c.Final++
	}
	if n.Modifiers.Has(ast.ModSynchronized) {
		c.Synchronized++
	}
	if n.Modifiers.Has(ast.ModAbstract) {
		c.Abstract++
	}
}

func (m *methodCounter) FinalizeClass(r *record.ClassRecord) { r.Methods = m.counts }
