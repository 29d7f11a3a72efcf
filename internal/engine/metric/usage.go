package metric

import (
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// fieldUsage counts how often a method reads or writes each field of its
// declaring class. A bare name counts unless a local or parameter of the
// same name shadows it; this.x always counts. Names inside a qualified name
// belong to some other object and never count.
type fieldUsage struct {
	Base
	resolver    ast.Resolver
	declared    map[string]struct{}
	locals      map[string]struct{}
	occurrences map[string]int
	fieldAccess int
	qualified   int
}

func newFieldUsage(env Env) *fieldUsage {
	return &fieldUsage{
		resolver:    env.resolver(),
		declared:    make(map[string]struct{}),
		locals:      make(map[string]struct{}),
		occurrences: make(map[string]int),
	}
}

func (m *fieldUsage) Visit(n *ast.Node) {
	switch n.Kind {
	case ast.KindMethodDeclaration:
		b := m.resolver.MethodOf(n)
		if b == nil || b.DeclaringClass == nil {
			return
		}
		for _, f := range b.DeclaringClass.DeclaredFields {
			m.declared[f] = struct{}{}
		}
	case ast.KindVariableDeclarationFragment, ast.KindSingleVariableDeclaration:
		m.locals[n.Name] = struct{}{}
	case ast.KindFieldAccess:
		m.fieldAccess++
	case ast.KindQualifiedName:
		m.qualified++
	case ast.KindSimpleName:
		m.name(n.Name)
	}
}

func (m *fieldUsage) EndVisit(n *ast.Node) {
	switch n.Kind {
	case ast.KindFieldAccess:
		m.fieldAccess--
	case ast.KindQualifiedName:
		m.qualified--
	}
}

func (m *fieldUsage) name(id string) {
	if m.qualified > 0 {
		return
	}
	if _, ok := m.declared[id]; !ok {
		return
	}
	_, shadowed := m.locals[id]
	if m.fieldAccess > 0 || !shadowed {
		m.occurrences[id]++
	}
}

func (m *fieldUsage) FinalizeMethod(r *record.MethodRecord) { r.FieldUsage = m.occurrences }

// variableUsage counts references to each local variable and parameter,
// not counting the declaration itself.
type variableUsage struct {
	Base
	declared    map[string]struct{}
	occurrences map[string]int
}

func newVariableUsage(Env) *variableUsage {
	return &variableUsage{declared: make(map[string]struct{}), occurrences: make(map[string]int)}
}

func (m *variableUsage) Visit(n *ast.Node) {
	switch n.Kind {
	case ast.KindVariableDeclarationFragment, ast.KindSingleVariableDeclaration:
		m.declared[n.Name] = struct{}{}
	case ast.KindSimpleName:
		if _, ok := m.declared[n.Name]; !ok {
			return
		}
		if _, seen := m.occurrences[n.Name]; !seen {
			m.occurrences[n.Name] = -1
		}
		m.occurrences[n.Name]++
	}
}

func (m *variableUsage) FinalizeMethod(r *record.MethodRecord) { r.VariablesUsage = m.occurrences }
