package metric

import (
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// lcom is the pairwise lack of cohesion: method pairs sharing no field push
// the value up, pairs sharing one pull it down. Negative results clamp to 0.
type lcom struct {
	Base
	fields    map[string]struct{}
	collected bool
	accesses  []map[string]struct{}
	inMethod  int
}

func newLCOM(Env) *lcom { return &lcom{fields: make(map[string]struct{})} }

func (m *lcom) Visit(n *ast.Node) {
	switch {
	case n.Kind.IsClassLike():
		if !m.collected {
			m.collected = true
			m.collectFields(n)
		}
	case n.Kind == ast.KindMethodDeclaration:
		m.accesses = append(m.accesses, make(map[string]struct{}))
		m.inMethod++
	case n.Kind == ast.KindSimpleName:
		if m.inMethod == 0 || len(m.accesses) == 0 {
			return
		}
		if _, ok := m.fields[n.Name]; ok {
			m.accesses[len(m.accesses)-1][n.Name] = struct{}{}
		}
	}
}

func (m *lcom) EndVisit(n *ast.Node) {
	if n.Kind == ast.KindMethodDeclaration && m.inMethod > 0 {
		m.inMethod--
	}
}

// collectFields reads the fields the class declares itself, so a method
// declared above a field still sees it.
func (m *lcom) collectFields(class *ast.Node) {
	for _, member := range class.Children {
		if member.Kind != ast.KindFieldDeclaration {
			continue
		}
		for _, f := range member.Fragments {
			m.fields[f.Name] = struct{}{}
		}
	}
}

func (m *lcom) FinalizeClass(r *record.ClassRecord) {
	value := 0
	for i := 0; i < len(m.accesses); i++ {
		for j := i + 1; j < len(m.accesses); j++ {
			if disjoint(m.accesses[i], m.accesses[j]) {
				value++
			} else {
				value--
			}
		}
	}
	r.LCOM = max(value, 0)
}

func disjoint(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return false
		}
	}
	return true
}
