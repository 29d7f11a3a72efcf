package metric

import (
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// nesting tracks the deepest block nesting. Braced bodies count through
// their Block; a control construct with a single-statement body counts
// itself. Blocks sitting directly in a switch body are covered by the
// switch. The scope's own body block is not reported.
type nesting struct {
	Base
	current int
	max     int
	// parents mirrors the open nodes so a block can see what contains it.
	parents []ast.Kind
	// blocks and constructs record whether each open node incremented
	// current, so EndVisit can undo exactly that.
	blocks     []bool
	constructs []bool
}

func newNesting(Env) *nesting { return &nesting{} }

func (m *nesting) Visit(n *ast.Node) {
	switch n.Kind {
	case ast.KindBlock:
		if len(m.parents) > 0 && m.parents[len(m.parents)-1] == ast.KindSwitch {
			m.blocks = append(m.blocks, false)
		} else {
			m.plusOne()
			m.blocks = append(m.blocks, true)
		}
	case ast.KindFor, ast.KindEnhancedFor, ast.KindWhile, ast.KindDo, ast.KindCatch, ast.KindIf:
		m.enterConstruct(n.Body)
	case ast.KindSwitch:
		m.plusOne()
		m.constructs = append(m.constructs, true)
	}
	m.parents = append(m.parents, n.Kind)
}

func (m *nesting) EndVisit(n *ast.Node) {
	if len(m.parents) > 0 {
		m.parents = m.parents[:len(m.parents)-1]
	}
	switch n.Kind {
	case ast.KindBlock:
		m.blocks = m.pop(m.blocks)
	case ast.KindFor, ast.KindEnhancedFor, ast.KindWhile, ast.KindDo, ast.KindCatch,
		ast.KindIf, ast.KindSwitch:
		m.constructs = m.pop(m.constructs)
	}
}

func (m *nesting) enterConstruct(body *ast.Node) {
	if body != nil && body.Kind == ast.KindBlock {
		m.constructs = append(m.constructs, false)
		return
	}
	m.plusOne()
	m.constructs = append(m.constructs, true)
}

func (m *nesting) pop(stack []bool) []bool {
	if len(stack) == 0 {
		return stack
	}
	if stack[len(stack)-1] {
		m.current--
	}
	return stack[:len(stack)-1]
}

func (m *nesting) plusOne() {
	m.current++
	if m.current > m.max {
		m.max = m.current
	}
}

func (m *nesting) result() int {
	if m.max-1 < 0 {
		return 0
	}
	return m.max - 1
}

func (m *nesting) FinalizeClass(r *record.ClassRecord)   { r.MaxNestedBlocks = m.result() }
func (m *nesting) FinalizeMethod(r *record.MethodRecord) { r.MaxNestedBlocks = m.result() }
