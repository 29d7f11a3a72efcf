package metric

import (
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// wmc computes McCabe complexity. At class level the sum covers every
// method and initializer of the class.
type wmc struct {
	Base
	cc int
	// branches holds the control constructs whose subtree is being walked;
	// a relational expression inside one is part of its guard or body and
	// was already paid for.
	branches []*ast.Node
}

func newWMC(Env) *wmc { return &wmc{} }

func (w *wmc) Visit(n *ast.Node) {
	switch n.Kind {
	case ast.KindMethodDeclaration, ast.KindInitializer, ast.KindCatch:
		w.cc++
	case ast.KindIf, ast.KindWhile, ast.KindDo, ast.KindFor, ast.KindEnhancedFor, ast.KindConditional:
		w.guard(n.Expr)
		w.branches = append(w.branches, n)
	case ast.KindSwitchCase:
		if !n.Default {
			if len(n.Labels) == 0 {
				w.guard(nil)
			}
			for _, label := range n.Labels {
				w.guard(label)
			}
		}
		w.branches = append(w.branches, n)
	case ast.KindSwitch:
		w.cc++
	case ast.KindInfix:
		if len(w.branches) == 0 && isRelational(n.Operator) {
			w.cc++
		}
	}
}

func (w *wmc) EndVisit(n *ast.Node) {
	switch n.Kind {
	case ast.KindIf, ast.KindWhile, ast.KindDo, ast.KindFor, ast.KindEnhancedFor,
		ast.KindConditional, ast.KindSwitchCase:
		if len(w.branches) > 0 {
			w.branches = w.branches[:len(w.branches)-1]
		}
	case ast.KindMethodDeclaration, ast.KindInitializer:
		w.branches = w.branches[:0]
	}
}

// guard pays for one decision plus one per short-circuit operator. A guard
// holding a ternary leaves the decision itself to the ternary's own visit.
func (w *wmc) guard(expr *ast.Node) {
	if expr == nil {
		w.cc++
		return
	}
	if !containsTernary(expr) {
		w.cc++
	}
	w.cc += ast.Count(expr, func(n *ast.Node) bool {
		return n.Kind == ast.KindInfix && (n.Operator == "&&" || n.Operator == "||")
	})
}

func containsTernary(expr *ast.Node) bool {
	switch expr.Kind {
	case ast.KindConditional:
		return true
	case ast.KindParenthesized:
		return expr.Expr != nil && containsTernary(expr.Expr)
	case ast.KindInfix:
		return (expr.Left != nil && containsTernary(expr.Left)) ||
			(expr.Right != nil && containsTernary(expr.Right))
	}
	return false
}

func isRelational(op string) bool {
	switch op {
	case "<", ">", "<=", ">=", "==", "!=":
		return true
	}
	return false
}

func (w *wmc) FinalizeClass(r *record.ClassRecord)   { r.WMC = w.cc }
func (w *wmc) FinalizeMethod(r *record.MethodRecord) { r.WMC = w.cc }
