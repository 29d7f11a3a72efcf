package metric

import (
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// counter tallies nodes matching a predicate. The same shape serves every
// simple structural count at both scope levels.
type counter struct {
	Base
	match     func(*ast.Node) bool
	qty       int
	setClass  func(*record.ClassRecord, int)
	setMethod func(*record.MethodRecord, int)
}

func (c *counter) Visit(n *ast.Node) {
	if c.match(n) {
		c.qty++
	}
}

func (c *counter) FinalizeClass(r *record.ClassRecord)   { c.setClass(r, c.qty) }
func (c *counter) FinalizeMethod(r *record.MethodRecord) { c.setMethod(r, c.qty) }

func counterDef(name string, match func(*ast.Node) bool, setClass func(*record.ClassRecord, int), setMethod func(*record.MethodRecord, int)) Definition {
	return both(name, func(Env) *counter {
		return &counter{match: match, setClass: setClass, setMethod: setMethod}
	})
}

func isKind(k ast.Kind) func(*ast.Node) bool {
	return func(n *ast.Node) bool { return n.Kind == k }
}

func isLoop(n *ast.Node) bool { return n.Kind.IsLoop() }

// isAssignment counts explicit assignments and declarations with an initializer.
func isAssignment(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindAssignment:
		return true
	case ast.KindVariableDeclarationFragment:
		return n.Expr != nil
	}
	return false
}

func isComparison(n *ast.Node) bool {
	if n.Kind != ast.KindInfix {
		return false
	}
	switch n.Operator {
	case "==", "!=", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func isMathOperation(n *ast.Node) bool {
	if n.Kind != ast.KindInfix {
		return false
	}
	switch n.Operator {
	case "*", "/", "%", "+", "-", "<<", ">>", ">>>":
		return true
	}
	return false
}

// parameters records the parameter count of the method declaration.
type parameters struct {
	Base
	qty int
}

func newParameters(Env) *parameters { return &parameters{} }

func (p *parameters) Visit(n *ast.Node) {
	if n.Kind == ast.KindMethodDeclaration {
		p.qty = len(n.Params)
	}
}

func (p *parameters) FinalizeMethod(r *record.MethodRecord) { r.Parameters = p.qty }

// innerClasses counts nested types, anonymous classes and lambdas. At class
// level the first class-like node seen is the scope's own declaration and
// is not counted.
type innerClasses struct {
	Base
	anonymous  int
	inner      int
	lambdas    int
	firstFound ast.Kind
	seen       bool
}

func newInnerClasses(Env) *innerClasses { return &innerClasses{} }

func (c *innerClasses) Visit(n *ast.Node) {
	switch n.Kind {
	case ast.KindTypeDeclaration, ast.KindEnumDeclaration:
		c.inner++
	case ast.KindAnonymousClass:
		c.anonymous++
	case ast.KindLambda:
		c.lambdas++
	default:
		return
	}
	if !c.seen {
		c.seen = true
		c.firstFound = n.Kind
	}
}

func (c *innerClasses) FinalizeClass(r *record.ClassRecord) {
	r.AnonymousClasses = c.anonymous
	r.InnerClasses = c.inner
	r.Lambdas = c.lambdas
	if !c.seen {
		return
	}
	switch c.firstFound {
	case ast.KindAnonymousClass:
		r.AnonymousClasses--
	case ast.KindTypeDeclaration, ast.KindEnumDeclaration:
		r.InnerClasses--
	case ast.KindLambda:
		r.Lambdas--
	}
}

func (c *innerClasses) FinalizeMethod(r *record.MethodRecord) {
	r.AnonymousClasses = c.anonymous
	r.InnerClasses = c.inner
	r.Lambdas = c.lambdas
}

// javadoc flags methods whose own declaration carries a doc comment.
type javadoc struct {
	Base
	methods int
	has     bool
}

func newJavadoc(Env) *javadoc { return &javadoc{} }

func (j *javadoc) Visit(n *ast.Node) {
	switch n.Kind {
	case ast.KindMethodDeclaration:
		j.methods++
	case ast.KindJavadoc:
		if j.methods == 1 {
			j.has = true
		}
	}
}

func (j *javadoc) FinalizeMethod(r *record.MethodRecord) { r.HasJavadoc = j.has }
