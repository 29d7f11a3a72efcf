package metric

import "classmetrics/internal/engine/ast"

// feed walks n depth-first the way the traversal engine does for a single
// scope.
func feed(v Visitor, n *ast.Node) {
	v.Visit(n)
	for _, c := range n.Children {
		feed(v, c)
	}
	v.EndVisit(n)
}

func ident(id string) *ast.Node {
	n := ast.New(ast.KindSimpleName)
	n.Name = id
	return n
}

func simpleType(name string) *ast.Node {
	n := ast.New(ast.KindSimpleType)
	n.Name = name
	n.Text = name
	return n
}

func qualifiedType(name string) *ast.Node {
	n := ast.New(ast.KindQualifiedType)
	n.Name = name
	n.Text = name
	return n
}

func infix(op string, l, r *ast.Node) *ast.Node {
	n := ast.New(ast.KindInfix, l, r)
	n.Operator = op
	n.Left, n.Right = l, r
	return n
}

func block(stmts ...*ast.Node) *ast.Node { return ast.New(ast.KindBlock, stmts...) }

func exprStmt(e *ast.Node) *ast.Node {
	n := ast.New(ast.KindExpressionStatement, e)
	n.Expr = e
	return n
}

func control(kind ast.Kind, cond, body *ast.Node) *ast.Node {
	n := ast.New(kind, cond, body)
	n.Expr, n.Body = cond, body
	return n
}

func ternary(cond, a, b *ast.Node) *ast.Node {
	n := ast.New(ast.KindConditional, cond, a, b)
	n.Expr = cond
	return n
}

func fragment(id string, init *ast.Node) *ast.Node {
	n := ast.New(ast.KindVariableDeclarationFragment, ident(id), init)
	n.Name = id
	n.Expr = init
	return n
}

func localVar(typ *ast.Node, frags ...*ast.Node) *ast.Node {
	n := ast.New(ast.KindVariableDeclarationStatement, typ)
	n.Add(frags...)
	n.Type = typ
	n.Fragments = frags
	return n
}

func field(mods ast.Modifiers, typ *ast.Node, names ...string) *ast.Node {
	n := ast.New(ast.KindFieldDeclaration, typ)
	n.Type = typ
	n.Modifiers = mods
	for _, id := range names {
		f := fragment(id, nil)
		n.Add(f)
		n.Fragments = append(n.Fragments, f)
	}
	return n
}

func param(typ *ast.Node, id string) *ast.Node {
	n := ast.New(ast.KindSingleVariableDeclaration, typ, ident(id))
	n.Type = typ
	n.Name = id
	return n
}

func method(id string, params []*ast.Node, body *ast.Node) *ast.Node {
	n := ast.New(ast.KindMethodDeclaration)
	n.Name = id
	n.Params = params
	for _, p := range params {
		n.Add(p)
	}
	n.Add(body)
	n.Body = body
	return n
}

func class(id string, members ...*ast.Node) *ast.Node {
	n := ast.New(ast.KindTypeDeclaration, members...)
	n.Name = id
	return n
}

func thisField(id string) *ast.Node {
	n := ast.New(ast.KindFieldAccess, ast.New(ast.KindThis), ident(id))
	n.Name = id
	return n
}

func call(id string, args ...*ast.Node) *ast.Node {
	n := ast.New(ast.KindMethodInvocation, args...)
	n.Name = id
	n.Args = args
	return n
}
