package metric

import (
	"strings"

	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/ledger"
	"classmetrics/internal/engine/record"
)

// coupler turns type references into names, preferring bindings and falling
// back to the type as written. Standard library, primitive, wildcard and
// null types are never emitted.
type coupler struct {
	resolver ast.Resolver
	emit     func(name string, cat ledger.Category)
}

func (c coupler) binding(b *ast.TypeBinding, cat ledger.Category) {
	if b == nil || b.Wildcard || b.Null || b.Primitive {
		return
	}
	c.name(b.QualifiedName, cat)
}

func (c coupler) typeNode(t *ast.Node, cat ledger.Category) {
	if t == nil {
		return
	}
	if b := c.resolver.TypeOf(t); b != nil {
		c.binding(b, cat)
		return
	}
	switch t.Kind {
	case ast.KindSimpleType, ast.KindQualifiedType:
		c.name(t.Name, cat)
	case ast.KindParameterizedType, ast.KindArrayType, ast.KindWildcardType:
		c.typeNode(t.Type, ledger.Unclassified)
	case ast.KindUnionType, ast.KindIntersectionType:
		for _, member := range t.TypeArgs {
			c.typeNode(member, ledger.Unclassified)
		}
	}
}

func (c coupler) annotation(a *ast.Node, cat ledger.Category) {
	if b := c.resolver.TypeOf(a); b != nil {
		c.binding(b, cat)
		return
	}
	c.name(a.Name, cat)
}

func (c coupler) expression(e *ast.Node, cat ledger.Category) {
	if e != nil {
		c.binding(c.resolver.TypeOf(e), cat)
	}
}

func (c coupler) name(name string, cat ledger.Category) {
	if name == "" || name == "null" || isFromJava(name) {
		return
	}
	if clean := cleanClassName(name); !primitiveNames[clean] {
		c.emit(clean, cat)
	}
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

func isFromJava(name string) bool {
	return strings.HasPrefix(name, "java.") || strings.HasPrefix(name, "javax.")
}

// cleanClassName drops array brackets and generic arguments and turns
// nested type separators into dots.
func cleanClassName(name string) string {
	name = strings.ReplaceAll(name, "[]", "")
	name = strings.ReplaceAll(name, "$", ".")
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	return name
}

// cbo collects the distinct external types a scope references.
type cbo struct {
	Base
	c        coupler
	coupling map[string]struct{}
}

func newCBO(env Env) *cbo {
	m := &cbo{coupling: make(map[string]struct{})}
	m.c = coupler{resolver: env.resolver(), emit: func(name string, _ ledger.Category) {
		m.coupling[name] = struct{}{}
	}}
	return m
}

func (m *cbo) Visit(n *ast.Node) {
	r := m.c.resolver
	switch n.Kind {
	case ast.KindClassInstanceCreation, ast.KindArrayCreation, ast.KindFieldDeclaration,
		ast.KindTypeLiteral, ast.KindCast:
		m.c.typeNode(n.Type, ledger.Unclassified)
	case ast.KindMarkerAnnotation, ast.KindNormalAnnotation, ast.KindSingleMemberAnnotation:
		m.c.annotation(n, ledger.Unclassified)
	case ast.KindReturn, ast.KindThrow:
		m.c.expression(n.Expr, ledger.Unclassified)
	case ast.KindMethodDeclaration:
		if b := r.MethodOf(n); b != nil {
			m.c.binding(b.ReturnType, ledger.Unclassified)
			for _, p := range b.ParameterTypes {
				m.c.binding(p, ledger.Unclassified)
			}
			return
		}
		m.c.typeNode(n.Type, ledger.Unclassified)
		for _, p := range n.Params {
			m.c.typeNode(p.Type, ledger.Unclassified)
		}
	case ast.KindInstanceof:
		m.c.typeNode(n.Type, ledger.Unclassified)
		m.c.expression(n.Left, ledger.Unclassified)
	case ast.KindMethodInvocation:
		if b := r.MethodOf(n); b != nil {
			m.c.binding(b.DeclaringClass, ledger.Unclassified)
		}
	case ast.KindParameterizedType:
		if b := r.TypeOf(n); b != nil {
			m.c.binding(b, ledger.Unclassified)
			for _, arg := range b.TypeArguments {
				m.c.binding(arg, ledger.Unclassified)
			}
			return
		}
		m.c.typeNode(n.Type, ledger.Unclassified)
	}
}

func (m *cbo) value() int { return len(ledger.Reconcile(m.coupling)) }

func (m *cbo) FinalizeClass(r *record.ClassRecord)   { r.CBO = m.value() }
func (m *cbo) FinalizeMethod(r *record.MethodRecord) { r.CBO = m.value() }

// coupling records classified edges into the run ledger. A class-bound
// instance records type edges; a method-bound instance records which
// methods and constructors the method calls.
type coupling struct {
	Base
	resolver   ast.Resolver
	ledger     *ledger.Ledger
	className  string
	methodName string
	c          coupler
}

func newCoupling(env Env) *coupling {
	m := &coupling{resolver: env.resolver(), ledger: env.Ledger}
	m.c = coupler{resolver: m.resolver, emit: m.addClassEdge}
	return m
}

func (m *coupling) SetClassName(name string)  { m.className = ledger.ClassKey(name) }
func (m *coupling) SetMethodName(name string) { m.methodName = name }

func (m *coupling) addClassEdge(to string, cat ledger.Category) {
	if m.ledger != nil && m.className != "" {
		m.ledger.AddClassEdge(m.className, to, cat)
	}
}

func (m *coupling) Visit(n *ast.Node) {
	if m.ledger == nil {
		return
	}
	if m.className != "" {
		m.visitClass(n)
		return
	}
	if m.methodName != "" {
		m.visitMethod(n)
	}
}

func (m *coupling) visitClass(n *ast.Node) {
	switch n.Kind {
	case ast.KindVariableDeclarationStatement, ast.KindArrayCreation, ast.KindFieldDeclaration:
		m.c.typeNode(n.Type, ledger.DataAbstraction)
	case ast.KindClassInstanceCreation:
		m.c.typeNode(n.Type, m.parameterCategory(n.Args))
	case ast.KindReturn:
		m.c.expression(n.Expr, ledger.DataAbstraction)
	case ast.KindTypeLiteral, ast.KindCast:
		m.c.typeNode(n.Type, ledger.Unclassified)
	case ast.KindThrow:
		m.c.expression(n.Expr, ledger.Unclassified)
	case ast.KindTypeDeclaration:
		if b := m.resolver.TypeOf(n); b != nil {
			m.c.binding(b.Superclass, ledger.Inheritance)
			for _, i := range b.Interfaces {
				m.c.binding(i, ledger.Interface)
			}
			return
		}
		m.c.typeNode(n.Superclass, ledger.Inheritance)
		for _, i := range n.Interfaces {
			m.c.typeNode(i, ledger.Interface)
		}
	case ast.KindMethodDeclaration:
		if b := m.resolver.MethodOf(n); b != nil {
			m.c.binding(b.ReturnType, ledger.DataAbstraction)
			for _, p := range b.ParameterTypes {
				m.c.binding(p, ledger.DataAbstraction)
			}
			return
		}
		m.c.typeNode(n.Type, ledger.DataAbstraction)
		for _, p := range n.Params {
			m.c.typeNode(p.Type, ledger.DataAbstraction)
		}
	case ast.KindInstanceof:
		m.c.typeNode(n.Type, ledger.Unclassified)
		m.c.expression(n.Left, ledger.Unclassified)
	case ast.KindMethodInvocation:
		if b := m.resolver.MethodOf(n); b != nil {
			m.c.binding(b.DeclaringClass, m.parameterCategory(n.Args))
		}
	case ast.KindMarkerAnnotation, ast.KindNormalAnnotation, ast.KindSingleMemberAnnotation:
		m.c.annotation(n, ledger.Unclassified)
	case ast.KindParameterizedType:
		if b := m.resolver.TypeOf(n); b != nil {
			m.c.binding(b, ledger.DataAbstraction)
			for _, arg := range b.TypeArguments {
				m.c.binding(arg, ledger.DataAbstraction)
			}
			return
		}
		m.c.typeNode(n.Type, ledger.DataAbstraction)
	}
}

// parameterCategory is object-parameter coupling when any argument resolves
// to a non-primitive type, atomic otherwise.
func (m *coupling) parameterCategory(args []*ast.Node) ledger.Category {
	for _, a := range args {
		if b := m.resolver.TypeOf(a); b != nil && !b.Primitive {
			return ledger.ObjectParameter
		}
	}
	return ledger.AtomicParameter
}

func (m *coupling) visitMethod(n *ast.Node) {
	switch n.Kind {
	case ast.KindClassInstanceCreation, ast.KindMethodInvocation:
		b := m.resolver.MethodOf(n)
		if b == nil || b.DeclaringClass == nil {
			return
		}
		target := ast.InvocationSignature(m.resolver, n)
		if target == "null" || isFromJava(target) {
			return
		}
		m.ledger.AddMethodEdge(m.methodName, target)
	}
}

func (m *coupling) FinalizeClass(*record.ClassRecord)   {}
func (m *coupling) FinalizeMethod(*record.MethodRecord) {}
