package metric

import (
	"sort"

	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// rfc collects the distinct method signatures a scope invokes, super calls
// included.
type rfc struct {
	Base
	resolver    ast.Resolver
	invocations map[string]struct{}
}

func newRFC(env Env) *rfc {
	return &rfc{resolver: env.resolver(), invocations: make(map[string]struct{})}
}

func (m *rfc) Visit(n *ast.Node) {
	if n.Kind == ast.KindMethodInvocation || n.Kind == ast.KindSuperMethodInvocation {
		m.invocations[ast.InvocationSignature(m.resolver, n)] = struct{}{}
	}
}

func (m *rfc) FinalizeClass(r *record.ClassRecord) { r.RFC = len(m.invocations) }

func (m *rfc) FinalizeMethod(r *record.MethodRecord) {
	r.RFC = len(m.invocations)
	r.Invocations = make([]string, 0, len(m.invocations))
	for sig := range m.invocations {
		r.Invocations = append(r.Invocations, sig)
	}
	sort.Strings(r.Invocations)
}

// nosi counts invocations of static methods.
type nosi struct {
	Base
	resolver ast.Resolver
	count    int
}

func newNOSI(env Env) *nosi { return &nosi{resolver: env.resolver()} }

func (m *nosi) Visit(n *ast.Node) {
	if n.Kind != ast.KindMethodInvocation {
		return
	}
	if b := m.resolver.MethodOf(n); b != nil && b.Static {
		m.count++
	}
}

func (m *nosi) FinalizeClass(r *record.ClassRecord) { r.NOSI = m.count }

// noc records every supertype a class declaration names into the ledger's
// child tally. The class's own count is read back from the ledger once the
// whole run is known.
type noc struct {
	Base
	resolver ast.Resolver
	env      Env
}

func newNOC(env Env) *noc { return &noc{resolver: env.resolver(), env: env} }

func (m *noc) Visit(n *ast.Node) {
	if n.Kind != ast.KindTypeDeclaration || m.env.Ledger == nil {
		return
	}
	if b := m.resolver.TypeOf(n); b != nil {
		child := b.QualifiedName
		if b.Superclass != nil {
			m.env.Ledger.AddChild(b.Superclass.QualifiedName, child)
		}
		for _, i := range b.Interfaces {
			m.env.Ledger.AddChild(i.QualifiedName, child)
		}
		return
	}
	if n.Superclass != nil && n.Superclass.Kind == ast.KindSimpleType {
		m.env.Ledger.AddChild(n.Superclass.Name, n.Name)
	}
	for _, i := range n.Interfaces {
		if i.Kind == ast.KindSimpleType {
			m.env.Ledger.AddChild(i.Name, n.Name)
		}
	}
}

func (m *noc) FinalizeClass(*record.ClassRecord) {}
