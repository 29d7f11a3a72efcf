// Package metric holds the plugin protocol the traversal engine drives and
// every metric algorithm built on it.
//
// A plugin instance is bound to exactly one scope. The engine feeds it every
// node of that scope in depth-first order through Visit and EndVisit, then
// calls FinalizeClass or FinalizeMethod once when the scope closes. A metric
// that measures both classes and methods gets separate instances for each
// scope; they never share state.
package metric

import (
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/ledger"
	"classmetrics/internal/engine/record"
)

// Visitor observes the nodes of the scope it is bound to. Kinds a plugin
// does not care about are ignored.
type Visitor interface {
	Visit(n *ast.Node)
	EndVisit(n *ast.Node)
}

type ClassMetric interface {
	Visitor
	FinalizeClass(r *record.ClassRecord)
}

type MethodMetric interface {
	Visitor
	FinalizeMethod(r *record.MethodRecord)
}

// ClassNamer is implemented by plugins that need the name of their class
// scope before the first node arrives.
type ClassNamer interface {
	SetClassName(name string)
}

// MethodNamer is the method scope counterpart of ClassNamer.
type MethodNamer interface {
	SetMethodName(name string)
}

// Base supplies no-op Visit and EndVisit.
type Base struct{}

func (Base) Visit(*ast.Node)    {}
func (Base) EndVisit(*ast.Node) {}

// Env is what a plugin may consult besides the nodes it is fed.
type Env struct {
	Resolver ast.Resolver
	Ledger   *ledger.Ledger
}

func (e Env) resolver() ast.Resolver {
	if e.Resolver == nil {
		return ast.NoBindings
	}
	return e.Resolver
}

// Definition registers one metric. Either constructor may be nil when the
// metric only applies to one scope level.
type Definition struct {
	Name   string
	Class  func(env Env) (ClassMetric, error)
	Method func(env Env) (MethodMetric, error)
}
