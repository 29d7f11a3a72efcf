// Package traversal walks a parsed unit once, opening a scope for every
// class-like and method-like declaration and fanning each node out to the
// metric plugins of the innermost open scopes.
package traversal

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"

	"classmetrics/internal/core/errors"
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/ledger"
	"classmetrics/internal/engine/metric"
	"classmetrics/internal/engine/record"
)

// Engine runs a metric registry over parsed units. It holds no per-file
// state and is safe for concurrent use.
type Engine struct {
	registry *metric.Registry
}

func New(registry *metric.Registry) *Engine {
	if registry == nil {
		registry = metric.Default()
	}
	return &Engine{registry: registry}
}

// Traverse computes every class and method record of unit. Coupling edges
// go to l, which may be shared with other files or private to this one.
// A panic inside a plugin is reported as a traversal error for this unit.
func (e *Engine) Traverse(ctx context.Context, unit *ast.Unit, l *ledger.Ledger) (res *record.Result, err error) {
	if unit == nil || unit.Root == nil {
		return nil, errors.New(errors.CodeValidationError, "unit has no syntax tree")
	}
	resolver := unit.Resolver
	if resolver == nil {
		resolver = ast.NoBindings
	}
	w := &walker{
		ctx:      ctx,
		registry: e.registry,
		env:      metric.Env{Resolver: resolver, Ledger: l},
		resolver: resolver,
		result:   record.NewResult(unit.Path),
		path:     unit.Path,
	}
	defer func() {
		if p := recover(); p != nil {
			slog.Debug("traversal panic", "path", unit.Path, "panic", p, "stack", string(debug.Stack()))
			res = nil
			err = errors.AddContext(
				errors.Wrap(fmt.Errorf("%v", p), errors.CodeTraversal, "metric traversal panicked"),
				errors.CtxPath, unit.Path)
		}
	}()
	if err := w.walk(unit.Root); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, unit.Path)
	}
	return w.result, nil
}

type nodeEvent struct {
	node *ast.Node
	exit bool
}

func (ev nodeEvent) deliver(v metric.Visitor) {
	if ev.exit {
		v.EndVisit(ev.node)
		return
	}
	v.Visit(ev.node)
}

type walker struct {
	ctx      context.Context
	registry *metric.Registry
	env      metric.Env
	resolver ast.Resolver
	result   *record.Result
	path     string
	scopes   scopes

	anonymous    int
	initializers int
}

func (w *walker) walk(n *ast.Node) error {
	switch {
	case n.Kind.IsClassLike():
		return w.walkClass(n)
	case n.Kind.IsMethodLike() && !w.scopes.empty():
		return w.walkMethod(n)
	}
	w.scopes.visit(nodeEvent{node: n})
	for _, c := range n.Children {
		if err := w.walk(c); err != nil {
			return err
		}
	}
	w.scopes.visit(nodeEvent{node: n, exit: true})
	return nil
}

func (w *walker) walkChildren(n *ast.Node) error {
	for _, c := range n.Children {
		if err := w.walk(c); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walkClass(n *ast.Node) error {
	if err := w.ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeTraversal, "traversal cancelled")
	}
	// The enclosing scopes see the declaration itself but none of its body.
	w.scopes.visit(nodeEvent{node: n})

	frame, err := w.openClass(n)
	if err != nil {
		return err
	}
	w.scopes.pushClass(frame)
	for _, m := range frame.metrics {
		m.Visit(n)
	}
	if err := w.walkChildren(n); err != nil {
		return err
	}
	for _, m := range frame.metrics {
		m.EndVisit(n)
	}
	done := w.scopes.popClass()
	for _, m := range done.metrics {
		m.FinalizeClass(done.record)
	}
	w.result.Add(done.record)
	slog.Debug("class scope closed", "path", w.path, "class", done.record.ClassName, "methods", len(done.record.MethodRecords()))

	w.scopes.visit(nodeEvent{node: n, exit: true})
	return nil
}

func (w *walker) openClass(n *ast.Node) (classFrame, error) {
	name, typ, mods := w.classIdentity(n)
	rec := record.NewClass(w.path, name, typ, mods, n.Span.StartLine)
	metrics, err := w.registry.ClassMetrics(w.env)
	if err != nil {
		return classFrame{}, errors.AddContext(err, errors.CtxClass, name)
	}
	for _, m := range metrics {
		if namer, ok := m.(metric.ClassNamer); ok {
			namer.SetClassName(name)
		}
	}
	return classFrame{record: rec, metrics: metrics}, nil
}

// classIdentity decides name and kind at open time. Anonymous classes are
// named after the class enclosing them with a per-file ordinal.
func (w *walker) classIdentity(n *ast.Node) (name, typ string, mods ast.Modifiers) {
	if n.Kind == ast.KindAnonymousClass {
		w.anonymous++
		enclosing := ""
		if c := w.scopes.class(); c != nil {
			enclosing = c.record.ClassName
		}
		return enclosing + "$Anonymous" + strconv.Itoa(w.anonymous), record.TypeAnonymous, 0
	}

	name = n.Name
	if b := w.resolver.TypeOf(n); b != nil && b.Name() != "" {
		name = b.Name()
	}
	switch {
	case n.Kind == ast.KindEnumDeclaration:
		typ = record.TypeEnum
	case n.Interface:
		typ = record.TypeInterface
	case w.scopes.empty():
		typ = record.TypeClass
	default:
		typ = record.TypeInnerClass
	}
	return name, typ, n.Modifiers
}

func (w *walker) walkMethod(n *ast.Node) error {
	frame, err := w.openMethod(n)
	if err != nil {
		return err
	}
	w.scopes.pushMethod(frame)
	w.scopes.visit(nodeEvent{node: n})
	if err := w.walkChildren(n); err != nil {
		return err
	}
	w.scopes.visit(nodeEvent{node: n, exit: true})

	done := w.scopes.popMethod()
	for _, m := range done.metrics {
		m.FinalizeMethod(done.record)
	}
	w.scopes.class().record.AddMethod(done.record)
	return nil
}

func (w *walker) openMethod(n *ast.Node) (methodFrame, error) {
	var rec *record.MethodRecord
	if n.Kind == ast.KindInitializer {
		w.initializers++
		name := "(initializer " + strconv.Itoa(w.initializers) + ")"
		rec = record.NewMethod(name, name, false, n.Modifiers, n.Span.StartLine)
	} else {
		rec = record.NewMethod(
			ast.MethodFullName(w.resolver, n),
			ast.QualifiedMethodFullName(w.resolver, n),
			n.Constructor, n.Modifiers, n.Span.StartLine)
	}
	metrics, err := w.registry.MethodMetrics(w.env)
	if err != nil {
		return methodFrame{}, errors.AddContext(err, errors.CtxMethod, rec.QualifiedMethodName)
	}
	for _, m := range metrics {
		if namer, ok := m.(metric.MethodNamer); ok {
			namer.SetMethodName(rec.QualifiedMethodName)
		}
	}
	return methodFrame{record: rec, metrics: metrics}, nil
}
