package metric

import (
	"fmt"

	"classmetrics/internal/core/errors"
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

// Registry is an ordered set of metric definitions. Instantiation order
// follows registration order.
type Registry struct {
	defs []Definition
}

// NewRegistry validates and stores defs.
func NewRegistry(defs ...Definition) (*Registry, error) {
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.Name == "" {
			return nil, errors.Newf(errors.CodeConstruction, "metric definition %d has no name", i)
		}
		if seen[d.Name] {
			return nil, errors.Newf(errors.CodeConstruction, "duplicate metric %q", d.Name)
		}
		if d.Class == nil && d.Method == nil {
			return nil, errors.Newf(errors.CodeConstruction, "metric %q has no constructor", d.Name)
		}
		seen[d.Name] = true
	}
	out := make([]Definition, len(defs))
	copy(out, defs)
	return &Registry{defs: out}, nil
}

// Default returns the full built-in metric suite.
func Default() *Registry {
	return &Registry{defs: builtins()}
}

// Names lists registered metrics in order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d.Name)
	}
	return out
}

// Without returns a copy minus the named metrics. Naming a metric that is
// not registered is an error.
func (r *Registry) Without(names ...string) (*Registry, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		if drop[d.Name] {
			delete(drop, d.Name)
			continue
		}
		kept = append(kept, d)
	}
	for _, n := range names {
		if drop[n] {
			return nil, errors.Newf(errors.CodeValidationError, "unknown metric %q", n)
		}
	}
	return &Registry{defs: kept}, nil
}

// ClassMetrics instantiates one fresh plugin per class-level definition.
func (r *Registry) ClassMetrics(env Env) ([]ClassMetric, error) {
	out := make([]ClassMetric, 0, len(r.defs))
	for _, d := range r.defs {
		if d.Class == nil {
			continue
		}
		m, err := construct(d.Name, func() (ClassMetric, error) { return d.Class(env) })
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// MethodMetrics instantiates one fresh plugin per method-level definition.
func (r *Registry) MethodMetrics(env Env) ([]MethodMetric, error) {
	out := make([]MethodMetric, 0, len(r.defs))
	for _, d := range r.defs {
		if d.Method == nil {
			continue
		}
		m, err := construct(d.Name, func() (MethodMetric, error) { return d.Method(env) })
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Validate builds every plugin once so construction failures surface before
// any file is processed.
func (r *Registry) Validate(env Env) error {
	if _, err := r.ClassMetrics(env); err != nil {
		return err
	}
	_, err := r.MethodMetrics(env)
	return err
}

func construct[T any](name string, build func() (T, error)) (m T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.AddContext(
				errors.Wrap(fmt.Errorf("%v", p), errors.CodeConstruction, "metric constructor panicked"),
				errors.CtxMetric, name)
		}
	}()
	m, err = build()
	if err != nil {
		return m, errors.AddContext(errors.Wrap(err, errors.CodeConstruction, "metric construction failed"), errors.CtxMetric, name)
	}
	return m, nil
}

type dualMetric interface {
	ClassMetric
	MethodMetric
}

func both[T dualMetric](name string, ctor func(Env) T) Definition {
	return Definition{
		Name:   name,
		Class:  func(env Env) (ClassMetric, error) { return ctor(env), nil },
		Method: func(env Env) (MethodMetric, error) { return ctor(env), nil },
	}
}

func classOnly[T ClassMetric](name string, ctor func(Env) T) Definition {
	return Definition{
		Name:  name,
		Class: func(env Env) (ClassMetric, error) { return ctor(env), nil },
	}
}

func methodOnly[T MethodMetric](name string, ctor func(Env) T) Definition {
	return Definition{
		Name:   name,
		Method: func(env Env) (MethodMetric, error) { return ctor(env), nil },
	}
}

func builtins() []Definition {
	return []Definition{
		both("cbo", newCBO),
		both("coupling", newCoupling),
		both("wmc", newWMC),
		both("rfc", newRFC),
		classOnly("lcom", newLCOM),
		classOnly("nosi", newNOSI),
		classOnly("noc", newNOC),
		both("max-nesting", newNesting),
		counterDef("loops", isLoop, func(r *record.ClassRecord, n int) { r.Loops = n }, func(r *record.MethodRecord, n int) { r.Loops = n }),
		counterDef("parenthesized", isKind(ast.KindParenthesized), func(r *record.ClassRecord, n int) { r.Parenthesized = n }, func(r *record.MethodRecord, n int) { r.Parenthesized = n }),
		counterDef("assignments", isAssignment, func(r *record.ClassRecord, n int) { r.Assignments = n }, func(r *record.MethodRecord, n int) { r.Assignments = n }),
		counterDef("comparisons", isComparison, func(r *record.ClassRecord, n int) { r.Comparisons = n }, func(r *record.MethodRecord, n int) { r.Comparisons = n }),
		counterDef("math-operations", isMathOperation, func(r *record.ClassRecord, n int) { r.MathOperations = n }, func(r *record.MethodRecord, n int) { r.MathOperations = n }),
		counterDef("try-catch", isKind(ast.KindTry), func(r *record.ClassRecord, n int) { r.TryCatches = n }, func(r *record.MethodRecord, n int) { r.TryCatches = n }),
		counterDef("returns", isKind(ast.KindReturn), func(r *record.ClassRecord, n int) { r.Returns = n }, func(r *record.MethodRecord, n int) { r.Returns = n }),
		counterDef("variables", isKind(ast.KindVariableDeclarationFragment), func(r *record.ClassRecord, n int) { r.Variables = n }, func(r *record.MethodRecord, n int) { r.Variables = n }),
		methodOnly("parameters", newParameters),
		both("inner-classes", newInnerClasses),
		both("unique-words", newUniqueWords),
		both("loc", newLOC),
		methodOnly("javadoc", newJavadoc),
		classOnly("fields", newFieldCounter),
		classOnly("methods", newMethodCounter),
		methodOnly("field-usage", newFieldUsage),
		methodOnly("variable-usage", newVariableUsage),
	}
}
