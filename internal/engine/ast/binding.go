package ast

import "strings"

// TypeBinding is the semantic identity of a type reference or declaration.
type TypeBinding struct {
	QualifiedName string
	// BinaryName separates nested types with '$'; equal to QualifiedName for
	// top-level types.
	BinaryName     string
	Primitive      bool
	Wildcard       bool
	Null           bool
	Array          bool
	Superclass     *TypeBinding
	Interfaces     []*TypeBinding
	TypeArguments  []*TypeBinding
	DeclaredFields []string
}

// Name returns the binary name when known, otherwise the qualified name.
func (t *TypeBinding) Name() string {
	if t == nil {
		return ""
	}
	if t.BinaryName != "" {
		return t.BinaryName
	}
	return t.QualifiedName
}

// HasField reports whether name is declared directly by the type.
func (t *TypeBinding) HasField(name string) bool {
	if t == nil {
		return false
	}
	for _, f := range t.DeclaredFields {
		if f == name {
			return true
		}
	}
	return false
}

// InStandardLibrary reports types under java. or javax.
func (t *TypeBinding) InStandardLibrary() bool {
	if t == nil {
		return false
	}
	return strings.HasPrefix(t.QualifiedName, "java.") || strings.HasPrefix(t.QualifiedName, "javax.")
}

// MethodBinding is the resolved target of a method declaration, invocation
// or constructor call.
type MethodBinding struct {
	Name           string
	DeclaringClass *TypeBinding
	ParameterTypes []*TypeBinding
	ReturnType     *TypeBinding
	Static         bool
	Constructor    bool
}

// VariableBinding is the resolved target of a simple name.
type VariableBinding struct {
	Name           string
	Field          bool
	DeclaringClass *TypeBinding
	Type           *TypeBinding
}

// Resolver answers binding queries for nodes of one Unit. A nil result means
// the reference could not be resolved; callers fall back to syntax.
type Resolver interface {
	TypeOf(n *Node) *TypeBinding
	MethodOf(n *Node) *MethodBinding
	VariableOf(n *Node) *VariableBinding
}

// BindingTable is a map-backed Resolver populated by a front end.
type BindingTable struct {
	types     map[*Node]*TypeBinding
	methods   map[*Node]*MethodBinding
	variables map[*Node]*VariableBinding
}

func NewBindingTable() *BindingTable {
	return &BindingTable{
		types:     make(map[*Node]*TypeBinding),
		methods:   make(map[*Node]*MethodBinding),
		variables: make(map[*Node]*VariableBinding),
	}
}

func (b *BindingTable) SetType(n *Node, t *TypeBinding) {
	if n != nil && t != nil {
		b.types[n] = t
	}
}

func (b *BindingTable) SetMethod(n *Node, m *MethodBinding) {
	if n != nil && m != nil {
		b.methods[n] = m
	}
}

func (b *BindingTable) SetVariable(n *Node, v *VariableBinding) {
	if n != nil && v != nil {
		b.variables[n] = v
	}
}

func (b *BindingTable) TypeOf(n *Node) *TypeBinding         { return b.types[n] }
func (b *BindingTable) MethodOf(n *Node) *MethodBinding     { return b.methods[n] }
func (b *BindingTable) VariableOf(n *Node) *VariableBinding { return b.variables[n] }

// Len reports the number of recorded bindings of all three sorts.
func (b *BindingTable) Len() int {
	return len(b.types) + len(b.methods) + len(b.variables)
}

type noBindings struct{}

func (noBindings) TypeOf(*Node) *TypeBinding         { return nil }
func (noBindings) MethodOf(*Node) *MethodBinding     { return nil }
func (noBindings) VariableOf(*Node) *VariableBinding { return nil }

// NoBindings resolves nothing; every reference takes the syntactic path.
var NoBindings Resolver = noBindings{}
