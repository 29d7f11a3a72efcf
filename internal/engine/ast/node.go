package ast

// Span locates a node in its source file. Lines are 1-based.
type Span struct {
	StartLine int
	EndLine   int
	StartByte int
	EndByte   int
}

type Modifiers uint16

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModProtected
	ModStatic
	ModFinal
	ModAbstract
	ModSynchronized
	ModNative
	ModTransient
	ModVolatile
	ModStrictfp
	ModDefault
	ModSealed
)

var modifierWords = []struct {
	word string
	flag Modifiers
}{
	{"public", ModPublic},
	{"private", ModPrivate},
	{"protected", ModProtected},
	{"static", ModStatic},
	{"final", ModFinal},
	{"abstract", ModAbstract},
	{"synchronized", ModSynchronized},
	{"native", ModNative},
	{"transient", ModTransient},
	{"volatile", ModVolatile},
	{"strictfp", ModStrictfp},
	{"default", ModDefault},
	{"sealed", ModSealed},
}

// ModifierFor maps a Java modifier keyword to its flag.
func ModifierFor(word string) (Modifiers, bool) {
	for _, m := range modifierWords {
		if m.word == word {
			return m.flag, true
		}
	}
	return 0, false
}

func (m Modifiers) Has(flag Modifiers) bool { return m&flag != 0 }

// Words lists the modifier keywords in declaration order.
func (m Modifiers) Words() []string {
	var out []string
	for _, w := range modifierWords {
		if m.Has(w.flag) {
			out = append(out, w.word)
		}
	}
	return out
}

// Node is one syntax tree node. Children holds every child in source order;
// the role fields (Type, Expr, Body, ...) point at nodes that are also in
// Children, so a walk over Children visits everything exactly once.
type Node struct {
	Kind     Kind
	Span     Span
	Text     string
	Children []*Node

	// Name is the declared or referenced identifier: type and member names,
	// SimpleName identifiers, invoked method names, the type name as written
	// for type nodes, and the token for literals.
	Name     string
	Operator string

	Modifiers   Modifiers
	Interface   bool
	Constructor bool
	Default     bool
	Varargs     bool

	Type       *Node
	Expr       *Node
	Body       *Node
	Else       *Node
	Left       *Node
	Right      *Node
	Javadoc    *Node
	Superclass *Node
	Interfaces []*Node
	Args       []*Node
	Params     []*Node
	Fragments  []*Node
	TypeArgs   []*Node
	Labels     []*Node
}

// Unit is one parsed source file ready for traversal.
type Unit struct {
	Path     string
	Source   []byte
	Root     *Node
	Resolver Resolver
	// HasErrors is set when the front end recovered from syntax errors.
	HasErrors bool
}

// New builds a node and appends the given children.
func New(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	n.Add(children...)
	return n
}

// Add appends non-nil children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Inspect walks the subtree depth-first in source order. Returning false
// from fn skips the node's children.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Inspect(c, fn)
	}
}

// Count returns how many nodes in the subtree satisfy pred.
func Count(n *Node, pred func(*Node) bool) int {
	total := 0
	Inspect(n, func(c *Node) bool {
		if pred(c) {
			total++
		}
		return true
	})
	return total
}
