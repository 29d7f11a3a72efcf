package ledger

import (
	"sort"
	"strings"
	"sync"
)

// Category classifies a coupling edge.
type Category uint8

const (
	Unclassified Category = iota
	AtomicParameter
	ObjectParameter
	Inheritance
	Interface
	PublicGlobal
	StaticGlobal
	PublicFinalGlobal
	StaticFinalGlobal
	DataAbstraction
)

var categoryNames = [...]string{
	Unclassified:      "UNCLASSIFIED",
	AtomicParameter:   "ATOMIC_PARAMETER",
	ObjectParameter:   "OBJECT_PARAMETER",
	Inheritance:       "INHERITANCE",
	Interface:         "INTERFACE",
	PublicGlobal:      "PUBLIC_GLOBAL",
	StaticGlobal:      "STATIC_GLOBAL",
	PublicFinalGlobal: "PUBLIC_FINAL_GLOBAL",
	StaticFinalGlobal: "STATIC_FINAL_GLOBAL",
	DataAbstraction:   "DATA_ABSTRACTION",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "UNKNOWN"
}

type nameSet map[string]struct{}

func (s nameSet) add(name string) { s[name] = struct{}{} }

// Ledger is the run-wide coupling table: who references whom at class and
// method level, the category of each class edge, and how many declarations
// name each type as a supertype. Every method is safe for concurrent use.
type Ledger struct {
	mu         sync.Mutex
	classOut   map[string]nameSet
	classIn    map[string]nameSet
	methodOut  map[string]nameSet
	methodIn   map[string]nameSet
	categories map[string]map[string]map[Category]struct{}
	children   map[string]map[string]struct{}
}

func New() *Ledger {
	return &Ledger{
		classOut:   make(map[string]nameSet),
		classIn:    make(map[string]nameSet),
		methodOut:  make(map[string]nameSet),
		methodIn:   make(map[string]nameSet),
		categories: make(map[string]map[string]map[Category]struct{}),
		children:   make(map[string]map[string]struct{}),
	}
}

func addEdge(out, in map[string]nameSet, from, to string) {
	if out[from] == nil {
		out[from] = make(nameSet)
	}
	out[from].add(to)
	if in[to] == nil {
		in[to] = make(nameSet)
	}
	in[to].add(from)
}

// AddClassEdge records that class from references type to. Unclassified
// edges still count toward fan-in and fan-out.
func (l *Ledger) AddClassEdge(from, to string, cat Category) {
	if from == "" || to == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	addEdge(l.classOut, l.classIn, from, to)
	if cat == Unclassified {
		return
	}
	byTarget := l.categories[from]
	if byTarget == nil {
		byTarget = make(map[string]map[Category]struct{})
		l.categories[from] = byTarget
	}
	if byTarget[to] == nil {
		byTarget[to] = make(map[Category]struct{})
	}
	byTarget[to][cat] = struct{}{}
}

// AddMethodEdge records that method from invokes method to.
func (l *Ledger) AddMethodEdge(from, to string) {
	if from == "" || to == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	addEdge(l.methodOut, l.methodIn, from, to)
}

// AddChild records that child declares parent as superclass or interface.
func (l *Ledger) AddChild(parent, child string) {
	if parent == "" || child == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.children[parent] == nil {
		l.children[parent] = make(map[string]struct{})
	}
	l.children[parent][child] = struct{}{}
}

// Merge folds other into l. other must not be mutated concurrently.
func (l *Ledger) Merge(other *Ledger) {
	if other == nil || other == l {
		return
	}
	other.mu.Lock()
	snapshot := other.clone()
	other.mu.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	mergeSets(l.classOut, snapshot.classOut)
	mergeSets(l.classIn, snapshot.classIn)
	mergeSets(l.methodOut, snapshot.methodOut)
	mergeSets(l.methodIn, snapshot.methodIn)
	for from, byTarget := range snapshot.categories {
		dst := l.categories[from]
		if dst == nil {
			dst = make(map[string]map[Category]struct{})
			l.categories[from] = dst
		}
		for to, cats := range byTarget {
			if dst[to] == nil {
				dst[to] = make(map[Category]struct{})
			}
			for c := range cats {
				dst[to][c] = struct{}{}
			}
		}
	}
	for parent, kids := range snapshot.children {
		if l.children[parent] == nil {
			l.children[parent] = make(map[string]struct{})
		}
		for k := range kids {
			l.children[parent][k] = struct{}{}
		}
	}
}

func mergeSets(dst, src map[string]nameSet) {
	for k, names := range src {
		if dst[k] == nil {
			dst[k] = make(nameSet, len(names))
		}
		for n := range names {
			dst[k].add(n)
		}
	}
}

func (l *Ledger) clone() *Ledger {
	c := New()
	mergeSets(c.classOut, l.classOut)
	mergeSets(c.classIn, l.classIn)
	mergeSets(c.methodOut, l.methodOut)
	mergeSets(c.methodIn, l.methodIn)
	for from, byTarget := range l.categories {
		c.categories[from] = make(map[string]map[Category]struct{}, len(byTarget))
		for to, cats := range byTarget {
			c.categories[from][to] = make(map[Category]struct{}, len(cats))
			for cat := range cats {
				c.categories[from][to][cat] = struct{}{}
			}
		}
	}
	for parent, kids := range l.children {
		c.children[parent] = make(map[string]struct{}, len(kids))
		for k := range kids {
			c.children[parent][k] = struct{}{}
		}
	}
	return c
}

func (l *Ledger) count(m map[string]nameSet, name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(Reconcile(m[name]))
}

// ClassFanOut counts the distinct types class name references.
func (l *Ledger) ClassFanOut(name string) int { return l.count(l.classOut, name) }

// ClassFanIn counts the distinct classes that reference name.
func (l *Ledger) ClassFanIn(name string) int { return l.count(l.classIn, name) }

// ClassCoupling is fan-in plus fan-out.
func (l *Ledger) ClassCoupling(name string) int {
	return l.ClassFanIn(name) + l.ClassFanOut(name)
}

func (l *Ledger) MethodFanOut(name string) int { return l.count(l.methodOut, name) }

func (l *Ledger) MethodFanIn(name string) int { return l.count(l.methodIn, name) }

func (l *Ledger) MethodCoupling(name string) int {
	return l.MethodFanIn(name) + l.MethodFanOut(name)
}

// ClassReferences returns the reconciled fan-out set of name, sorted.
func (l *Ledger) ClassReferences(name string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Reconcile(l.classOut[name])
}

// Categories returns, for each type class from references, the sorted
// categories of that edge.
func (l *Ledger) Categories(from string) map[string][]Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string][]Category, len(l.categories[from]))
	for to, cats := range l.categories[from] {
		list := make([]Category, 0, len(cats))
		for c := range cats {
			list = append(list, c)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		out[to] = list
	}
	return out
}

// Children counts the declarations naming parent as a supertype.
func (l *Ledger) Children(parent string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.children[parent])
}

// Classes lists every class that appears as a source of class edges.
func (l *Ledger) Classes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.classOut))
	for k := range l.classOut {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Reconcile drops a bare name when some other entry ends with "."+name: the
// bare form is a less qualified duplicate left by a failed resolution. The
// result is sorted.
func Reconcile[S ~map[string]struct{}](set S) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		if !strings.Contains(name, ".") && qualifiedDuplicate(set, name) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func qualifiedDuplicate[S ~map[string]struct{}](set S, bare string) bool {
	suffix := "." + bare
	for other := range set {
		if strings.HasSuffix(other, suffix) {
			return true
		}
	}
	return false
}
