package ledger

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct {
	from, to string
	cat      Category
}

var sample = []edge{
	{"p.A", "p.B", DataAbstraction},
	{"p.A", "p.C", Inheritance},
	{"p.B", "p.C", ObjectParameter},
	{"p.C", "p.A", Unclassified},
	{"p.D", "p.A", Interface},
	{"p.D", "A", DataAbstraction},
}

func TestReconcile(t *testing.T) {
	set := map[string]struct{}{"Foo": {}, "a.b.Foo": {}, "Bar": {}, "x.Baz": {}}
	assert.Equal(t, []string{"Bar", "a.b.Foo", "x.Baz"}, Reconcile(set))

	// Two distinct types sharing a short name still collapse the bare entry.
	shared := map[string]struct{}{"Node": {}, "a.Node": {}, "b.Node": {}}
	assert.Equal(t, []string{"a.Node", "b.Node"}, Reconcile(shared))

	assert.Empty(t, Reconcile(map[string]struct{}(nil)))
}

func TestFanInFanOut(t *testing.T) {
	l := New()
	for _, e := range sample {
		l.AddClassEdge(e.from, e.to, e.cat)
	}

	assert.Equal(t, 2, l.ClassFanOut("p.A"))
	assert.Equal(t, 2, l.ClassFanIn("p.A"))
	assert.Equal(t, 4, l.ClassCoupling("p.A"))
	assert.Equal(t, 2, l.ClassFanIn("p.C"))
	// p.D references both A and p.A; the bare duplicate is dropped.
	assert.Equal(t, 1, l.ClassFanOut("p.D"))
	assert.Equal(t, []string{"p.A"}, l.ClassReferences("p.D"))
	assert.Equal(t, 0, l.ClassFanOut("missing"))
}

func TestOrderIndependence(t *testing.T) {
	reference := New()
	for _, e := range sample {
		reference.AddClassEdge(e.from, e.to, e.cat)
	}

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		shuffled := append([]edge(nil), sample...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		// Split across partial ledgers, as parallel files would.
		run := New()
		parts := []*Ledger{New(), New(), New()}
		for i, e := range shuffled {
			parts[i%len(parts)].AddClassEdge(e.from, e.to, e.cat)
		}
		for _, p := range parts {
			run.Merge(p)
		}

		for _, name := range []string{"p.A", "p.B", "p.C", "p.D"} {
			assert.Equal(t, reference.ClassFanIn(name), run.ClassFanIn(name), "fan-in of %s", name)
			assert.Equal(t, reference.ClassFanOut(name), run.ClassFanOut(name), "fan-out of %s", name)
		}
	}
}

func TestCategories(t *testing.T) {
	l := New()
	l.AddClassEdge("p.A", "p.B", DataAbstraction)
	l.AddClassEdge("p.A", "p.B", ObjectParameter)
	l.AddClassEdge("p.A", "p.C", Unclassified)

	cats := l.Categories("p.A")
	require.Len(t, cats, 1)
	assert.Equal(t, []Category{ObjectParameter, DataAbstraction}, cats["p.B"])
	assert.Equal(t, "DATA_ABSTRACTION", DataAbstraction.String())
	assert.Equal(t, "UNKNOWN", Category(99).String())
}

func TestMethodEdgesAndChildren(t *testing.T) {
	l := New()
	l.AddMethodEdge("p.A.run/0", "p.B.save/1")
	l.AddMethodEdge("p.C.go/0", "p.B.save/1")
	l.AddMethodEdge("", "ignored")
	l.AddChild("p.Base", "p.A")
	l.AddChild("p.Base", "p.B")
	l.AddChild("p.Base", "p.A")

	assert.Equal(t, 2, l.MethodFanIn("p.B.save/1"))
	assert.Equal(t, 1, l.MethodFanOut("p.A.run/0"))
	assert.Equal(t, 2, l.MethodCoupling("p.B.save/1"))
	assert.Equal(t, 2, l.Children("p.Base"))
	assert.Equal(t, 0, l.Children("p.A"))
}

func TestMergeSelfAndNil(t *testing.T) {
	l := New()
	l.AddClassEdge("a.X", "a.Y", Unclassified)
	l.Merge(nil)
	l.Merge(l)
	assert.Equal(t, 1, l.ClassFanOut("a.X"))
	assert.Equal(t, []string{"a.X"}, l.Classes())
}

func TestConcurrentAdds(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.AddClassEdge(fmt.Sprintf("p.C%d", w), fmt.Sprintf("p.T%d", i%10), DataAbstraction)
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 10, l.ClassFanOut("p.C3"))
	assert.Equal(t, 8, l.ClassFanIn("p.T4"))
}
