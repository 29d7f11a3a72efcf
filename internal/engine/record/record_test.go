package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultKeepsFirstRecordPerIdentity(t *testing.T) {
	res := NewResult("A.java")
	first := NewClass("A.java", "p.A", TypeClass, 0, 1)
	first.WMC = 3
	res.Add(first)
	res.Add(NewClass("A.java", "p.A$Inner", TypeInnerClass, 0, 3))

	duplicate := NewClass("A.java", "p.A", TypeClass, 0, 9)
	duplicate.WMC = 7
	res.Add(duplicate)

	classes := res.Classes()
	require.Len(t, classes, 2)
	assert.Same(t, first, classes[0])
	assert.Equal(t, 3, classes[0].WMC)
	assert.Equal(t, "p.A$Inner", classes[1].ClassName)
	assert.Equal(t, 2, res.Len())
}

func TestClassRecordMethodsAreCopied(t *testing.T) {
	c := NewClass("A.java", "p.A", TypeClass, 0, 1)
	c.AddMethod(NewMethod("a/0", "p.A.a/0", false, 0, 2))
	c.AddMethod(NewMethod("b/0", "p.A.b/0", false, 0, 5))

	methods := c.MethodRecords()
	methods[0] = nil
	assert.NotNil(t, c.MethodRecords()[0])
	assert.Equal(t, "b/0", c.MethodRecords()[1].MethodName)
}

func TestSortClasses(t *testing.T) {
	classes := []*ClassRecord{
		NewClass("b/B.java", "b.B", TypeClass, 0, 1),
		NewClass("a/A.java", "a.Z", TypeClass, 0, 1),
		NewClass("a/A.java", "a.A", TypeClass, 0, 1),
	}
	SortClasses(classes)
	assert.Equal(t, []string{"a.A", "a.Z", "b.B"}, []string{classes[0].ClassName, classes[1].ClassName, classes[2].ClassName})
}

func TestFileError(t *testing.T) {
	cause := errors.New("unexpected token")
	fe := FileError{Path: "Broken.java", Err: cause}
	assert.Equal(t, "Broken.java: unexpected token", fe.Error())
	assert.ErrorIs(t, fe, cause)
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 0}))
}
