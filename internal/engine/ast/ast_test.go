package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "MethodDeclaration", KindMethodDeclaration.String())
	assert.Equal(t, "Other", KindOther.String())
	assert.Equal(t, "Unknown", Kind(250).String())
	for k := Kind(0); k < kindCount; k++ {
		assert.NotEmpty(t, k.String(), "kind %d has no name", k)
	}
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindAnonymousClass.IsClassLike())
	assert.True(t, KindEnumDeclaration.IsClassLike())
	assert.False(t, KindAnnotationTypeDeclaration.IsClassLike())
	assert.True(t, KindInitializer.IsMethodLike())
	assert.False(t, KindLambda.IsMethodLike())
	assert.True(t, KindWildcardType.IsType())
	assert.True(t, KindSingleMemberAnnotation.IsAnnotation())
	assert.True(t, KindDo.IsLoop())
	assert.False(t, KindIf.IsLoop())
}

func TestModifiers(t *testing.T) {
	var m Modifiers
	for _, w := range []string{"public", "static", "final"} {
		f, ok := ModifierFor(w)
		assert.True(t, ok)
		m |= f
	}
	_, ok := ModifierFor("override")
	assert.False(t, ok)

	assert.True(t, m.Has(ModStatic))
	assert.False(t, m.Has(ModPrivate))
	assert.Equal(t, []string{"public", "static", "final"}, m.Words())
}

func TestInspectAndCount(t *testing.T) {
	inner := New(KindInfix, New(KindSimpleName), New(KindNumberLiteral))
	root := New(KindBlock, New(KindExpressionStatement, inner), nil)

	assert.Len(t, root.Children, 1)
	assert.Equal(t, 5, Count(root, func(*Node) bool { return true }))

	visited := 0
	Inspect(root, func(n *Node) bool {
		visited++
		return n.Kind != KindExpressionStatement
	})
	assert.Equal(t, 2, visited)
}

func TestBindingTable(t *testing.T) {
	table := NewBindingTable()
	n := New(KindSimpleType)
	typ := &TypeBinding{QualifiedName: "a.B", DeclaredFields: []string{"x"}}

	table.SetType(n, typ)
	table.SetType(nil, typ)
	table.SetMethod(n, nil)

	assert.Same(t, typ, table.TypeOf(n))
	assert.Nil(t, table.MethodOf(n))
	assert.Nil(t, NoBindings.TypeOf(n))
	assert.Equal(t, 1, table.Len())
	assert.True(t, typ.HasField("x"))
	assert.Equal(t, "a.B", typ.Name())
	assert.False(t, typ.InStandardLibrary())
	assert.True(t, (&TypeBinding{QualifiedName: "javax.swing.JPanel"}).InStandardLibrary())
}

func TestMethodNaming(t *testing.T) {
	strType := &Node{Kind: KindSimpleType, Name: "String", Text: "String"}
	intType := &Node{Kind: KindPrimitiveType, Name: "int", Text: "int"}
	decl := &Node{
		Kind: KindMethodDeclaration,
		Name: "run",
		Params: []*Node{
			{Kind: KindSingleVariableDeclaration, Type: strType},
			{Kind: KindSingleVariableDeclaration, Type: intType},
		},
	}

	assert.Equal(t, "run/2[String,int]", MethodFullName(NoBindings, decl))
	assert.Equal(t, "run/2[String,int]", QualifiedMethodFullName(NoBindings, decl))

	table := NewBindingTable()
	owner := &TypeBinding{QualifiedName: "p.Worker"}
	table.SetType(strType, &TypeBinding{QualifiedName: "java.lang.String"})
	table.SetMethod(decl, &MethodBinding{Name: "run", DeclaringClass: owner})
	assert.Equal(t, "p.Worker.run/2[java.lang.String,int]", QualifiedMethodFullName(table, decl))

	noArgs := &Node{Kind: KindMethodDeclaration, Name: "close"}
	assert.Equal(t, "close/0", MethodFullName(NoBindings, noArgs))
}

func TestInvocationSignature(t *testing.T) {
	call := &Node{Kind: KindMethodInvocation, Name: "save", Args: []*Node{New(KindSimpleName)}}
	assert.Equal(t, "save/1", InvocationSignature(NoBindings, call))

	table := NewBindingTable()
	table.SetMethod(call, &MethodBinding{
		Name:           "save",
		DeclaringClass: &TypeBinding{QualifiedName: "p.Repo"},
		ParameterTypes: []*TypeBinding{{QualifiedName: "p.Item"}},
	})
	assert.Equal(t, "p.Repo.save/1[p.Item]", InvocationSignature(table, call))

	other := &Node{Kind: KindMethodInvocation, Name: "flush"}
	table.SetMethod(other, &MethodBinding{Name: "flush", DeclaringClass: &TypeBinding{QualifiedName: "p.Repo"}})
	assert.Equal(t, "p.Repo.flush/0", InvocationSignature(table, other))
}
