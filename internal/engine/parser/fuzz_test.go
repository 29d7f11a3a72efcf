package parser

import (
	"testing"

	"classmetrics/internal/engine/ast"
)

func FuzzJavaFrontEnd(f *testing.F) {
	f.Add([]byte(`class Main {
	public static void main(String[] args) {
		System.out.println("hello");
	}
}`))
	f.Add([]byte(`enum E { A { void m() {} }, B; }`))
	f.Add([]byte(`record P(int x, int y) { P { if (x < 0) throw new IllegalArgumentException(); } }`))
	f.Add([]byte(`class Broken { void m( { if }`))

	loader, err := NewGrammarLoader(LanguageSpec{})
	if err != nil {
		f.Fatal(err)
	}
	fe, err := NewJavaFrontEnd(loader, Options{})
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		unit, err := fe.Parse("Fuzz.java", data)
		if err != nil {
			return
		}
		if unit.Root == nil || unit.Root.Kind != ast.KindCompilationUnit {
			t.Fatalf("expected a compilation unit root")
		}
	})
}
