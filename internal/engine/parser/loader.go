package parser

import (
	"fmt"
	"sort"
	"strings"

	"classmetrics/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

const LanguageJava = "java"

// LanguageSpec describes which files a grammar claims.
type LanguageSpec struct {
	Name             string
	Extensions       []string
	TestFileSuffixes []string
	Enabled          bool
}

// DefaultLanguageSpec is the Java grammar with its conventional test
// suffixes.
func DefaultLanguageSpec() LanguageSpec {
	return LanguageSpec{
		Name:             LanguageJava,
		Extensions:       []string{".java"},
		TestFileSuffixes: []string{"Test.java", "Tests.java", "IT.java"},
		Enabled:          true,
	}
}

type GrammarLoader struct {
	languages map[string]*sitter.Language
	spec      LanguageSpec
}

// NewGrammarLoader loads the compiled Java grammar. Extensions and test
// suffixes of spec override the defaults when set.
func NewGrammarLoader(spec LanguageSpec) (*GrammarLoader, error) {
	def := DefaultLanguageSpec()
	if spec.Name == "" {
		spec.Name = def.Name
	}
	if len(spec.Extensions) == 0 {
		spec.Extensions = def.Extensions
	}
	if spec.TestFileSuffixes == nil {
		spec.TestFileSuffixes = def.TestFileSuffixes
	}
	if spec.Name != LanguageJava {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotSupported, fmt.Sprintf("language %q has no runtime grammar", spec.Name)),
			errors.CtxLanguage, spec.Name)
	}
	spec.Enabled = true

	gl := &GrammarLoader{
		languages: map[string]*sitter.Language{
			LanguageJava: sitter.NewLanguage(tree_sitter_java.Language()),
		},
		spec: spec,
	}
	return gl, nil
}

// Language returns the loaded grammar for id.
func (gl *GrammarLoader) Language(id string) (*sitter.Language, error) {
	lang := gl.languages[id]
	if lang == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotSupported, "grammar not loaded"),
			errors.CtxLanguage, id)
	}
	return lang, nil
}

func (gl *GrammarLoader) Spec() LanguageSpec { return gl.spec }

func (gl *GrammarLoader) SupportedExtensions() []string {
	set := make(map[string]bool)
	for _, ext := range gl.spec.Extensions {
		set[strings.ToLower(ext)] = true
	}
	extensions := make([]string, 0, len(set))
	for ext := range set {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

func (gl *GrammarLoader) SupportedTestFileSuffixes() []string {
	suffixes := make([]string, len(gl.spec.TestFileSuffixes))
	copy(suffixes, gl.spec.TestFileSuffixes)
	sort.Strings(suffixes)
	return suffixes
}
