// Package parser is the Java front end: it parses source with tree-sitter,
// lowers the concrete tree into an ast.Unit and attaches a syntactic
// binding resolver.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"classmetrics/internal/core/errors"
	"classmetrics/internal/engine/ast"
)

const (
	BindingsSyntactic = "syntactic"
	BindingsNone      = "none"
)

type Options struct {
	// StrictParse turns recovered syntax errors into PARSE_ERROR.
	StrictParse bool
	// Bindings selects the resolver: BindingsSyntactic or BindingsNone.
	Bindings     string
	MaxFileBytes int64
}

type JavaFrontEnd struct {
	loader     *GrammarLoader
	pool       *ParserPool
	opts       Options
	extensions map[string]bool
	suffixes   []string
}

func NewJavaFrontEnd(loader *GrammarLoader, opts Options) (*JavaFrontEnd, error) {
	lang, err := loader.Language(LanguageJava)
	if err != nil {
		return nil, err
	}
	switch opts.Bindings {
	case "":
		opts.Bindings = BindingsSyntactic
	case BindingsSyntactic, BindingsNone:
	default:
		return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("unknown bindings mode %q", opts.Bindings))
	}
	f := &JavaFrontEnd{
		loader:     loader,
		pool:       NewParserPool(lang),
		opts:       opts,
		extensions: make(map[string]bool),
		suffixes:   loader.SupportedTestFileSuffixes(),
	}
	for _, ext := range loader.SupportedExtensions() {
		f.extensions[ext] = true
	}
	return f, nil
}

// Parse produces the unit for one file. Syntax errors are recovered unless
// StrictParse is set; the unit then reports HasErrors.
func (f *JavaFrontEnd) Parse(path string, content []byte) (*ast.Unit, error) {
	if !f.IsSupportedPath(path) {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported language"), errors.CtxPath, path)
	}
	if f.opts.MaxFileBytes > 0 && int64(len(content)) > f.opts.MaxFileBytes {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, fmt.Sprintf("file exceeds %d bytes", f.opts.MaxFileBytes)),
			errors.CtxPath, path)
	}

	sp := f.pool.Get()
	defer f.pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeParse, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() && f.opts.StrictParse {
		return nil, errors.AddContext(errors.New(errors.CodeParse, "source has syntax errors"), errors.CtxPath, path)
	}

	unit := &ast.Unit{
		Path:      path,
		Source:    content,
		Root:      newConverter(content).program(root),
		HasErrors: root.HasError(),
	}
	if f.opts.Bindings == BindingsNone {
		unit.Resolver = ast.NoBindings
	} else {
		unit.Resolver = resolveBindings(unit.Root)
	}
	return unit, nil
}

func (f *JavaFrontEnd) IsSupportedPath(path string) bool {
	return f.extensions[strings.ToLower(filepath.Ext(path))]
}

func (f *JavaFrontEnd) IsTestFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range f.suffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func (f *JavaFrontEnd) SupportedExtensions() []string {
	return f.loader.SupportedExtensions()
}

// Leased reports parsers currently in use by concurrent Parse calls.
func (f *JavaFrontEnd) Leased() int { return f.pool.Leased() }
