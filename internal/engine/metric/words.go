package metric

import (
	"regexp"
	"strings"

	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

var identifierPattern = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extends": {}, "final": {},
	"finally": {}, "float": {}, "for": {}, "goto": {}, "if": {}, "implements": {},
	"import": {}, "instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {}, "return": {},
	"short": {}, "static": {}, "strictfp": {}, "super": {}, "switch": {}, "synchronized": {},
	"this": {}, "throw": {}, "throws": {}, "transient": {}, "try": {}, "void": {},
	"volatile": {}, "while": {}, "true": {}, "false": {}, "null": {}, "var": {},
	"record": {}, "yield": {}, "sealed": {}, "permits": {},
}

// uniqueWords counts the distinct non-keyword identifiers in the scope's own
// source. Nested types are cut out of the enclosing text.
type uniqueWords struct {
	Base
	source string
	opened bool
	// nestedKinds are the node kinds whose text belongs to another scope.
	nestedKinds func(ast.Kind) bool
}

func newUniqueWords(Env) *uniqueWords { return &uniqueWords{} }

func (m *uniqueWords) Visit(n *ast.Node) {
	if !m.opened {
		if n.Kind.IsClassLike() || n.Kind.IsMethodLike() {
			m.opened = true
			m.source = stripComments(n.Text)
			if n.Kind.IsClassLike() {
				m.nestedKinds = ast.Kind.IsClassLike
			} else {
				m.nestedKinds = func(k ast.Kind) bool { return k == ast.KindTypeDeclaration }
			}
		}
		return
	}
	if m.nestedKinds(n.Kind) && n.Text != "" {
		m.source = strings.Replace(m.source, stripComments(n.Text), "", 1)
	}
}

func (m *uniqueWords) count() int {
	words := make(map[string]struct{})
	for _, w := range identifierPattern.FindAllString(m.source, -1) {
		if _, kw := javaKeywords[w]; kw {
			continue
		}
		words[w] = struct{}{}
	}
	return len(words)
}

func (m *uniqueWords) FinalizeClass(r *record.ClassRecord)   { r.UniqueWords = m.count() }
func (m *uniqueWords) FinalizeMethod(r *record.MethodRecord) { r.UniqueWords = m.count() }

// loc counts the non-blank, non-comment lines of the scope declaration.
type loc struct {
	Base
	lines  int
	opened bool
}

func newLOC(Env) *loc { return &loc{} }

func (m *loc) Visit(n *ast.Node) {
	if m.opened || !(n.Kind.IsClassLike() || n.Kind.IsMethodLike()) {
		return
	}
	m.opened = true
	m.lines = countLines(n.Text)
}

func (m *loc) FinalizeClass(r *record.ClassRecord)   { r.LOC = m.lines }
func (m *loc) FinalizeMethod(r *record.MethodRecord) { r.LOC = m.lines }

// countLines counts lines that keep some code once comments are removed.
func countLines(text string) int {
	n := 0
	for _, line := range strings.Split(stripComments(text), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// stripComments blanks out // and /* */ comments outside string, text block
// and char literals. Newlines are kept so line structure survives.
func stripComments(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	const (
		code = iota
		lineComment
		blockComment
		stringLit
		textBlock
		charLit
	)
	state := code
	for i := 0; i < len(text); i++ {
		c := text[i]
		var next byte
		if i+1 < len(text) {
			next = text[i+1]
		}
		switch state {
		case code:
			switch {
			case c == '/' && next == '/':
				state = lineComment
				i++
				continue
			case c == '/' && next == '*':
				state = blockComment
				i++
				continue
			case strings.HasPrefix(text[i:], `"""`):
				state = textBlock
				sb.WriteString(`"""`)
				i += 2
				continue
			case c == '"':
				state = stringLit
			case c == '\'':
				state = charLit
			}
			sb.WriteByte(c)
		case lineComment:
			if c == '\n' {
				state = code
				sb.WriteByte(c)
			}
		case blockComment:
			if c == '*' && next == '/' {
				state = code
				i++
				continue
			}
			if c == '\n' {
				sb.WriteByte(c)
			}
		case textBlock:
			switch {
			case c == '\\' && next != 0:
				sb.WriteByte(c)
				sb.WriteByte(next)
				i++
			case strings.HasPrefix(text[i:], `"""`):
				state = code
				sb.WriteString(`"""`)
				i += 2
			default:
				sb.WriteByte(c)
			}
		case stringLit, charLit:
			sb.WriteByte(c)
			switch {
			case c == '\\' && next != 0:
				sb.WriteByte(next)
				i++
			case c == '"' && state == stringLit, c == '\'' && state == charLit, c == '\n':
				state = code
			}
		}
	}
	return sb.String()
}
