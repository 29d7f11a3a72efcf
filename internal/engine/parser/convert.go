package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"classmetrics/internal/engine/ast"
)

// converter lowers a tree-sitter-java concrete syntax tree into the engine's
// AST. Punctuation and comments other than doc comments are dropped; every
// kept node carries its source text and span.
type converter struct {
	source string
}

func newConverter(source []byte) *converter {
	return &converter{source: string(source)}
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return c.source[n.StartByte():n.EndByte()]
}

func (c *converter) newNode(kind ast.Kind, n *sitter.Node) *ast.Node {
	out := &ast.Node{Kind: kind}
	if n != nil {
		out.Span = ast.Span{
			StartLine: int(n.StartPosition().Row) + 1,
			EndLine:   int(n.EndPosition().Row) + 1,
			StartByte: int(n.StartByte()),
			EndByte:   int(n.EndByte()),
		}
		out.Text = c.text(n)
	}
	return out
}

func field(n *sitter.Node, name string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

func fieldChildren(n *sitter.Node, name string) []sitter.Node {
	cursor := n.Walk()
	defer cursor.Close()
	return n.ChildrenByFieldName(name, cursor)
}

func isComment(n *sitter.Node) bool {
	k := n.Kind()
	return k == "line_comment" || k == "block_comment" || k == "comment"
}

// named returns the named, non-comment children in source order.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() || isComment(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func childOfKind(n *sitter.Node, kinds ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

func hasToken(n *sitter.Node, token string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

func (c *converter) program(root *sitter.Node) *ast.Node {
	cu := c.newNode(ast.KindCompilationUnit, root)
	var doc *ast.Node
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		if isComment(child) {
			doc = c.javadoc(child, doc)
			continue
		}
		if !child.IsNamed() {
			continue
		}
		switch child.Kind() {
		case "package_declaration":
			pkg := c.newNode(ast.KindPackage, child)
			if id := childOfKind(child, "scoped_identifier", "identifier"); id != nil {
				pkg.Name = c.text(id)
			}
			cu.Add(pkg)
		case "import_declaration":
			cu.Add(c.importDecl(child))
		default:
			cu.Add(c.member(child, doc))
		}
		doc = nil
	}
	return cu
}

// javadoc turns a /** comment into a doc node and forgets any earlier one.
func (c *converter) javadoc(comment *sitter.Node, pending *ast.Node) *ast.Node {
	if comment.Kind() == "block_comment" && strings.HasPrefix(c.text(comment), "/**") {
		return c.newNode(ast.KindJavadoc, comment)
	}
	return pending
}

func (c *converter) importDecl(n *sitter.Node) *ast.Node {
	imp := c.newNode(ast.KindImport, n)
	if id := childOfKind(n, "scoped_identifier", "identifier"); id != nil {
		imp.Name = c.text(id)
	}
	if childOfKind(n, "asterisk") != nil || hasToken(n, "*") {
		imp.Name += ".*"
	}
	if hasToken(n, "static") {
		imp.Modifiers |= ast.ModStatic
	}
	return imp
}

func (c *converter) attachDoc(out, doc *ast.Node) {
	if doc == nil {
		return
	}
	out.Javadoc = doc
	out.Add(doc)
}

// modifiers folds the modifier keywords of n into out and adds its
// annotations as children.
func (c *converter) modifiers(n *sitter.Node, out *ast.Node) {
	mods := childOfKind(n, "modifiers")
	if mods == nil {
		return
	}
	for i := uint(0); i < mods.ChildCount(); i++ {
		child := mods.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "marker_annotation", "annotation":
			out.Add(c.convert(child))
		default:
			if flag, ok := ast.ModifierFor(c.text(child)); ok {
				out.Modifiers |= flag
			}
		}
	}
}

// member converts one declaration found in a class body or at top level.
func (c *converter) member(n *sitter.Node, doc *ast.Node) *ast.Node {
	switch n.Kind() {
	case "class_declaration", "interface_declaration", "record_declaration":
		return c.typeDecl(n, ast.KindTypeDeclaration, doc)
	case "enum_declaration":
		return c.typeDecl(n, ast.KindEnumDeclaration, doc)
	case "annotation_type_declaration":
		return c.typeDecl(n, ast.KindAnnotationTypeDeclaration, doc)
	case "field_declaration", "constant_declaration":
		return c.variables(ast.KindFieldDeclaration, n, doc)
	case "method_declaration", "constructor_declaration", "compact_constructor_declaration":
		return c.method(n, doc)
	case "static_initializer":
		init := c.newNode(ast.KindInitializer, n)
		init.Modifiers = ast.ModStatic
		init.Body = c.convert(childOfKind(n, "block"))
		init.Add(init.Body)
		return init
	case "block":
		init := c.newNode(ast.KindInitializer, n)
		init.Body = c.convert(n)
		init.Add(init.Body)
		return init
	case "annotation_type_element_declaration":
		m := c.newNode(ast.KindAnnotationTypeMember, n)
		c.modifiers(n, m)
		m.Name = c.text(field(n, "name"))
		m.Type = c.convert(field(n, "type"))
		m.Add(m.Type)
		if v := field(n, "value"); v != nil {
			m.Add(c.convert(v))
		}
		return m
	}
	return c.convert(n)
}

func (c *converter) members(body *sitter.Node, out *ast.Node) {
	if body == nil {
		return
	}
	var doc *ast.Node
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child == nil {
			continue
		}
		if isComment(child) {
			doc = c.javadoc(child, doc)
			continue
		}
		if !child.IsNamed() {
			continue
		}
		switch child.Kind() {
		case "enum_constant":
			out.Add(c.enumConstant(child, doc))
		case "enum_body_declarations":
			c.members(child, out)
		default:
			out.Add(c.member(child, doc))
		}
		doc = nil
	}
}

func (c *converter) typeDecl(n *sitter.Node, kind ast.Kind, doc *ast.Node) *ast.Node {
	out := c.newNode(kind, n)
	c.attachDoc(out, doc)
	out.Name = c.text(field(n, "name"))
	c.modifiers(n, out)
	if tp := field(n, "type_parameters"); tp != nil {
		out.Add(c.typeParameters(tp)...)
	}
	switch n.Kind() {
	case "interface_declaration":
		out.Interface = true
		out.Interfaces = c.typeList(childOfKind(n, "extends_interfaces"))
	case "class_declaration":
		if sc := childOfKind(n, "superclass"); sc != nil {
			if ts := named(sc); len(ts) > 0 {
				out.Superclass = c.convert(ts[0])
				out.Add(out.Superclass)
			}
		}
		out.Interfaces = c.typeList(childOfKind(n, "super_interfaces"))
	case "record_declaration":
		out.Interfaces = c.typeList(childOfKind(n, "super_interfaces"))
		for _, p := range named(field(n, "parameters")) {
			out.Add(c.recordComponent(p))
		}
	case "enum_declaration":
		out.Interfaces = c.typeList(childOfKind(n, "super_interfaces"))
	}
	out.Add(out.Interfaces...)
	c.members(field(n, "body"), out)
	return out
}

// recordComponent becomes the private final field the component declares.
func (c *converter) recordComponent(p *sitter.Node) *ast.Node {
	f := c.newNode(ast.KindFieldDeclaration, p)
	f.Modifiers = ast.ModPrivate | ast.ModFinal
	f.Type = c.convert(field(p, "type"))
	f.Add(f.Type)
	frag := c.newNode(ast.KindVariableDeclarationFragment, field(p, "name"))
	frag.Name = frag.Text
	frag.Add(c.simpleName(field(p, "name")))
	f.Fragments = []*ast.Node{frag}
	f.Add(frag)
	return f
}

func (c *converter) typeList(n *sitter.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	if list := childOfKind(n, "type_list"); list != nil {
		n = list
	}
	var out []*ast.Node
	for _, t := range named(n) {
		out = append(out, c.convert(t))
	}
	return out
}

func (c *converter) typeParameters(n *sitter.Node) []*ast.Node {
	var out []*ast.Node
	for _, tp := range named(n) {
		p := c.newNode(ast.KindTypeParameter, tp)
		for _, part := range named(tp) {
			switch part.Kind() {
			case "identifier", "type_identifier":
				p.Name = c.text(part)
			case "type_bound":
				for _, b := range named(part) {
					p.TypeArgs = append(p.TypeArgs, c.convert(b))
				}
				p.Add(p.TypeArgs...)
			}
		}
		out = append(out, p)
	}
	return out
}

func (c *converter) enumConstant(n *sitter.Node, doc *ast.Node) *ast.Node {
	out := c.newNode(ast.KindEnumConstant, n)
	c.attachDoc(out, doc)
	c.modifiers(n, out)
	out.Name = c.text(field(n, "name"))
	out.Args = c.arguments(field(n, "arguments"))
	out.Add(out.Args...)
	if body := field(n, "body"); body != nil {
		anon := c.newNode(ast.KindAnonymousClass, body)
		c.members(body, anon)
		out.Add(anon)
	}
	return out
}

func (c *converter) method(n *sitter.Node, doc *ast.Node) *ast.Node {
	out := c.newNode(ast.KindMethodDeclaration, n)
	c.attachDoc(out, doc)
	c.modifiers(n, out)
	out.Constructor = n.Kind() != "method_declaration"
	out.Name = c.text(field(n, "name"))
	if tp := field(n, "type_parameters"); tp != nil {
		out.Add(c.typeParameters(tp)...)
	}
	if t := field(n, "type"); t != nil && !out.Constructor {
		out.Type = c.convert(t)
		out.Add(out.Type)
	}
	for _, p := range named(field(n, "parameters")) {
		if p.Kind() == "receiver_parameter" {
			continue
		}
		out.Params = append(out.Params, c.parameter(p))
	}
	out.Add(out.Params...)
	if throws := childOfKind(n, "throws"); throws != nil {
		for _, t := range named(throws) {
			out.Add(c.convert(t))
		}
	}
	if body := field(n, "body"); body != nil {
		out.Body = c.block(body)
		out.Add(out.Body)
	}
	return out
}

// parameter converts formal, spread and catch parameters.
func (c *converter) parameter(p *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindSingleVariableDeclaration, p)
	c.modifiers(p, out)
	var nameNode *sitter.Node
	switch p.Kind() {
	case "spread_parameter":
		out.Varargs = true
		for _, part := range named(p) {
			switch part.Kind() {
			case "modifiers":
			case "variable_declarator":
				nameNode = field(part, "name")
			default:
				if out.Type == nil {
					out.Type = c.convert(part)
				}
			}
		}
	case "catch_formal_parameter":
		if ct := childOfKind(p, "catch_type"); ct != nil {
			types := named(ct)
			if len(types) == 1 {
				out.Type = c.convert(types[0])
			} else {
				union := c.newNode(ast.KindUnionType, ct)
				for _, t := range types {
					union.TypeArgs = append(union.TypeArgs, c.convert(t))
				}
				union.Add(union.TypeArgs...)
				union.Name = union.Text
				out.Type = union
			}
		}
		nameNode = field(p, "name")
	default:
		out.Type = c.convert(field(p, "type"))
		nameNode = field(p, "name")
	}
	out.Add(out.Type)
	out.Name = c.text(nameNode)
	out.Add(c.simpleName(nameNode))
	return out
}

func (c *converter) simpleName(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	out := c.newNode(ast.KindSimpleName, n)
	out.Name = out.Text
	return out
}

// variables converts field, constant and local variable declarations.
func (c *converter) variables(kind ast.Kind, n *sitter.Node, doc *ast.Node) *ast.Node {
	out := c.newNode(kind, n)
	c.attachDoc(out, doc)
	c.modifiers(n, out)
	out.Type = c.convert(field(n, "type"))
	out.Add(out.Type)
	for _, d := range named(n) {
		if d.Kind() != "variable_declarator" {
			continue
		}
		frag := c.fragment(d)
		out.Fragments = append(out.Fragments, frag)
		out.Add(frag)
	}
	return out
}

func (c *converter) fragment(d *sitter.Node) *ast.Node {
	frag := c.newNode(ast.KindVariableDeclarationFragment, d)
	name := field(d, "name")
	frag.Name = c.text(name)
	frag.Add(c.simpleName(name))
	if v := field(d, "value"); v != nil {
		frag.Expr = c.convert(v)
		frag.Add(frag.Expr)
	}
	return frag
}

func (c *converter) block(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindBlock, n)
	var doc *ast.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if isComment(child) {
			doc = c.javadoc(child, doc)
			continue
		}
		if !child.IsNamed() {
			continue
		}
		switch child.Kind() {
		case "class_declaration", "interface_declaration", "record_declaration", "enum_declaration":
			out.Add(c.member(child, doc))
		default:
			out.Add(c.convert(child))
		}
		doc = nil
	}
	return out
}

func (c *converter) arguments(n *sitter.Node) []*ast.Node {
	var out []*ast.Node
	for _, a := range named(n) {
		out = append(out, c.convert(a))
	}
	return out
}

// unparen strips the parentheses every guard is written in.
func (c *converter) unparen(n *sitter.Node) *ast.Node {
	if n != nil && n.Kind() == "parenthesized_expression" {
		if inner := named(n); len(inner) == 1 {
			return c.convert(inner[0])
		}
	}
	return c.convert(n)
}

// convert dispatches on the concrete node kind. Unknown syntax keeps its
// named children under a KindOther node.
func (c *converter) convert(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	// statements
	case "block", "constructor_body":
		return c.block(n)
	case "local_variable_declaration":
		return c.variables(ast.KindVariableDeclarationStatement, n, nil)
	case "expression_statement":
		out := c.newNode(ast.KindExpressionStatement, n)
		if inner := named(n); len(inner) > 0 {
			out.Expr = c.convert(inner[0])
			out.Add(out.Expr)
		}
		return out
	case "if_statement":
		out := c.newNode(ast.KindIf, n)
		out.Expr = c.unparen(field(n, "condition"))
		out.Body = c.convert(field(n, "consequence"))
		out.Else = c.convert(field(n, "alternative"))
		out.Add(out.Expr, out.Body, out.Else)
		return out
	case "while_statement":
		out := c.newNode(ast.KindWhile, n)
		out.Expr = c.unparen(field(n, "condition"))
		out.Body = c.convert(field(n, "body"))
		out.Add(out.Expr, out.Body)
		return out
	case "do_statement":
		out := c.newNode(ast.KindDo, n)
		out.Body = c.convert(field(n, "body"))
		out.Expr = c.unparen(field(n, "condition"))
		out.Add(out.Body, out.Expr)
		return out
	case "for_statement":
		return c.forStatement(n)
	case "enhanced_for_statement":
		out := c.newNode(ast.KindEnhancedFor, n)
		name := field(n, "name")
		v := c.newNode(ast.KindSingleVariableDeclaration, name)
		c.modifiers(n, v)
		v.Type = c.convert(field(n, "type"))
		v.Name = c.text(name)
		v.Add(v.Type, c.simpleName(name))
		out.Params = []*ast.Node{v}
		out.Expr = c.convert(field(n, "value"))
		out.Body = c.convert(field(n, "body"))
		out.Add(v, out.Expr, out.Body)
		return out
	case "switch_expression", "switch_statement":
		return c.switchNode(n)
	case "try_statement", "try_with_resources_statement":
		return c.tryStatement(n)
	case "return_statement", "throw_statement", "yield_statement":
		kind := map[string]ast.Kind{
			"return_statement": ast.KindReturn,
			"throw_statement":  ast.KindThrow,
			"yield_statement":  ast.KindYield,
		}[n.Kind()]
		out := c.newNode(kind, n)
		if inner := named(n); len(inner) > 0 {
			out.Expr = c.convert(inner[0])
			out.Add(out.Expr)
		}
		return out
	case "break_statement":
		return c.newNode(ast.KindBreak, n)
	case "continue_statement":
		return c.newNode(ast.KindContinue, n)
	case "labeled_statement":
		out := c.newNode(ast.KindLabeled, n)
		if parts := named(n); len(parts) > 0 {
			out.Name = c.text(parts[0])
			out.Body = c.convert(parts[len(parts)-1])
			out.Add(out.Body)
		}
		return out
	case "synchronized_statement":
		out := c.newNode(ast.KindSynchronized, n)
		out.Expr = c.unparen(childOfKind(n, "parenthesized_expression"))
		out.Body = c.convert(field(n, "body"))
		out.Add(out.Expr, out.Body)
		return out
	case "assert_statement":
		out := c.newNode(ast.KindAssert, n)
		out.Add(c.arguments(n)...)
		return out
	case "explicit_constructor_invocation":
		kind := ast.KindConstructorInvocation
		if ctor := field(n, "constructor"); ctor != nil && ctor.Kind() == "super" {
			kind = ast.KindSuperConstructorInvocation
		}
		out := c.newNode(kind, n)
		if obj := field(n, "object"); obj != nil {
			out.Expr = c.convert(obj)
			out.Add(out.Expr)
		}
		out.Args = c.arguments(field(n, "arguments"))
		out.Add(out.Args...)
		return out
	case "class_declaration", "interface_declaration", "record_declaration", "enum_declaration",
		"annotation_type_declaration":
		return c.member(n, nil)

	// expressions
	case "identifier":
		return c.simpleName(n)
	case "this":
		return c.newNode(ast.KindThis, n)
	case "parenthesized_expression":
		out := c.newNode(ast.KindParenthesized, n)
		if inner := named(n); len(inner) > 0 {
			out.Expr = c.convert(inner[0])
			out.Add(out.Expr)
		}
		return out
	case "binary_expression":
		out := c.newNode(ast.KindInfix, n)
		out.Operator = c.text(field(n, "operator"))
		out.Left = c.convert(field(n, "left"))
		out.Right = c.convert(field(n, "right"))
		out.Add(out.Left, out.Right)
		return out
	case "assignment_expression":
		out := c.newNode(ast.KindAssignment, n)
		out.Operator = c.text(field(n, "operator"))
		out.Left = c.convert(field(n, "left"))
		out.Right = c.convert(field(n, "right"))
		out.Add(out.Left, out.Right)
		return out
	case "unary_expression":
		out := c.newNode(ast.KindPrefix, n)
		out.Operator = c.text(field(n, "operator"))
		out.Expr = c.convert(field(n, "operand"))
		out.Add(out.Expr)
		return out
	case "update_expression":
		return c.update(n)
	case "ternary_expression":
		out := c.newNode(ast.KindConditional, n)
		out.Expr = c.convert(field(n, "condition"))
		out.Left = c.convert(field(n, "consequence"))
		out.Right = c.convert(field(n, "alternative"))
		out.Add(out.Expr, out.Left, out.Right)
		return out
	case "cast_expression":
		return c.cast(n)
	case "instanceof_expression":
		return c.instanceOf(n)
	case "lambda_expression":
		return c.lambda(n)
	case "method_invocation":
		return c.invocation(n)
	case "object_creation_expression":
		return c.creation(n)
	case "array_creation_expression":
		out := c.newNode(ast.KindArrayCreation, n)
		out.Type = c.convert(field(n, "type"))
		out.Add(out.Type)
		for _, part := range named(n) {
			switch part.Kind() {
			case "dimensions_expr":
				out.Add(c.arguments(part)...)
			case "array_initializer":
				out.Add(c.convert(part))
			}
		}
		return out
	case "array_initializer", "element_value_array_initializer":
		out := c.newNode(ast.KindArrayInitializer, n)
		out.Add(c.arguments(n)...)
		return out
	case "array_access":
		out := c.newNode(ast.KindArrayAccess, n)
		out.Expr = c.convert(field(n, "array"))
		out.Add(out.Expr, c.convert(field(n, "index")))
		return out
	case "field_access":
		return c.fieldAccess(n)
	case "method_reference":
		out := c.newNode(ast.KindMethodReference, n)
		out.Add(c.arguments(n)...)
		return out
	case "class_literal":
		out := c.newNode(ast.KindTypeLiteral, n)
		if inner := named(n); len(inner) > 0 {
			out.Type = c.convert(inner[0])
			out.Add(out.Type)
		}
		return out
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal",
		"decimal_floating_point_literal", "hex_floating_point_literal":
		return c.literal(ast.KindNumberLiteral, n)
	case "true", "false":
		return c.literal(ast.KindBooleanLiteral, n)
	case "character_literal":
		return c.literal(ast.KindCharacterLiteral, n)
	case "string_literal", "text_block":
		return c.literal(ast.KindStringLiteral, n)
	case "null_literal":
		return c.literal(ast.KindNullLiteral, n)

	// types
	case "type_identifier":
		out := c.newNode(ast.KindSimpleType, n)
		out.Name = out.Text
		return out
	case "scoped_type_identifier", "scoped_identifier":
		out := c.newNode(ast.KindQualifiedType, n)
		out.Name = strings.Join(strings.Fields(out.Text), "")
		return out
	case "generic_type":
		out := c.newNode(ast.KindParameterizedType, n)
		for _, part := range named(n) {
			if part.Kind() == "type_arguments" {
				for _, arg := range named(part) {
					out.TypeArgs = append(out.TypeArgs, c.convert(arg))
				}
				continue
			}
			if out.Type == nil {
				out.Type = c.convert(part)
			}
		}
		if out.Type != nil {
			out.Name = out.Type.Name
		}
		out.Add(out.Type)
		out.Add(out.TypeArgs...)
		return out
	case "array_type":
		out := c.newNode(ast.KindArrayType, n)
		out.Type = c.convert(field(n, "element"))
		out.Name = out.Text
		out.Add(out.Type)
		return out
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		out := c.newNode(ast.KindPrimitiveType, n)
		out.Name = out.Text
		return out
	case "wildcard":
		out := c.newNode(ast.KindWildcardType, n)
		for _, part := range named(n) {
			if part.Kind() != "annotation" && part.Kind() != "marker_annotation" {
				out.Type = c.convert(part)
			}
		}
		out.Name = out.Text
		out.Add(out.Type)
		return out
	case "annotated_type":
		parts := named(n)
		if len(parts) == 0 {
			return c.other(n)
		}
		return c.convert(parts[len(parts)-1])

	// annotations
	case "marker_annotation":
		out := c.newNode(ast.KindMarkerAnnotation, n)
		out.Name = c.text(field(n, "name"))
		return out
	case "annotation":
		kind := ast.KindSingleMemberAnnotation
		args := field(n, "arguments")
		if childOfKind(args, "element_value_pair") != nil {
			kind = ast.KindNormalAnnotation
		}
		out := c.newNode(kind, n)
		out.Name = c.text(field(n, "name"))
		out.Args = c.arguments(args)
		out.Add(out.Args...)
		return out
	}
	return c.other(n)
}

func (c *converter) other(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindOther, n)
	out.Name = n.Kind()
	for _, child := range named(n) {
		out.Add(c.convert(child))
	}
	return out
}

func (c *converter) literal(kind ast.Kind, n *sitter.Node) *ast.Node {
	out := c.newNode(kind, n)
	out.Name = out.Text
	return out
}

func (c *converter) forStatement(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindFor, n)
	for _, init := range fieldChildren(n, "init") {
		if init.Kind() == "local_variable_declaration" {
			out.Add(c.variables(ast.KindVariableDeclarationExpression, &init, nil))
			continue
		}
		out.Add(c.convert(&init))
	}
	if cond := field(n, "condition"); cond != nil {
		out.Expr = c.convert(cond)
		out.Add(out.Expr)
	}
	for _, upd := range fieldChildren(n, "update") {
		out.Add(c.convert(&upd))
	}
	out.Body = c.convert(field(n, "body"))
	out.Add(out.Body)
	return out
}

// switchNode flattens case groups and arrow rules into one body: each case
// label list becomes a SwitchCase followed by the statements it guards.
func (c *converter) switchNode(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindSwitch, n)
	out.Expr = c.unparen(field(n, "condition"))
	out.Add(out.Expr)
	for _, entry := range named(field(n, "body")) {
		for _, part := range named(entry) {
			if part.Kind() == "switch_label" {
				out.Add(c.switchLabel(part))
				continue
			}
			out.Add(c.convert(part))
		}
	}
	return out
}

func (c *converter) switchLabel(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindSwitchCase, n)
	out.Default = hasToken(n, "default")
	if !out.Default || hasToken(n, "case") {
		for _, label := range named(n) {
			out.Labels = append(out.Labels, c.convert(label))
		}
		out.Add(out.Labels...)
	}
	return out
}

func (c *converter) tryStatement(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindTry, n)
	if res := field(n, "resources"); res != nil {
		for _, r := range named(res) {
			out.Add(c.resource(r))
		}
	}
	out.Body = c.convert(field(n, "body"))
	out.Add(out.Body)
	for _, part := range named(n) {
		switch part.Kind() {
		case "catch_clause":
			catch := c.newNode(ast.KindCatch, part)
			if p := childOfKind(part, "catch_formal_parameter"); p != nil {
				catch.Params = []*ast.Node{c.parameter(p)}
				catch.Add(catch.Params[0])
			}
			catch.Body = c.convert(field(part, "body"))
			catch.Add(catch.Body)
			out.Add(catch)
		case "finally_clause":
			if b := childOfKind(part, "block"); b != nil {
				out.Add(c.convert(b))
			}
		}
	}
	return out
}

func (c *converter) resource(r *sitter.Node) *ast.Node {
	if field(r, "type") == nil {
		if inner := named(r); len(inner) > 0 {
			return c.convert(inner[0])
		}
		return c.other(r)
	}
	out := c.newNode(ast.KindVariableDeclarationExpression, r)
	c.modifiers(r, out)
	out.Type = c.convert(field(r, "type"))
	out.Add(out.Type)
	frag := c.newNode(ast.KindVariableDeclarationFragment, r)
	name := field(r, "name")
	frag.Name = c.text(name)
	frag.Add(c.simpleName(name))
	if v := field(r, "value"); v != nil {
		frag.Expr = c.convert(v)
		frag.Add(frag.Expr)
	}
	out.Fragments = []*ast.Node{frag}
	out.Add(frag)
	return out
}

func (c *converter) update(n *sitter.Node) *ast.Node {
	first := n.Child(0)
	kind := ast.KindPostfix
	if first != nil && !first.IsNamed() {
		kind = ast.KindPrefix
	}
	out := c.newNode(kind, n)
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.IsNamed() {
			out.Expr = c.convert(child)
		} else {
			out.Operator = child.Kind()
		}
	}
	out.Add(out.Expr)
	return out
}

func (c *converter) cast(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindCast, n)
	types := fieldChildren(n, "type")
	switch len(types) {
	case 0:
	case 1:
		out.Type = c.convert(&types[0])
	default:
		inter := c.newNode(ast.KindIntersectionType, nil)
		for i := range types {
			inter.TypeArgs = append(inter.TypeArgs, c.convert(&types[i]))
		}
		inter.Add(inter.TypeArgs...)
		out.Type = inter
	}
	out.Expr = c.convert(field(n, "value"))
	out.Add(out.Type, out.Expr)
	return out
}

func (c *converter) instanceOf(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindInstanceof, n)
	out.Left = c.convert(field(n, "left"))
	out.Add(out.Left)
	typ := field(n, "right")
	name := field(n, "name")
	if pattern := field(n, "pattern"); pattern != nil {
		if pattern.Kind() == "type_pattern" {
			for _, part := range named(pattern) {
				if part.Kind() == "identifier" {
					name = part
				} else if typ == nil {
					typ = part
				}
			}
		} else {
			out.Add(c.convert(pattern))
		}
	}
	out.Type = c.convert(typ)
	out.Add(out.Type)
	if name != nil {
		v := c.newNode(ast.KindSingleVariableDeclaration, name)
		v.Type = out.Type
		v.Name = c.text(name)
		v.Add(c.simpleName(name))
		out.Add(v)
	}
	return out
}

func (c *converter) lambda(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindLambda, n)
	params := field(n, "parameters")
	switch {
	case params == nil:
	case params.Kind() == "identifier":
		out.Params = []*ast.Node{c.inferredParam(params)}
	case params.Kind() == "inferred_parameters":
		for _, p := range named(params) {
			out.Params = append(out.Params, c.inferredParam(p))
		}
	default:
		for _, p := range named(params) {
			out.Params = append(out.Params, c.parameter(p))
		}
	}
	out.Add(out.Params...)
	out.Body = c.convert(field(n, "body"))
	out.Add(out.Body)
	return out
}

func (c *converter) inferredParam(id *sitter.Node) *ast.Node {
	v := c.newNode(ast.KindSingleVariableDeclaration, id)
	v.Name = v.Text
	v.Add(c.simpleName(id))
	return v
}

func (c *converter) invocation(n *sitter.Node) *ast.Node {
	obj := field(n, "object")
	kind := ast.KindMethodInvocation
	if obj != nil && obj.Kind() == "super" {
		kind = ast.KindSuperMethodInvocation
	}
	out := c.newNode(kind, n)
	out.Name = c.text(field(n, "name"))
	if obj != nil && kind == ast.KindMethodInvocation {
		out.Expr = c.convert(obj)
		out.Add(out.Expr)
	}
	if ta := field(n, "type_arguments"); ta != nil {
		for _, t := range named(ta) {
			out.TypeArgs = append(out.TypeArgs, c.convert(t))
		}
		out.Add(out.TypeArgs...)
	}
	out.Args = c.arguments(field(n, "arguments"))
	out.Add(out.Args...)
	return out
}

func (c *converter) creation(n *sitter.Node) *ast.Node {
	out := c.newNode(ast.KindClassInstanceCreation, n)
	if obj := field(n, "object"); obj != nil {
		out.Expr = c.convert(obj)
		out.Add(out.Expr)
	}
	out.Type = c.convert(field(n, "type"))
	out.Add(out.Type)
	if out.Type != nil {
		out.Name = out.Type.Name
	}
	out.Args = c.arguments(field(n, "arguments"))
	out.Add(out.Args...)
	if body := childOfKind(n, "class_body"); body != nil {
		anon := c.newNode(ast.KindAnonymousClass, body)
		c.members(body, anon)
		out.Add(anon)
	}
	return out
}

// fieldAccess keeps dotted identifier chains as qualified names, the way
// they read before resolution; any other receiver gives a field access.
func (c *converter) fieldAccess(n *sitter.Node) *ast.Node {
	obj := field(n, "object")
	name := field(n, "field")
	if obj != nil && obj.Kind() == "super" {
		out := c.newNode(ast.KindSuperFieldAccess, n)
		out.Name = c.text(name)
		out.Add(c.simpleName(name))
		return out
	}
	if parts, ok := c.identifierChain(n); ok {
		out := c.newNode(ast.KindQualifiedName, n)
		segments := make([]string, 0, len(parts))
		for _, p := range parts {
			out.Add(c.simpleName(p))
			segments = append(segments, c.text(p))
		}
		out.Name = strings.Join(segments, ".")
		return out
	}
	out := c.newNode(ast.KindFieldAccess, n)
	out.Name = c.text(name)
	out.Expr = c.convert(obj)
	out.Add(out.Expr, c.simpleName(name))
	return out
}

func (c *converter) identifierChain(n *sitter.Node) ([]*sitter.Node, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Kind() {
	case "identifier":
		return []*sitter.Node{n}, true
	case "field_access":
		head, ok := c.identifierChain(field(n, "object"))
		if !ok {
			return nil, false
		}
		name := field(n, "field")
		if name == nil || name.Kind() != "identifier" {
			return nil, false
		}
		return append(head, name), true
	}
	return nil, false
}
