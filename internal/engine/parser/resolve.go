package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"classmetrics/internal/engine/ast"
)

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// javaLang lists the public java.lang types, nested ones in dotted form.
// They are visible without an import.
var javaLang = setOf(
	// interfaces
	"Appendable", "AutoCloseable", "CharSequence", "Cloneable", "Comparable",
	"Iterable", "ProcessHandle", "ProcessHandle.Info", "Readable", "Runnable",
	"StackWalker.StackFrame", "System.Logger", "Thread.Builder",
	"Thread.Builder.OfPlatform", "Thread.Builder.OfVirtual",
	"Thread.UncaughtExceptionHandler",

	// classes
	"Boolean", "Byte", "Character", "Character.Subset", "Character.UnicodeBlock",
	"Class", "ClassLoader", "ClassValue", "Compiler", "Double", "Enum",
	"Enum.EnumDesc", "Float", "InheritableThreadLocal", "Integer", "Long", "Math",
	"Module", "ModuleLayer", "ModuleLayer.Controller", "Number", "Object",
	"Package", "Process", "ProcessBuilder", "ProcessBuilder.Redirect", "Record",
	"Runtime", "Runtime.Version", "RuntimePermission", "ScopedValue",
	"SecurityManager", "Short", "StackTraceElement", "StackWalker", "StrictMath",
	"String", "StringBuffer", "StringBuilder", "StringTemplate", "System",
	"System.LoggerFinder", "Thread", "ThreadGroup", "ThreadLocal", "Throwable",
	"Void",

	// enums
	"Character.UnicodeScript", "ProcessBuilder.Redirect.Type",
	"StackWalker.Option", "System.Logger.Level", "Thread.State",

	// exceptions
	"ArithmeticException", "ArrayIndexOutOfBoundsException",
	"ArrayStoreException", "ClassCastException", "ClassNotFoundException",
	"CloneNotSupportedException", "EnumConstantNotPresentException", "Exception",
	"IllegalAccessException", "IllegalArgumentException",
	"IllegalCallerException", "IllegalMonitorStateException",
	"IllegalStateException", "IllegalThreadStateException",
	"IndexOutOfBoundsException", "InstantiationException",
	"InterruptedException", "LayerInstantiationException", "MatchException",
	"NegativeArraySizeException", "NoSuchFieldException",
	"NoSuchMethodException", "NullPointerException", "NumberFormatException",
	"ReflectiveOperationException", "RuntimeException", "SecurityException",
	"StringIndexOutOfBoundsException", "TypeNotPresentException",
	"UnsupportedOperationException", "WrongThreadException",

	// errors
	"AbstractMethodError", "AssertionError", "BootstrapMethodError",
	"ClassCircularityError", "ClassFormatError", "Error",
	"ExceptionInInitializerError", "IllegalAccessError",
	"IncompatibleClassChangeError", "InstantiationError", "InternalError",
	"LinkageError", "NoClassDefFoundError", "NoSuchFieldError",
	"NoSuchMethodError", "OutOfMemoryError", "StackOverflowError", "ThreadDeath",
	"UnknownError", "UnsatisfiedLinkError", "UnsupportedClassVersionError",
	"VerifyError", "VirtualMachineError",

	// annotations
	"Deprecated", "FunctionalInterface", "Override", "SafeVarargs",
	"SuppressWarnings",
)

func setOf(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// javaLangType binds a simple or dotted java.lang name.
func javaLangType(name string) *ast.TypeBinding {
	return &ast.TypeBinding{
		QualifiedName: "java.lang." + name,
		BinaryName:    "java.lang." + strings.ReplaceAll(name, ".", "$"),
	}
}

var comparisonOperators = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true, "&&": true, "||": true,
}

// typeInfo is a type declared in the unit being resolved.
type typeInfo struct {
	binding    *ast.TypeBinding
	node       *ast.Node
	outer      *typeInfo
	body       *ast.Node            // enclosing method, initializer or lambda of a local class
	fields     map[string]*ast.Node // declared type; nil for enum constants
	methods    map[string][]*ast.Node
	typeParams map[string]bool
}

// bindingResolver derives bindings from one compilation unit alone: its
// package, its imports, the types it declares and the java.lang types.
// References it cannot place stay unresolved and metrics fall back to syntax.
type bindingResolver struct {
	table    *ast.BindingTable
	pkg      string
	imports  map[string]string
	wildcard bool

	infos    []*typeInfo
	bySimple map[string]*typeInfo
	byQName  map[string]*typeInfo
	byNode   map[*ast.Node]*typeInfo
	decls    map[*ast.Node]*ast.MethodBinding
	// locals holds the local classes of each method, initializer or lambda
	// body by simple name.
	locals   map[*ast.Node]map[string]*typeInfo
	ordinals map[string]int

	class   *typeInfo
	bodies  []*ast.Node
	vars    []map[string]*ast.TypeBinding
	tparams []map[string]bool
}

// resolveBindings builds the binding table for a converted compilation unit.
func resolveBindings(root *ast.Node) *ast.BindingTable {
	r := &bindingResolver{
		table:    ast.NewBindingTable(),
		imports:  make(map[string]string),
		bySimple: make(map[string]*typeInfo),
		byQName:  make(map[string]*typeInfo),
		byNode:   make(map[*ast.Node]*typeInfo),
		decls:    make(map[*ast.Node]*ast.MethodBinding),
		locals:   make(map[*ast.Node]map[string]*typeInfo),
		ordinals: make(map[string]int),
	}
	if root == nil {
		return r.table
	}
	r.header(root)
	r.collect(root, nil, nil)
	for _, info := range r.infos {
		r.complete(info)
	}
	r.class = nil
	r.walk(root)
	return r.table
}

func (r *bindingResolver) header(root *ast.Node) {
	for _, c := range root.Children {
		switch c.Kind {
		case ast.KindPackage:
			r.pkg = c.Name
		case ast.KindImport:
			switch {
			case strings.HasSuffix(c.Name, ".*"):
				if !c.Modifiers.Has(ast.ModStatic) {
					r.wildcard = true
				}
			case c.Modifiers.Has(ast.ModStatic):
			default:
				r.imports[lastSegment(c.Name)] = c.Name
			}
		}
	}
}

// collect declares every type of the unit. body is the innermost method,
// initializer or lambda enclosing n inside the current type, if any.
func (r *bindingResolver) collect(n *ast.Node, outer *typeInfo, body *ast.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case ast.KindTypeDeclaration, ast.KindEnumDeclaration, ast.KindAnnotationTypeDeclaration:
			r.collect(c, r.declare(c, outer, body), nil)
		case ast.KindAnonymousClass:
			r.collect(c, r.declareAnonymous(c, outer), nil)
		case ast.KindMethodDeclaration, ast.KindInitializer, ast.KindLambda:
			r.collect(c, outer, c)
		default:
			r.collect(c, outer, body)
		}
	}
}

func (r *bindingResolver) declare(n *ast.Node, outer *typeInfo, body *ast.Node) *typeInfo {
	if body != nil && outer != nil && outer.binding.QualifiedName != "" {
		return r.declareLocal(n, outer, body)
	}
	qname, bname := n.Name, n.Name
	switch {
	case outer != nil && outer.binding.QualifiedName != "":
		qname = outer.binding.QualifiedName + "." + n.Name
		bname = outer.binding.BinaryName + "$" + n.Name
	case outer == nil && r.pkg != "":
		qname = r.pkg + "." + n.Name
		bname = qname
	}
	info := newTypeInfo(n, outer, &ast.TypeBinding{QualifiedName: qname, BinaryName: bname})
	r.register(info)
	r.byQName[qname] = info
	if _, taken := r.bySimple[n.Name]; !taken {
		r.bySimple[n.Name] = info
	}
	return info
}

// declareLocal names a class declared inside a body the way javac does:
// Outer$1Helper, Outer$2Helper for successive local classes named Helper.
// Local classes are only visible from their body.
func (r *bindingResolver) declareLocal(n *ast.Node, outer *typeInfo, body *ast.Node) *typeInfo {
	key := outer.binding.BinaryName + "$" + n.Name
	r.ordinals[key]++
	local := strconv.Itoa(r.ordinals[key]) + n.Name

	info := newTypeInfo(n, outer, &ast.TypeBinding{
		QualifiedName: outer.binding.QualifiedName + "." + local,
		BinaryName:    outer.binding.BinaryName + "$" + local,
	})
	info.body = body
	r.register(info)
	r.byQName[info.binding.QualifiedName] = info
	if r.locals[body] == nil {
		r.locals[body] = make(map[string]*typeInfo)
	}
	if _, taken := r.locals[body][n.Name]; !taken {
		r.locals[body][n.Name] = info
	}
	return info
}

func (r *bindingResolver) declareAnonymous(n *ast.Node, outer *typeInfo) *typeInfo {
	info := newTypeInfo(n, outer, &ast.TypeBinding{})
	r.register(info)
	return info
}

func (r *bindingResolver) register(info *typeInfo) {
	r.infos = append(r.infos, info)
	r.byNode[info.node] = info
}

func newTypeInfo(n *ast.Node, outer *typeInfo, b *ast.TypeBinding) *typeInfo {
	info := &typeInfo{
		binding:    b,
		node:       n,
		outer:      outer,
		fields:     make(map[string]*ast.Node),
		methods:    make(map[string][]*ast.Node),
		typeParams: make(map[string]bool),
	}
	for _, m := range n.Children {
		switch m.Kind {
		case ast.KindFieldDeclaration:
			for _, f := range m.Fragments {
				info.fields[f.Name] = m.Type
				b.DeclaredFields = append(b.DeclaredFields, f.Name)
			}
		case ast.KindEnumConstant:
			info.fields[m.Name] = nil
			b.DeclaredFields = append(b.DeclaredFields, m.Name)
		case ast.KindMethodDeclaration:
			info.methods[m.Name] = append(info.methods[m.Name], m)
		case ast.KindTypeParameter:
			info.typeParams[m.Name] = true
		}
	}
	return info
}

// complete resolves supertypes and member signatures once every type of the
// unit is known.
func (r *bindingResolver) complete(info *typeInfo) {
	r.class = info
	if info.node.Superclass != nil {
		info.binding.Superclass = r.typeOf(info.node.Superclass)
	}
	for _, i := range info.node.Interfaces {
		if b := r.typeOf(i); b != nil {
			info.binding.Interfaces = append(info.binding.Interfaces, b)
		}
	}
	for _, decls := range info.methods {
		for _, d := range decls {
			r.pushTypeParams(d)
			r.decls[d] = r.declBinding(info, d)
			r.popTypeParams()
		}
	}
}

func (r *bindingResolver) declBinding(info *typeInfo, decl *ast.Node) *ast.MethodBinding {
	params := make([]*ast.TypeBinding, 0, len(decl.Params))
	for _, p := range decl.Params {
		t := r.typeOf(p.Type)
		if t == nil {
			t = &ast.TypeBinding{QualifiedName: ast.TypeText(ast.NoBindings, p.Type)}
		}
		params = append(params, t)
	}
	return &ast.MethodBinding{
		Name:           decl.Name,
		DeclaringClass: info.binding,
		ParameterTypes: params,
		ReturnType:     r.typeOf(decl.Type),
		Static:         decl.Modifiers.Has(ast.ModStatic),
		Constructor:    decl.Constructor,
	}
}

func (r *bindingResolver) pushTypeParams(decl *ast.Node) {
	params := make(map[string]bool)
	for _, c := range decl.Children {
		if c.Kind == ast.KindTypeParameter {
			params[c.Name] = true
		}
	}
	r.tparams = append(r.tparams, params)
}

func (r *bindingResolver) popTypeParams() { r.tparams = r.tparams[:len(r.tparams)-1] }

func (r *bindingResolver) isTypeParam(name string) bool {
	for i := len(r.tparams) - 1; i >= 0; i-- {
		if r.tparams[i][name] {
			return true
		}
	}
	for c := r.class; c != nil; c = c.outer {
		if c.typeParams[name] {
			return true
		}
	}
	return false
}

// lookupType resolves a type name as written at the current position.
func (r *bindingResolver) lookupType(name string) *ast.TypeBinding {
	if name == "" || name == "var" {
		return nil
	}
	if primitiveTypes[name] {
		return &ast.TypeBinding{QualifiedName: name, BinaryName: name, Primitive: true}
	}
	if r.isTypeParam(name) {
		return &ast.TypeBinding{QualifiedName: name}
	}
	if head, rest, dotted := strings.Cut(name, "."); dotted {
		if info := r.visibleType(head); info != nil {
			if nested := r.byQName[info.binding.QualifiedName+"."+rest]; nested != nil {
				return nested.binding
			}
			return &ast.TypeBinding{QualifiedName: info.binding.QualifiedName + "." + rest}
		}
		if nested := r.byQName[name]; nested != nil {
			return nested.binding
		}
		if q, ok := r.imports[head]; ok {
			return &ast.TypeBinding{QualifiedName: q + "." + rest, BinaryName: q + "$" + strings.ReplaceAll(rest, ".", "$")}
		}
		if javaLang[head] {
			return javaLangType(name)
		}
		return &ast.TypeBinding{QualifiedName: name}
	}
	if info := r.visibleType(name); info != nil {
		return info.binding
	}
	if q, ok := r.imports[name]; ok {
		return &ast.TypeBinding{QualifiedName: q, BinaryName: q}
	}
	if javaLang[name] {
		return javaLangType(name)
	}
	// With on-demand imports an unknown name could come from any of them.
	if !r.wildcard && startsUpper(name) {
		q := name
		if r.pkg != "" {
			q = r.pkg + "." + name
		}
		return &ast.TypeBinding{QualifiedName: q, BinaryName: q}
	}
	return nil
}

// visibleType prefers local classes of the enclosing bodies, then member
// types of the enclosing classes, over any other declaration with the same
// simple name.
func (r *bindingResolver) visibleType(name string) *typeInfo {
	for i := len(r.bodies) - 1; i >= 0; i-- {
		if info := r.locals[r.bodies[i]][name]; info != nil {
			return info
		}
	}
	for c := r.class; c != nil; c = c.outer {
		if c.body != nil {
			if info := r.locals[c.body][name]; info != nil {
				return info
			}
		}
		if c.binding.QualifiedName == "" {
			continue
		}
		if info := r.byQName[c.binding.QualifiedName+"."+name]; info != nil {
			return info
		}
		if c.node.Name == name {
			return c
		}
	}
	return r.bySimple[name]
}

func (r *bindingResolver) typeOf(t *ast.Node) *ast.TypeBinding {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.KindSimpleType, ast.KindQualifiedType, ast.KindPrimitiveType:
		return r.lookupType(t.Name)
	case ast.KindParameterizedType:
		base := r.typeOf(t.Type)
		if base == nil {
			return nil
		}
		out := *base
		out.TypeArguments = nil
		for _, a := range t.TypeArgs {
			if b := r.typeOf(a); b != nil {
				out.TypeArguments = append(out.TypeArguments, b)
			}
		}
		return &out
	case ast.KindArrayType:
		elem := r.typeOf(t.Type)
		if elem == nil {
			return nil
		}
		return arrayOf(elem, max(strings.Count(t.Text, "["), 1))
	case ast.KindWildcardType:
		return &ast.TypeBinding{QualifiedName: "?", Wildcard: true}
	}
	return nil
}

func arrayOf(elem *ast.TypeBinding, dims int) *ast.TypeBinding {
	q := elem.QualifiedName + strings.Repeat("[]", dims)
	return &ast.TypeBinding{QualifiedName: q, BinaryName: q, Array: true}
}

func (r *bindingResolver) pushVars() { r.vars = append(r.vars, make(map[string]*ast.TypeBinding)) }
func (r *bindingResolver) popVars()  { r.vars = r.vars[:len(r.vars)-1] }

func (r *bindingResolver) declareVar(name string, t *ast.TypeBinding) {
	if len(r.vars) == 0 {
		r.pushVars()
	}
	r.vars[len(r.vars)-1][name] = t
}

func (r *bindingResolver) local(name string) (*ast.TypeBinding, bool) {
	for i := len(r.vars) - 1; i >= 0; i-- {
		if t, ok := r.vars[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// field finds name among the fields of the enclosing classes and of their
// superclasses declared in the unit.
func (r *bindingResolver) field(name string) (*typeInfo, *ast.TypeBinding, bool) {
	for c := r.class; c != nil; c = c.outer {
		if owner, t, ok := r.fieldOf(c, name); ok {
			return owner, t, true
		}
	}
	return nil, nil, false
}

func (r *bindingResolver) fieldOf(info *typeInfo, name string) (*typeInfo, *ast.TypeBinding, bool) {
	for depth := 0; info != nil && depth < 16; depth++ {
		if tn, ok := info.fields[name]; ok {
			if tn == nil {
				return info, info.binding, true
			}
			return info, r.typeOf(tn), true
		}
		info = r.superInfo(info)
	}
	return nil, nil, false
}

func (r *bindingResolver) superInfo(info *typeInfo) *typeInfo {
	if info.binding.Superclass == nil {
		return nil
	}
	return r.byQName[info.binding.Superclass.QualifiedName]
}

func (r *bindingResolver) walk(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindTypeDeclaration, ast.KindEnumDeclaration, ast.KindAnnotationTypeDeclaration, ast.KindAnonymousClass:
		info := r.byNode[n]
		if info != nil && n.Kind != ast.KindAnonymousClass {
			r.table.SetType(n, info.binding)
		}
		saved := r.class
		r.class = info
		r.children(n)
		r.class = saved
		return

	case ast.KindMethodDeclaration:
		r.bodies = append(r.bodies, n)
		r.pushVars()
		r.pushTypeParams(n)
		r.children(n)
		r.table.SetMethod(n, r.decls[n])
		r.popTypeParams()
		r.popVars()
		r.bodies = r.bodies[:len(r.bodies)-1]
		return

	case ast.KindInitializer, ast.KindLambda:
		r.bodies = append(r.bodies, n)
		r.pushVars()
		r.children(n)
		r.popVars()
		r.bodies = r.bodies[:len(r.bodies)-1]
		return

	case ast.KindBlock, ast.KindFor, ast.KindEnhancedFor,
		ast.KindCatch, ast.KindSwitch, ast.KindTry:
		r.pushVars()
		r.children(n)
		r.popVars()
		return

	case ast.KindSingleVariableDeclaration:
		r.declareVar(n.Name, r.typeOf(n.Type))
		r.children(n)
		return

	case ast.KindVariableDeclarationStatement, ast.KindVariableDeclarationExpression, ast.KindFieldDeclaration:
		r.variables(n)
		return

	case ast.KindSimpleName:
		r.simpleName(n)
		return

	case ast.KindQualifiedName:
		// Only the head of a dotted chain can be a variable in scope.
		if len(n.Children) > 0 {
			r.walk(n.Children[0])
		}
		return

	case ast.KindFieldAccess:
		r.walk(n.Expr)
		r.fieldAccess(n)
		return

	case ast.KindSimpleType, ast.KindQualifiedType, ast.KindPrimitiveType,
		ast.KindParameterizedType, ast.KindArrayType, ast.KindWildcardType:
		r.table.SetType(n, r.typeOf(n))
		r.children(n)
		return

	case ast.KindMarkerAnnotation, ast.KindSingleMemberAnnotation, ast.KindNormalAnnotation:
		r.table.SetType(n, r.lookupType(n.Name))
		r.children(n)
		return

	case ast.KindMethodInvocation, ast.KindSuperMethodInvocation:
		r.children(n)
		if m := r.invocation(n); m != nil {
			r.table.SetMethod(n, m)
			r.table.SetType(n, m.ReturnType)
		}
		return

	case ast.KindClassInstanceCreation:
		r.children(n)
		r.table.SetMethod(n, r.creation(n))
		r.table.SetType(n, r.table.TypeOf(n.Type))
		return
	}

	r.children(n)
	r.table.SetType(n, r.exprType(n))
}

func (r *bindingResolver) children(n *ast.Node) {
	for _, c := range n.Children {
		r.walk(c)
	}
}

func (r *bindingResolver) variables(n *ast.Node) {
	declared := r.typeOf(n.Type)
	inferred := n.Type != nil && n.Type.Name == "var"
	for _, c := range n.Children {
		if c.Kind != ast.KindVariableDeclarationFragment {
			r.walk(c)
			continue
		}
		if c.Expr != nil {
			r.walk(c.Expr)
		}
		t := declared
		if inferred {
			t = r.table.TypeOf(c.Expr)
		}
		if n.Kind != ast.KindFieldDeclaration {
			r.declareVar(c.Name, t)
		}
		for _, fc := range c.Children {
			if fc != c.Expr {
				r.walk(fc)
			}
		}
	}
}

func (r *bindingResolver) simpleName(n *ast.Node) {
	if t, ok := r.local(n.Name); ok {
		r.table.SetVariable(n, &ast.VariableBinding{Name: n.Name, Type: t})
		r.table.SetType(n, t)
		return
	}
	if owner, t, ok := r.field(n.Name); ok {
		r.table.SetVariable(n, &ast.VariableBinding{Name: n.Name, Field: true, DeclaringClass: owner.binding, Type: t})
		r.table.SetType(n, t)
	}
}

func (r *bindingResolver) fieldAccess(n *ast.Node) {
	var owner *typeInfo
	if n.Expr != nil && n.Expr.Kind == ast.KindThis {
		owner = r.class
	} else if t := r.table.TypeOf(n.Expr); t != nil && t.QualifiedName != "" {
		owner = r.byQName[t.QualifiedName]
	}
	if owner == nil {
		return
	}
	declaring, t, ok := r.fieldOf(owner, n.Name)
	if !ok {
		return
	}
	r.table.SetType(n, t)
	if len(n.Children) == 0 {
		return
	}
	if last := n.Children[len(n.Children)-1]; last.Kind == ast.KindSimpleName {
		r.table.SetVariable(last, &ast.VariableBinding{Name: n.Name, Field: true, DeclaringClass: declaring.binding, Type: t})
	}
}

// invocation resolves a call against the unit's own declarations. Calls on
// receivers of known but external types bind to that type with unknown
// parameter types.
func (r *bindingResolver) invocation(n *ast.Node) *ast.MethodBinding {
	argc := len(n.Args)
	if n.Kind == ast.KindSuperMethodInvocation {
		if r.class == nil || r.class.binding.Superclass == nil {
			return nil
		}
		return r.methodIn(r.class.binding.Superclass, n.Name, argc, false)
	}

	recv := n.Expr
	switch {
	case recv == nil:
		for c := r.class; c != nil; c = c.outer {
			if m := r.findIn(c, n.Name, argc); m != nil {
				return m
			}
		}
		return nil
	case recv.Kind == ast.KindThis:
		return r.findIn(r.class, n.Name, argc)
	}

	if t := r.table.TypeOf(recv); t != nil {
		if t.Primitive || t.Array || t.Null {
			return nil
		}
		return r.methodIn(t, n.Name, argc, false)
	}
	if name := r.receiverTypeName(recv); name != "" {
		if t := r.lookupType(name); t != nil && !t.Primitive {
			return r.methodIn(t, n.Name, argc, true)
		}
	}
	return nil
}

// receiverTypeName returns the receiver as a type name when it reads like
// one and names no variable in scope.
func (r *bindingResolver) receiverTypeName(recv *ast.Node) string {
	switch recv.Kind {
	case ast.KindSimpleName:
		if r.table.VariableOf(recv) != nil || !startsUpper(recv.Name) {
			return ""
		}
		return recv.Name
	case ast.KindQualifiedName:
		if len(recv.Children) > 0 && r.table.VariableOf(recv.Children[0]) != nil {
			return ""
		}
		if !startsUpper(lastSegment(recv.Name)) {
			return ""
		}
		return recv.Name
	}
	return ""
}

func (r *bindingResolver) methodIn(t *ast.TypeBinding, name string, argc int, static bool) *ast.MethodBinding {
	if t.QualifiedName == "" {
		return nil
	}
	if info := r.byQName[t.QualifiedName]; info != nil {
		if m := r.findIn(info, name, argc); m != nil {
			return m
		}
		t = info.binding
	}
	return &ast.MethodBinding{Name: name, DeclaringClass: t, Static: static}
}

func (r *bindingResolver) findIn(info *typeInfo, name string, argc int) *ast.MethodBinding {
	for depth := 0; info != nil && depth < 16; depth++ {
		if d := matchArity(info.methods[name], argc, false); d != nil {
			return r.decls[d]
		}
		info = r.superInfo(info)
	}
	return nil
}

func (r *bindingResolver) creation(n *ast.Node) *ast.MethodBinding {
	t := r.table.TypeOf(n.Type)
	if t == nil || t.QualifiedName == "" || t.Primitive {
		return nil
	}
	argc := len(n.Args)
	info := r.byQName[t.QualifiedName]
	if info == nil {
		return &ast.MethodBinding{Name: lastSegment(t.QualifiedName), DeclaringClass: t, Constructor: true}
	}
	if d := matchArity(info.methods[info.node.Name], argc, true); d != nil {
		return r.decls[d]
	}
	m := &ast.MethodBinding{Name: info.node.Name, DeclaringClass: info.binding, Constructor: true}
	if argc == 0 {
		m.ParameterTypes = []*ast.TypeBinding{}
	}
	return m
}

func matchArity(decls []*ast.Node, argc int, constructor bool) *ast.Node {
	for _, d := range decls {
		if d.Constructor != constructor {
			continue
		}
		n := len(d.Params)
		if n == argc {
			return d
		}
		if n > 0 && d.Params[n-1].Varargs && argc >= n-1 {
			return d
		}
	}
	return nil
}

// exprType types literals and the operators whose result follows from their
// operands.
func (r *bindingResolver) exprType(n *ast.Node) *ast.TypeBinding {
	switch n.Kind {
	case ast.KindStringLiteral:
		return r.lookupType("String")
	case ast.KindNumberLiteral:
		return r.lookupType(numberType(n.Name))
	case ast.KindBooleanLiteral, ast.KindInstanceof:
		return r.lookupType("boolean")
	case ast.KindCharacterLiteral:
		return r.lookupType("char")
	case ast.KindNullLiteral:
		return &ast.TypeBinding{QualifiedName: "null", Null: true}
	case ast.KindThis:
		if r.class != nil && r.class.binding.QualifiedName != "" {
			return r.class.binding
		}
	case ast.KindParenthesized, ast.KindPostfix:
		return r.table.TypeOf(n.Expr)
	case ast.KindCast:
		return r.table.TypeOf(n.Type)
	case ast.KindArrayCreation:
		if elem := r.table.TypeOf(n.Type); elem != nil && !elem.Array {
			return arrayOf(elem, 1)
		}
		return r.table.TypeOf(n.Type)
	case ast.KindConditional:
		if t := r.table.TypeOf(n.Left); t != nil {
			return t
		}
		return r.table.TypeOf(n.Right)
	case ast.KindAssignment:
		return r.table.TypeOf(n.Left)
	case ast.KindPrefix:
		if n.Operator == "!" {
			return r.lookupType("boolean")
		}
		return r.table.TypeOf(n.Expr)
	case ast.KindArrayAccess:
		t := r.table.TypeOf(n.Expr)
		if t == nil || !t.Array {
			return nil
		}
		elem := strings.TrimSuffix(t.QualifiedName, "[]")
		if strings.HasSuffix(elem, "[]") {
			return &ast.TypeBinding{QualifiedName: elem, BinaryName: elem, Array: true}
		}
		return &ast.TypeBinding{QualifiedName: elem, BinaryName: elem, Primitive: primitiveTypes[elem]}
	case ast.KindInfix:
		return r.infixType(n)
	}
	return nil
}

func (r *bindingResolver) infixType(n *ast.Node) *ast.TypeBinding {
	if comparisonOperators[n.Operator] {
		return r.lookupType("boolean")
	}
	l, rt := r.table.TypeOf(n.Left), r.table.TypeOf(n.Right)
	if n.Operator == "+" && (isString(l) || isString(rt)) {
		return r.lookupType("String")
	}
	switch {
	case l != nil && l.Primitive:
		return l
	case rt != nil && rt.Primitive:
		return rt
	}
	return nil
}

func isString(t *ast.TypeBinding) bool {
	return t != nil && t.QualifiedName == "java.lang.String"
}

func numberType(lit string) string {
	lower := strings.ToLower(strings.ReplaceAll(lit, "_", ""))
	hex := strings.HasPrefix(lower, "0x")
	switch {
	case strings.HasSuffix(lower, "l"):
		return "long"
	case !hex && strings.HasSuffix(lower, "f"):
		return "float"
	case !hex && (strings.HasSuffix(lower, "d") || strings.ContainsAny(lower, ".e")):
		return "double"
	}
	return "int"
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
