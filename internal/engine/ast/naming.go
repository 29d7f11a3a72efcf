package ast

import (
	"strconv"
	"strings"
)

// TypeText is the type as written, or its resolved qualified name when the
// resolver knows it.
func TypeText(r Resolver, t *Node) string {
	if t == nil {
		return ""
	}
	if b := r.TypeOf(t); b != nil && b.QualifiedName != "" {
		return b.QualifiedName
	}
	if t.Text != "" {
		return t.Text
	}
	return t.Name
}

// MethodFullName renders a declaration as name/N[T1,T2].
func MethodFullName(r Resolver, decl *Node) string {
	var sb strings.Builder
	sb.WriteString(decl.Name)
	sb.WriteByte('/')
	sb.WriteString(strconv.Itoa(len(decl.Params)))
	if len(decl.Params) > 0 {
		types := make([]string, 0, len(decl.Params))
		for _, p := range decl.Params {
			types = append(types, TypeText(r, p.Type))
		}
		sb.WriteByte('[')
		sb.WriteString(strings.Join(types, ","))
		sb.WriteByte(']')
	}
	return sb.String()
}

// QualifiedMethodFullName prefixes MethodFullName with the declaring class
// when it resolves.
func QualifiedMethodFullName(r Resolver, decl *Node) string {
	full := MethodFullName(r, decl)
	if m := r.MethodOf(decl); m != nil && m.DeclaringClass != nil && m.DeclaringClass.QualifiedName != "" {
		return m.DeclaringClass.QualifiedName + "." + full
	}
	return full
}

// InvocationSignature names the target of an invocation or constructor call.
// Resolved targets render as Declaring.name/N[T1,T2], unresolved ones as name/N
// with N the argument count.
func InvocationSignature(r Resolver, call *Node) string {
	m := r.MethodOf(call)
	if m == nil || m.DeclaringClass == nil || m.DeclaringClass.QualifiedName == "" {
		return call.Name + "/" + strconv.Itoa(len(call.Args))
	}
	var sb strings.Builder
	sb.WriteString(m.DeclaringClass.QualifiedName)
	sb.WriteByte('.')
	sb.WriteString(m.Name)
	sb.WriteByte('/')
	if m.ParameterTypes == nil {
		sb.WriteString(strconv.Itoa(len(call.Args)))
		return sb.String()
	}
	sb.WriteString(strconv.Itoa(len(m.ParameterTypes)))
	if len(m.ParameterTypes) > 0 {
		names := make([]string, 0, len(m.ParameterTypes))
		for _, p := range m.ParameterTypes {
			names = append(names, p.QualifiedName)
		}
		sb.WriteByte('[')
		sb.WriteString(strings.Join(names, ","))
		sb.WriteByte(']')
	}
	return sb.String()
}
