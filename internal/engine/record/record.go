package record

import (
	"sort"

	"classmetrics/internal/engine/ast"
)

// Class kinds as reported in ClassRecord.Type.
const (
	TypeClass      = "class"
	TypeInterface  = "interface"
	TypeInnerClass = "innerclass"
	TypeAnonymous  = "anonymous"
	TypeEnum       = "enum"
)

// FieldCounts breaks declared fields down by modifier.
type FieldCounts struct {
	Total        int `json:"total"`
	Static       int `json:"static"`
	Public       int `json:"public"`
	Private      int `json:"private"`
	Protected    int `json:"protected"`
	Default      int `json:"default"`
	Final        int `json:"final"`
	Synchronized int `json:"synchronized"`
}

// MethodCounts breaks declared methods down by modifier.
type MethodCounts struct {
	Total        int `json:"total"`
	Static       int `json:"static"`
	Public       int `json:"public"`
	Private      int `json:"private"`
	Protected    int `json:"protected"`
	Default      int `json:"default"`
	Final        int `json:"final"`
	Synchronized int `json:"synchronized"`
	Abstract     int `json:"abstract"`
	Visible      int `json:"visible"`
}

// ClassRecord holds the finalized metrics of one class-like scope.
type ClassRecord struct {
	File      string        `json:"file"`
	ClassName string        `json:"class"`
	Type      string        `json:"type"`
	Modifiers ast.Modifiers `json:"-"`
	Line      int           `json:"line"`

	LOC              int `json:"loc"`
	UniqueWords      int `json:"unique_words"`
	CBO              int `json:"cbo"`
	WMC              int `json:"wmc"`
	RFC              int `json:"rfc"`
	LCOM             int `json:"lcom"`
	NOSI             int `json:"nosi"`
	Returns          int `json:"returns"`
	Loops            int `json:"loops"`
	Comparisons      int `json:"comparisons"`
	TryCatches       int `json:"try_catches"`
	Parenthesized    int `json:"parenthesized"`
	Assignments      int `json:"assignments"`
	MathOperations   int `json:"math_operations"`
	Variables        int `json:"variables"`
	MaxNestedBlocks  int `json:"max_nested_blocks"`
	AnonymousClasses int `json:"anonymous_classes"`
	InnerClasses     int `json:"inner_classes"`
	Lambdas          int `json:"lambdas"`

	Fields     FieldCounts  `json:"field_counts"`
	FieldNames []string     `json:"field_names"`
	Methods    MethodCounts `json:"method_counts"`

	// Filled from the merged coupling ledger once every file is traversed.
	CBOModified int `json:"cbo_modified"`
	FanIn       int `json:"fan_in"`
	FanOut      int `json:"fan_out"`
	NOC         int `json:"noc"`

	methods []*MethodRecord
}

// NewClass creates an empty record with its identity facts.
func NewClass(file, name, typ string, mods ast.Modifiers, line int) *ClassRecord {
	return &ClassRecord{File: file, ClassName: name, Type: typ, Modifiers: mods, Line: line}
}

// AddMethod appends a finalized method in declaration order.
func (c *ClassRecord) AddMethod(m *MethodRecord) {
	c.methods = append(c.methods, m)
}

// MethodRecords returns the owned methods in declaration order.
func (c *ClassRecord) MethodRecords() []*MethodRecord {
	out := make([]*MethodRecord, len(c.methods))
	copy(out, c.methods)
	return out
}

// Key identifies the record for deduplication within a file.
func (c *ClassRecord) Key() Key {
	return Key{File: c.File, ClassName: c.ClassName, Type: c.Type}
}

type Key struct {
	File      string
	ClassName string
	Type      string
}

// MethodRecord holds the finalized metrics of one method-like scope.
type MethodRecord struct {
	MethodName          string        `json:"method"`
	QualifiedMethodName string        `json:"qualified_method_name"`
	Constructor         bool          `json:"constructor"`
	Modifiers           ast.Modifiers `json:"-"`
	Line                int           `json:"line"`

	LOC              int  `json:"loc"`
	UniqueWords      int  `json:"unique_words"`
	CBO              int  `json:"cbo"`
	WMC              int  `json:"wmc"`
	RFC              int  `json:"rfc"`
	Returns          int  `json:"returns"`
	Variables        int  `json:"variables"`
	Parameters       int  `json:"parameters"`
	Loops            int  `json:"loops"`
	Comparisons      int  `json:"comparisons"`
	TryCatches       int  `json:"try_catches"`
	Parenthesized    int  `json:"parenthesized"`
	Assignments      int  `json:"assignments"`
	MathOperations   int  `json:"math_operations"`
	MaxNestedBlocks  int  `json:"max_nested_blocks"`
	AnonymousClasses int  `json:"anonymous_classes"`
	InnerClasses     int  `json:"inner_classes"`
	Lambdas          int  `json:"lambdas"`
	HasJavadoc       bool `json:"has_javadoc"`

	Invocations    []string       `json:"invocations"`
	VariablesUsage map[string]int `json:"variables_usage"`
	FieldUsage     map[string]int `json:"field_usage"`

	// Filled from the merged coupling ledger once every file is traversed.
	CBOModified int `json:"cbo_modified"`
	FanIn       int `json:"fan_in"`
	FanOut      int `json:"fan_out"`
}

// NewMethod creates an empty method record.
func NewMethod(name, qualified string, constructor bool, mods ast.Modifiers, line int) *MethodRecord {
	return &MethodRecord{
		MethodName:          name,
		QualifiedMethodName: qualified,
		Constructor:         constructor,
		Modifiers:           mods,
		Line:                line,
	}
}

// SortedKeys returns the keys of a usage map in lexical order.
func SortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
