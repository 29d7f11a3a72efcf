package ast

// Kind is the closed set of node kinds the front end produces. Metric
// plugins switch on it; syntax the front end does not model becomes KindOther.
type Kind uint8

const (
	KindOther Kind = iota

	// declarations
	KindCompilationUnit
	KindPackage
	KindImport
	KindTypeDeclaration
	KindEnumDeclaration
	KindEnumConstant
	KindAnnotationTypeDeclaration
	KindAnnotationTypeMember
	KindAnonymousClass
	KindFieldDeclaration
	KindMethodDeclaration
	KindInitializer
	KindVariableDeclarationFragment
	KindSingleVariableDeclaration
	KindTypeParameter
	KindJavadoc

	// statements
	KindBlock
	KindVariableDeclarationStatement
	KindExpressionStatement
	KindIf
	KindWhile
	KindDo
	KindFor
	KindEnhancedFor
	KindSwitch
	KindSwitchCase
	KindTry
	KindCatch
	KindReturn
	KindThrow
	KindBreak
	KindContinue
	KindYield
	KindLabeled
	KindSynchronized
	KindAssert
	KindEmpty
	KindConstructorInvocation
	KindSuperConstructorInvocation

	// expressions
	KindVariableDeclarationExpression
	KindConditional
	KindInfix
	KindPrefix
	KindPostfix
	KindAssignment
	KindParenthesized
	KindCast
	KindInstanceof
	KindClassInstanceCreation
	KindArrayCreation
	KindArrayInitializer
	KindArrayAccess
	KindMethodInvocation
	KindSuperMethodInvocation
	KindFieldAccess
	KindSuperFieldAccess
	KindLambda
	KindMethodReference
	KindTypeLiteral
	KindThis
	KindSimpleName
	KindQualifiedName
	KindStringLiteral
	KindNumberLiteral
	KindBooleanLiteral
	KindCharacterLiteral
	KindNullLiteral

	// types
	KindSimpleType
	KindQualifiedType
	KindParameterizedType
	KindArrayType
	KindPrimitiveType
	KindWildcardType
	KindUnionType
	KindIntersectionType

	// annotations
	KindMarkerAnnotation
	KindNormalAnnotation
	KindSingleMemberAnnotation

	kindCount
)

var kindNames = [kindCount]string{
	KindOther:                         "Other",
	KindCompilationUnit:               "CompilationUnit",
	KindPackage:                       "Package",
	KindImport:                        "Import",
	KindTypeDeclaration:               "TypeDeclaration",
	KindEnumDeclaration:               "EnumDeclaration",
	KindEnumConstant:                  "EnumConstant",
	KindAnnotationTypeDeclaration:     "AnnotationTypeDeclaration",
	KindAnnotationTypeMember:          "AnnotationTypeMember",
	KindAnonymousClass:                "AnonymousClass",
	KindFieldDeclaration:              "FieldDeclaration",
	KindMethodDeclaration:             "MethodDeclaration",
	KindInitializer:                   "Initializer",
	KindVariableDeclarationFragment:   "VariableDeclarationFragment",
	KindSingleVariableDeclaration:     "SingleVariableDeclaration",
	KindTypeParameter:                 "TypeParameter",
	KindJavadoc:                       "Javadoc",
	KindBlock:                         "Block",
	KindVariableDeclarationStatement:  "VariableDeclarationStatement",
	KindExpressionStatement:           "ExpressionStatement",
	KindIf:                            "If",
	KindWhile:                         "While",
	KindDo:                            "Do",
	KindFor:                           "For",
	KindEnhancedFor:                   "EnhancedFor",
	KindSwitch:                        "Switch",
	KindSwitchCase:                    "SwitchCase",
	KindTry:                           "Try",
	KindCatch:                         "Catch",
	KindReturn:                        "Return",
	KindThrow:                         "Throw",
	KindBreak:                         "Break",
	KindContinue:                      "Continue",
	KindYield:                         "Yield",
	KindLabeled:                       "Labeled",
	KindSynchronized:                  "Synchronized",
	KindAssert:                        "Assert",
	KindEmpty:                         "Empty",
	KindConstructorInvocation:         "ConstructorInvocation",
	KindSuperConstructorInvocation:    "SuperConstructorInvocation",
	KindVariableDeclarationExpression: "VariableDeclarationExpression",
	KindConditional:                   "Conditional",
	KindInfix:                         "Infix",
	KindPrefix:                        "Prefix",
	KindPostfix:                       "Postfix",
	KindAssignment:                    "Assignment",
	KindParenthesized:                 "Parenthesized",
	KindCast:                          "Cast",
	KindInstanceof:                    "Instanceof",
	KindClassInstanceCreation:         "ClassInstanceCreation",
	KindArrayCreation:                 "ArrayCreation",
	KindArrayInitializer:              "ArrayInitializer",
	KindArrayAccess:                   "ArrayAccess",
	KindMethodInvocation:              "MethodInvocation",
	KindSuperMethodInvocation:         "SuperMethodInvocation",
	KindFieldAccess:                   "FieldAccess",
	KindSuperFieldAccess:              "SuperFieldAccess",
	KindLambda:                        "Lambda",
	KindMethodReference:               "MethodReference",
	KindTypeLiteral:                   "TypeLiteral",
	KindThis:                          "This",
	KindSimpleName:                    "SimpleName",
	KindQualifiedName:                 "QualifiedName",
	KindStringLiteral:                 "StringLiteral",
	KindNumberLiteral:                 "NumberLiteral",
	KindBooleanLiteral:                "BooleanLiteral",
	KindCharacterLiteral:              "CharacterLiteral",
	KindNullLiteral:                   "NullLiteral",
	KindSimpleType:                    "SimpleType",
	KindQualifiedType:                 "QualifiedType",
	KindParameterizedType:             "ParameterizedType",
	KindArrayType:                     "ArrayType",
	KindPrimitiveType:                 "PrimitiveType",
	KindWildcardType:                  "WildcardType",
	KindUnionType:                     "UnionType",
	KindIntersectionType:              "IntersectionType",
	KindMarkerAnnotation:              "MarkerAnnotation",
	KindNormalAnnotation:              "NormalAnnotation",
	KindSingleMemberAnnotation:        "SingleMemberAnnotation",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// IsClassLike reports kinds that open a class scope.
func (k Kind) IsClassLike() bool {
	switch k {
	case KindTypeDeclaration, KindEnumDeclaration, KindAnonymousClass:
		return true
	}
	return false
}

// IsMethodLike reports kinds that open a method scope.
func (k Kind) IsMethodLike() bool {
	return k == KindMethodDeclaration || k == KindInitializer
}

// IsType reports kinds that denote a type reference.
func (k Kind) IsType() bool {
	switch k {
	case KindSimpleType, KindQualifiedType, KindParameterizedType, KindArrayType,
		KindPrimitiveType, KindWildcardType, KindUnionType, KindIntersectionType:
		return true
	}
	return false
}

// IsAnnotation reports the three annotation forms.
func (k Kind) IsAnnotation() bool {
	switch k {
	case KindMarkerAnnotation, KindNormalAnnotation, KindSingleMemberAnnotation:
		return true
	}
	return false
}

// IsLoop reports the four loop statements.
func (k Kind) IsLoop() bool {
	switch k {
	case KindFor, KindEnhancedFor, KindWhile, KindDo:
		return true
	}
	return false
}
