package ast

import "fmt"

// Kind is the closed set of syntax node kinds the binder understands.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindIdentifier
	KindStringLiteral
	KindNumericLiteral
	KindNoSubstitutionTemplateLiteral
	KindQualifiedName
	KindComputedPropertyName
	KindThisKeyword
	KindSuperKeyword
	KindNullKeyword
	KindTrueKeyword
	KindFalseKeyword
	KindKeywordType
	KindTypeParameter
	KindParameter
	KindPropertySignature
	KindPropertyDeclaration
	KindMethodSignature
	KindMethodDeclaration
	KindConstructor
	KindGetAccessor
	KindSetAccessor
	KindCallSignature
	KindConstructSignature
	KindIndexSignature
	KindTypeReference
	KindFunctionType
	KindConstructorType
	KindTypeQuery
	KindTypeLiteral
	KindArrayType
	KindTupleType
	KindUnionType
	KindParenthesizedType
	KindObjectBindingPattern
	KindArrayBindingPattern
	KindBindingElement
	KindOmittedExpression
	KindArrayLiteral
	KindObjectLiteral
	KindPropertyAccess
	KindElementAccess
	KindCall
	KindNew
	KindParenthesized
	KindFunctionExpression
	KindArrowFunction
	KindDelete
	KindTypeOf
	KindVoid
	KindPrefixUnary
	KindPostfixUnary
	KindBinary
	KindConditional
	KindSpread
	KindClassExpression
	KindAsExpression
	KindExpressionWithTypeArguments
	KindPropertyAssignment
	KindShorthandPropertyAssignment
	KindBlock
	KindVariableStatement
	KindEmptyStatement
	KindExpressionStatement
	KindIfStatement
	KindDoStatement
	KindWhileStatement
	KindForStatement
	KindForInStatement
	KindForOfStatement
	KindContinueStatement
	KindBreakStatement
	KindReturnStatement
	KindWithStatement
	KindSwitchStatement
	KindLabeledStatement
	KindThrowStatement
	KindTryStatement
	KindDebuggerStatement
	KindVariableDeclaration
	KindVariableDeclarationList
	KindFunctionDeclaration
	KindClassDeclaration
	KindInterfaceDeclaration
	KindTypeAliasDeclaration
	KindEnumDeclaration
	KindModuleDeclaration
	KindModuleBlock
	KindCaseBlock
	KindImportEqualsDeclaration
	KindImportDeclaration
	KindImportClause
	KindNamespaceImport
	KindNamedImports
	KindImportSpecifier
	KindExportAssignment
	KindExportDeclaration
	KindNamedExports
	KindExportSpecifier
	KindExternalModuleReference
	KindCaseClause
	KindDefaultClause
	KindHeritageClause
	KindCatchClause
	KindEnumMember
	KindSourceFile
	kindCount
)

var kindNames = [...]string{
	KindInvalid:                       "Invalid",
	KindIdentifier:                    "Identifier",
	KindStringLiteral:                 "StringLiteral",
	KindNumericLiteral:                "NumericLiteral",
	KindNoSubstitutionTemplateLiteral: "NoSubstitutionTemplateLiteral",
	KindQualifiedName:                 "QualifiedName",
	KindComputedPropertyName:          "ComputedPropertyName",
	KindThisKeyword:                   "ThisKeyword",
	KindSuperKeyword:                  "SuperKeyword",
	KindNullKeyword:                   "NullKeyword",
	KindTrueKeyword:                   "TrueKeyword",
	KindFalseKeyword:                  "FalseKeyword",
	KindKeywordType:                   "KeywordType",
	KindTypeParameter:                 "TypeParameter",
	KindParameter:                     "Parameter",
	KindPropertySignature:             "PropertySignature",
	KindPropertyDeclaration:           "PropertyDeclaration",
	KindMethodSignature:               "MethodSignature",
	KindMethodDeclaration:             "MethodDeclaration",
	KindConstructor:                   "Constructor",
	KindGetAccessor:                   "GetAccessor",
	KindSetAccessor:                   "SetAccessor",
	KindCallSignature:                 "CallSignature",
	KindConstructSignature:            "ConstructSignature",
	KindIndexSignature:                "IndexSignature",
	KindTypeReference:                 "TypeReference",
	KindFunctionType:                  "FunctionType",
	KindConstructorType:               "ConstructorType",
	KindTypeQuery:                     "TypeQuery",
	KindTypeLiteral:                   "TypeLiteral",
	KindArrayType:                     "ArrayType",
	KindTupleType:                     "TupleType",
	KindUnionType:                     "UnionType",
	KindParenthesizedType:             "ParenthesizedType",
	KindObjectBindingPattern:          "ObjectBindingPattern",
	KindArrayBindingPattern:           "ArrayBindingPattern",
	KindBindingElement:                "BindingElement",
	KindOmittedExpression:             "OmittedExpression",
	KindArrayLiteral:                  "ArrayLiteral",
	KindObjectLiteral:                 "ObjectLiteral",
	KindPropertyAccess:                "PropertyAccess",
	KindElementAccess:                 "ElementAccess",
	KindCall:                          "Call",
	KindNew:                           "New",
	KindParenthesized:                 "Parenthesized",
	KindFunctionExpression:            "FunctionExpression",
	KindArrowFunction:                 "ArrowFunction",
	KindDelete:                        "Delete",
	KindTypeOf:                        "TypeOf",
	KindVoid:                          "Void",
	KindPrefixUnary:                   "PrefixUnary",
	KindPostfixUnary:                  "PostfixUnary",
	KindBinary:                        "Binary",
	KindConditional:                   "Conditional",
	KindSpread:                        "Spread",
	KindClassExpression:               "ClassExpression",
	KindAsExpression:                  "AsExpression",
	KindExpressionWithTypeArguments:   "ExpressionWithTypeArguments",
	KindPropertyAssignment:            "PropertyAssignment",
	KindShorthandPropertyAssignment:   "ShorthandPropertyAssignment",
	KindBlock:                         "Block",
	KindVariableStatement:             "VariableStatement",
	KindEmptyStatement:                "EmptyStatement",
	KindExpressionStatement:           "ExpressionStatement",
	KindIfStatement:                   "IfStatement",
	KindDoStatement:                   "DoStatement",
	KindWhileStatement:                "WhileStatement",
	KindForStatement:                  "ForStatement",
	KindForInStatement:                "ForInStatement",
	KindForOfStatement:                "ForOfStatement",
	KindContinueStatement:             "ContinueStatement",
	KindBreakStatement:                "BreakStatement",
	KindReturnStatement:               "ReturnStatement",
	KindWithStatement:                 "WithStatement",
	KindSwitchStatement:               "SwitchStatement",
	KindLabeledStatement:              "LabeledStatement",
	KindThrowStatement:                "ThrowStatement",
	KindTryStatement:                  "TryStatement",
	KindDebuggerStatement:             "DebuggerStatement",
	KindVariableDeclaration:           "VariableDeclaration",
	KindVariableDeclarationList:       "VariableDeclarationList",
	KindFunctionDeclaration:           "FunctionDeclaration",
	KindClassDeclaration:              "ClassDeclaration",
	KindInterfaceDeclaration:          "InterfaceDeclaration",
	KindTypeAliasDeclaration:          "TypeAliasDeclaration",
	KindEnumDeclaration:               "EnumDeclaration",
	KindModuleDeclaration:             "ModuleDeclaration",
	KindModuleBlock:                   "ModuleBlock",
	KindCaseBlock:                     "CaseBlock",
	KindImportEqualsDeclaration:       "ImportEqualsDeclaration",
	KindImportDeclaration:             "ImportDeclaration",
	KindImportClause:                  "ImportClause",
	KindNamespaceImport:               "NamespaceImport",
	KindNamedImports:                  "NamedImports",
	KindImportSpecifier:               "ImportSpecifier",
	KindExportAssignment:              "ExportAssignment",
	KindExportDeclaration:             "ExportDeclaration",
	KindNamedExports:                  "NamedExports",
	KindExportSpecifier:               "ExportSpecifier",
	KindExternalModuleReference:       "ExternalModuleReference",
	KindCaseClause:                    "CaseClause",
	KindDefaultClause:                 "DefaultClause",
	KindHeritageClause:                "HeritageClause",
	KindCatchClause:                   "CatchClause",
	KindEnumMember:                    "EnumMember",
	KindSourceFile:                    "SourceFile",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for i, name := range kindNames {
		if i == 0 {
			continue
		}
		m[name] = Kind(i)
	}
	return m
}()

// ParseKind maps a kind name as produced by String back to the Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

func (k Kind) IsValid() bool { return k > KindInvalid && k < kindCount }
