package ast

import "strings"

func IsFunctionLike(k Kind) bool {
	switch k {
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunction,
		KindMethodDeclaration, KindMethodSignature, KindConstructor,
		KindGetAccessor, KindSetAccessor,
		KindCallSignature, KindConstructSignature, KindIndexSignature,
		KindFunctionType, KindConstructorType:
		return true
	}
	return false
}

func IsClassLike(k Kind) bool {
	return k == KindClassDeclaration || k == KindClassExpression
}

func IsBindingPattern(k Kind) bool {
	return k == KindObjectBindingPattern || k == KindArrayBindingPattern
}

func IsStringOrNumericLiteral(k Kind) bool {
	return k == KindStringLiteral || k == KindNumericLiteral || k == KindNoSubstitutionTemplateLiteral
}

// Parent returns the parent recorded by the binder.
func (f *File) Parent(id NodeID) NodeID {
	if n := f.Node(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// CombinedFlags merges the flags of a declaration with those of its enclosing
// declaration list and statement. Binding elements are walked up to the
// declaration that owns the pattern.
func (f *File) CombinedFlags(id NodeID) NodeFlags {
	for {
		k := f.Kind(id)
		if k != KindBindingElement && !IsBindingPattern(k) {
			break
		}
		id = f.Parent(id)
	}
	n := f.Node(id)
	if n == nil {
		return 0
	}
	flags := n.Flags
	if n.Kind == KindVariableDeclaration {
		id = n.Parent
	}
	if list := f.Node(id); list != nil && list.Kind == KindVariableDeclarationList {
		flags |= list.Flags
		id = list.Parent
	}
	if stmt := f.Node(id); stmt != nil && stmt.Kind == KindVariableStatement {
		flags |= stmt.Flags
	}
	return flags
}

func (f *File) IsCatchClauseVariable(id NodeID) bool {
	return f.Kind(id) == KindVariableDeclaration && f.Kind(f.Parent(id)) == KindCatchClause
}

// IsBlockOrCatchScoped reports `let`/`const` declarations and catch bindings.
func (f *File) IsBlockOrCatchScoped(id NodeID) bool {
	return f.CombinedFlags(id)&FlagsBlockScoped != 0 || f.IsCatchClauseVariable(id)
}

// RootDeclaration walks from a binding element up to the declaration or
// parameter that owns the outermost pattern.
func (f *File) RootDeclaration(id NodeID) NodeID {
	for f.Kind(id) == KindBindingElement {
		id = f.Parent(f.Parent(id))
	}
	return id
}

func (f *File) IsParameterDeclaration(id NodeID) bool {
	return f.Kind(f.RootDeclaration(id)) == KindParameter
}

// HasDynamicName reports a computed name that is not a well-known symbol.
func (f *File) HasDynamicName(id NodeID) bool {
	n := f.Node(id)
	if n == nil {
		return false
	}
	name := f.Node(n.Name)
	return name != nil && name.Kind == KindComputedPropertyName && !f.IsWellKnownSymbolSyntactically(name.Expr)
}

// IsWellKnownSymbolSyntactically matches `Symbol.<name>`.
func (f *File) IsWellKnownSymbolSyntactically(id NodeID) bool {
	n := f.Node(id)
	if n == nil || n.Kind != KindPropertyAccess {
		return false
	}
	return f.Kind(n.Expr) == KindIdentifier && f.TextOf(n.Expr) == "Symbol"
}

// WellKnownSymbolName returns the property name of a `Symbol.<name>` access.
func (f *File) WellKnownSymbolName(id NodeID) string {
	n := f.Node(id)
	if n == nil {
		return ""
	}
	return "__@" + f.TextOf(n.Name)
}

func (f *File) IsPrologueDirective(id NodeID) bool {
	n := f.Node(id)
	return n != nil && n.Kind == KindExpressionStatement && f.Kind(n.Expr) == KindStringLiteral
}

// IsIdentifierName reports identifiers that name a property rather than
// reference a binding: member names, the right side of a dot in a type
// query, property names in binding elements and import specifiers, and any
// export specifier name.
func (f *File) IsIdentifierName(id NodeID) bool {
	parentID := f.Parent(id)
	parent := f.Node(parentID)
	if parent == nil {
		return false
	}
	switch parent.Kind {
	case KindPropertyDeclaration, KindPropertySignature, KindMethodDeclaration, KindMethodSignature,
		KindGetAccessor, KindSetAccessor, KindEnumMember, KindPropertyAssignment, KindPropertyAccess:
		return parent.Name == id
	case KindQualifiedName:
		if parent.Name != id {
			return false
		}
		for f.Kind(parentID) == KindQualifiedName {
			parentID = f.Parent(parentID)
		}
		return f.Kind(parentID) == KindTypeQuery
	case KindBindingElement, KindImportSpecifier:
		return parent.PropertyName == id
	case KindExportSpecifier:
		return true
	}
	return false
}

// IsAmbientContext reports whether id sits under a `declare` modifier or in
// a declaration file.
func (f *File) IsAmbientContext(id NodeID) bool {
	for id.IsValid() {
		n := f.Node(id)
		if n == nil {
			return false
		}
		if n.Flags&(FlagAmbient|FlagDeclarationFile) != 0 {
			return true
		}
		id = n.Parent
	}
	return false
}

// ContainingClass returns the nearest enclosing class, excluding id itself.
func (f *File) ContainingClass(id NodeID) NodeID {
	for id = f.Parent(id); id.IsValid(); id = f.Parent(id) {
		if IsClassLike(f.Kind(id)) {
			return id
		}
	}
	return NoNodeID
}

func (f *File) IsObjectLiteralMethod(id NodeID) bool {
	return f.Kind(id) == KindMethodDeclaration && f.Kind(f.Parent(id)) == KindObjectLiteral
}

func (f *File) IsConstEnumDeclaration(id NodeID) bool {
	return f.Kind(id) == KindEnumDeclaration && f.CombinedFlags(id)&FlagConst != 0
}

// IsFunctionBlock reports a block that is the immediate body of a
// function-like node.
func (f *File) IsFunctionBlock(id NodeID) bool {
	return f.Kind(id) == KindBlock && IsFunctionLike(f.Kind(f.Parent(id)))
}

// DeclarationNameToString renders a declaration name for messages.
func (f *File) DeclarationNameToString(id NodeID) string {
	n := f.Node(id)
	if n == nil {
		return "(Missing)"
	}
	switch n.Kind {
	case KindIdentifier:
		return f.TextOf(id)
	case KindStringLiteral, KindNumericLiteral, KindNoSubstitutionTemplateLiteral:
		return f.RawOf(id)
	case KindComputedPropertyName:
		return "[" + f.EntityNameToString(n.Expr) + "]"
	}
	return f.EntityNameToString(id)
}

// EntityNameToString renders identifiers, qualified names and property
// access chains as dotted text.
func (f *File) EntityNameToString(id NodeID) string {
	n := f.Node(id)
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindIdentifier:
		return f.TextOf(id)
	case KindQualifiedName, KindPropertyAccess:
		return f.EntityNameToString(n.Expr) + "." + f.EntityNameToString(n.Name)
	case KindStringLiteral, KindNumericLiteral, KindNoSubstitutionTemplateLiteral:
		return f.RawOf(id)
	case KindThisKeyword:
		return "this"
	}
	return "(" + strings.ToLower(n.Kind.String()) + ")"
}
