package binder

import (
	"strconv"

	"tsbind/internal/ast"
	"tsbind/internal/diag"
	"tsbind/internal/symbols"
)

// bindWorker runs the strict-mode checks for node and declares the symbol it
// introduces, if any.
func (b *binder) bindWorker(ctx bindContext, node ast.NodeID) {
	n := b.node(node)
	switch n.Kind {
	case ast.KindIdentifier:
		b.checkStrictModeIdentifier(ctx, node)
	case ast.KindBinary:
		if n.Operator.IsAssignment() {
			b.checkStrictModeEvalOrArguments(ctx, node, n.Expr)
		}
	case ast.KindCatchClause:
		if n.Expr.IsValid() {
			b.checkStrictModeEvalOrArguments(ctx, node, b.node(n.Expr).Name)
		}
	case ast.KindDelete:
		b.checkStrictModeDeleteExpression(ctx, n)
	case ast.KindNumericLiteral:
		b.checkStrictModeNumericLiteral(ctx, node)
	case ast.KindPostfixUnary:
		b.checkStrictModeEvalOrArguments(ctx, node, n.Expr)
	case ast.KindPrefixUnary:
		if n.Operator.IsIncDec() {
			b.checkStrictModeEvalOrArguments(ctx, node, n.Expr)
		}
	case ast.KindWithStatement:
		b.checkStrictModeWithStatement(ctx, node)

	case ast.KindTypeParameter:
		b.declareInContainer(ctx, node, symbols.TypeParameter, symbols.TypeParameterExcludes)
	case ast.KindParameter:
		b.bindParameter(ctx, node)
	case ast.KindVariableDeclaration, ast.KindBindingElement:
		b.bindVariableDeclarationOrBindingElement(ctx, node)
	case ast.KindPropertyDeclaration, ast.KindPropertySignature:
		b.bindPropertyOrMethodOrAccessor(ctx, node, symbols.Property|optional(n), symbols.PropertyExcludes)
	case ast.KindPropertyAssignment, ast.KindShorthandPropertyAssignment:
		b.bindPropertyOrMethodOrAccessor(ctx, node, symbols.Property, symbols.PropertyExcludes)
	case ast.KindEnumMember:
		b.bindPropertyOrMethodOrAccessor(ctx, node, symbols.EnumMember, symbols.EnumMemberExcludes)
	case ast.KindCallSignature, ast.KindConstructSignature, ast.KindIndexSignature:
		b.declareInContainer(ctx, node, symbols.Signature, symbols.None)
	case ast.KindMethodDeclaration, ast.KindMethodSignature:
		// object literal methods share the property namespace
		excludes := symbols.MethodExcludes
		if b.file.IsObjectLiteralMethod(node) {
			excludes = symbols.PropertyExcludes
		}
		b.bindPropertyOrMethodOrAccessor(ctx, node, symbols.Method|optional(n), excludes)
	case ast.KindFunctionDeclaration:
		b.checkStrictModeFunctionName(ctx, node)
		b.declareInContainer(ctx, node, symbols.Function, symbols.FunctionExcludes)
	case ast.KindConstructor:
		b.declareInContainer(ctx, node, symbols.Constructor, symbols.None)
	case ast.KindGetAccessor:
		b.bindPropertyOrMethodOrAccessor(ctx, node, symbols.GetAccessor, symbols.GetAccessorExcludes)
	case ast.KindSetAccessor:
		b.bindPropertyOrMethodOrAccessor(ctx, node, symbols.SetAccessor, symbols.SetAccessorExcludes)
	case ast.KindFunctionType, ast.KindConstructorType:
		b.bindFunctionOrConstructorType(node)
	case ast.KindTypeLiteral:
		b.bindAnonymousDeclaration(node, symbols.TypeLiteral, "__type")
	case ast.KindObjectLiteral:
		b.bindObjectLiteralExpression(ctx, node)
	case ast.KindFunctionExpression, ast.KindArrowFunction:
		b.checkStrictModeFunctionName(ctx, node)
		name := "__function"
		if n.Name.IsValid() {
			name = b.file.TextOf(n.Name)
		}
		b.bindAnonymousDeclaration(node, symbols.Function, name)
	case ast.KindClassExpression, ast.KindClassDeclaration:
		b.bindClassLikeDeclaration(ctx, node)
	case ast.KindInterfaceDeclaration:
		b.bindBlockScopedDeclaration(ctx, node, symbols.Interface, symbols.InterfaceExcludes)
	case ast.KindTypeAliasDeclaration:
		b.bindBlockScopedDeclaration(ctx, node, symbols.TypeAlias, symbols.TypeAliasExcludes)
	case ast.KindEnumDeclaration:
		if b.file.IsConstEnumDeclaration(node) {
			b.bindBlockScopedDeclaration(ctx, node, symbols.ConstEnum, symbols.ConstEnumExcludes)
		} else {
			b.bindBlockScopedDeclaration(ctx, node, symbols.RegularEnum, symbols.RegularEnumExcludes)
		}
	case ast.KindModuleDeclaration:
		b.bindModuleDeclaration(ctx, node)
	case ast.KindImportEqualsDeclaration, ast.KindNamespaceImport, ast.KindImportSpecifier, ast.KindExportSpecifier:
		b.declareInContainer(ctx, node, symbols.Alias, symbols.AliasExcludes)
	case ast.KindImportClause:
		if n.Name.IsValid() {
			b.declareInContainer(ctx, node, symbols.Alias, symbols.AliasExcludes)
		}
	case ast.KindExportDeclaration:
		b.bindExportDeclaration(ctx, node)
	case ast.KindExportAssignment:
		b.bindExportAssignment(ctx, node)
	case ast.KindSourceFile:
		b.bindSourceFileIfExternalModule(node)
	}
}

func optional(n *ast.Node) symbols.SymbolFlags {
	if n.Flags&ast.FlagQuestionToken != 0 {
		return symbols.Optional
	}
	return symbols.None
}

func (b *binder) bindSourceFileIfExternalModule(node ast.NodeID) {
	b.setExportContextFlag(node)
	if b.file.IsExternalModule() {
		b.bindAnonymousDeclaration(node, symbols.ValueModule, fileSymbolName(b.file.Path))
	}
}

// setExportContextFlag marks ambient modules and declaration files without
// export declarations: everything declared in them is implicitly exported.
func (b *binder) setExportContextFlag(node ast.NodeID) {
	n := b.node(node)
	if b.file.IsAmbientContext(node) && !b.hasExportDeclarations(node) {
		n.Flags |= ast.FlagExportContext
	} else {
		n.Flags &^= ast.FlagExportContext
	}
}

func (b *binder) hasExportDeclarations(node ast.NodeID) bool {
	body := node
	if b.file.Kind(node) == ast.KindModuleDeclaration {
		body = b.node(node).Body
	}
	switch b.file.Kind(body) {
	case ast.KindSourceFile, ast.KindModuleBlock:
		for _, stmt := range b.node(body).List {
			switch b.file.Kind(stmt) {
			case ast.KindExportDeclaration, ast.KindExportAssignment:
				return true
			}
		}
	}
	return false
}

func (b *binder) bindModuleDeclaration(ctx bindContext, node ast.NodeID) {
	b.setExportContextFlag(node)
	n := b.node(node)
	if b.file.Kind(n.Name) == ast.KindStringLiteral {
		b.declareInContainer(ctx, node, symbols.ValueModule, symbols.ValueModuleExcludes)
		return
	}
	state := ModuleInstanceStateOf(b.file, node)
	if state == NonInstantiated {
		b.declareInContainer(ctx, node, symbols.NamespaceModule, symbols.NamespaceModuleExcludes)
		return
	}
	b.declareInContainer(ctx, node, symbols.ValueModule, symbols.ValueModuleExcludes)
	// a merged namespace stays const-enum-only only while every piece is
	sym := b.sf.Symbols.Get(b.sf.link(node).symbol)
	sym.ConstEnumOnlyModule = sym.ConstEnumOnlyModule.And(state == ConstEnumOnly)
}

// bindFunctionOrConstructorType gives `(x) => T` the same shape as
// `{ (x): T }`: a type literal whose only member is the signature.
func (b *binder) bindFunctionOrConstructorType(node ast.NodeID) {
	name, _ := b.declarationName(node)
	sig := b.newSymbol(symbols.Signature, b.intern(name))
	b.addDeclaration(sig, node, symbols.Signature)
	lit := b.newSymbol(symbols.TypeLiteral, b.intern("__type"))
	b.addDeclaration(lit, node, symbols.TypeLiteral)
	members := symbols.NewSymbolTable()
	members.Set(b.sf.Symbols.Get(sig).Name, sig)
	b.sf.Symbols.Get(lit).Members = members
}

type objectElementKind uint8

const (
	elementProperty objectElementKind = iota + 1
	elementAccessor
)

func (b *binder) bindObjectLiteralExpression(ctx bindContext, node ast.NodeID) {
	if ctx.inStrictMode {
		seen := make(map[string]objectElementKind)
		for _, prop := range b.node(node).List {
			p := b.node(prop)
			if b.file.Kind(p.Name) != ast.KindIdentifier {
				continue
			}
			current := elementAccessor
			switch p.Kind {
			case ast.KindPropertyAssignment, ast.KindShorthandPropertyAssignment, ast.KindMethodDeclaration:
				current = elementProperty
			}
			name := b.file.TextOf(p.Name)
			existing, ok := seen[name]
			if !ok {
				seen[name] = current
				continue
			}
			if current == elementProperty && existing == elementProperty {
				diag.ReportError(b.reporter, diag.StrictDuplicateProperty, b.node(p.Name).Span,
					"An object literal cannot have multiple properties with the same name in strict mode.").Emit()
			}
		}
	}
	b.bindAnonymousDeclaration(node, symbols.ObjectLiteral, "__object")
}

func (b *binder) bindExportAssignment(ctx bindContext, node ast.NodeID) {
	n := b.node(node)
	sym := b.sf.Symbols.Get(b.sf.link(ctx.container).symbol)
	if sym == nil || sym.Exports == nil {
		// export assignment in a block construct
		name, _ := b.declarationName(node)
		b.bindAnonymousDeclaration(node, symbols.Alias, name)
		return
	}
	exports, parent := b.exportsOf(ctx.container)
	if b.file.Kind(n.Expr) == ast.KindIdentifier {
		// exports every meaning of the identifier
		b.declareSymbol(exports, parent, node, symbols.Alias, symbols.PropertyExcludes|symbols.AliasExcludes)
		return
	}
	b.declareSymbol(exports, parent, node, symbols.Property, symbols.PropertyExcludes|symbols.AliasExcludes)
}

func (b *binder) bindExportDeclaration(ctx bindContext, node ast.NodeID) {
	n := b.node(node)
	sym := b.sf.Symbols.Get(b.sf.link(ctx.container).symbol)
	if sym == nil || sym.Exports == nil {
		b.bindAnonymousDeclaration(node, symbols.ExportStar, "__export")
		return
	}
	if !n.Expr.IsValid() {
		// every `export *` collects into one "__export" symbol
		exports, parent := b.exportsOf(ctx.container)
		b.declareSymbol(exports, parent, node, symbols.ExportStar, symbols.None)
	}
}

func (b *binder) bindClassLikeDeclaration(ctx bindContext, node ast.NodeID) {
	n := b.node(node)
	if n.Kind == ast.KindClassDeclaration {
		b.bindBlockScopedDeclaration(ctx, node, symbols.Class, symbols.ClassExcludes)
	} else {
		name := "__class"
		if n.Name.IsValid() {
			name = b.file.TextOf(n.Name)
		}
		b.bindAnonymousDeclaration(node, symbols.Class, name)
		if n.Name.IsValid() {
			b.sf.ClassifiableNames.Add(b.node(n.Name).Text)
		}
	}

	classID := b.sf.link(node).symbol
	key := b.intern("prototype")
	proto := b.newSymbol(symbols.Property|symbols.Prototype, key)
	exports := b.sf.Symbols.Get(classID).Exports
	if existing, ok := exports.Get(key); ok {
		// a merged namespace already exports "prototype"
		if decls := b.sf.Symbols.Get(existing).Declarations; len(decls) > 0 {
			diag.ReportError(b.reporter, diag.BindDuplicateIdentifier, b.errorSpan(decls[0]),
				"Duplicate identifier 'prototype'.").Emit()
		}
	}
	exports.Set(key, proto)
	b.sf.Symbols.Get(proto).Parent = classID
}

func (b *binder) bindVariableDeclarationOrBindingElement(ctx bindContext, node ast.NodeID) {
	n := b.node(node)
	if !b.file.IsCatchClauseVariable(node) {
		b.checkStrictModeEvalOrArguments(ctx, node, n.Name)
	}
	if ast.IsBindingPattern(b.file.Kind(n.Name)) {
		return
	}
	switch {
	case b.file.IsBlockOrCatchScoped(node):
		b.bindBlockScopedDeclaration(ctx, node, symbols.BlockScopedVariable, symbols.BlockScopedVariableExcludes)
	case b.file.IsParameterDeclaration(node):
		// binding elements of a destructured parameter collide like parameters
		b.declareInContainer(ctx, node, symbols.FunctionScopedVariable, symbols.ParameterExcludes)
	default:
		b.declareInContainer(ctx, node, symbols.FunctionScopedVariable, symbols.FunctionScopedVariableExcludes)
	}
}

func (b *binder) bindParameter(ctx bindContext, node ast.NodeID) {
	n := b.node(node)
	b.checkStrictModeEvalOrArguments(ctx, node, n.Name)
	if ast.IsBindingPattern(b.file.Kind(n.Name)) {
		b.bindAnonymousDeclaration(node, symbols.FunctionScopedVariable, b.destructuringParameterName(node))
	} else {
		b.declareInContainer(ctx, node, symbols.FunctionScopedVariable, symbols.ParameterExcludes)
	}

	// a parameter property is also a member of the class
	if n.Flags&ast.FlagsAccessibilityModifier == 0 || b.file.Kind(n.Parent) != ast.KindConstructor {
		return
	}
	class := b.node(n.Parent).Parent
	if !ast.IsClassLike(b.file.Kind(class)) {
		return
	}
	members, parent := b.membersOf(class)
	b.declareSymbol(members, parent, node, symbols.Property, symbols.PropertyExcludes)
}

func (b *binder) destructuringParameterName(node ast.NodeID) string {
	for i, p := range b.node(b.node(node).Parent).Params {
		if p == node {
			return "__" + strconv.Itoa(i)
		}
	}
	internalErrorf(node, "parameter not found in its parent")
	return ""
}

func (b *binder) bindPropertyOrMethodOrAccessor(ctx bindContext, node ast.NodeID, flags, excludes symbols.SymbolFlags) {
	if b.file.HasDynamicName(node) {
		b.bindAnonymousDeclaration(node, flags, "__computed")
		return
	}
	b.declareInContainer(ctx, node, flags, excludes)
}
