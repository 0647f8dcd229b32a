package binder

import (
	"fmt"

	"tsbind/internal/ast"
	"tsbind/internal/diag"
	"tsbind/internal/source"
	"tsbind/internal/symbols"
)

func (b *binder) newSymbol(flags symbols.SymbolFlags, name source.StringID) symbols.SymbolID {
	b.symbolCount++
	return b.sf.Symbols.NewSymbol(flags, name)
}

func (b *binder) addDeclaration(id symbols.SymbolID, node ast.NodeID, flags symbols.SymbolFlags) {
	sym := b.sf.Symbols.Get(id)
	sym.Flags |= flags
	b.sf.link(node).symbol = id
	sym.Declarations = append(sym.Declarations, node)
	if flags&symbols.HasExports != 0 && sym.Exports == nil {
		sym.Exports = symbols.NewSymbolTable()
	}
	if flags&symbols.HasMembers != 0 && sym.Members == nil {
		sym.Members = symbols.NewSymbolTable()
	}
	if flags&symbols.Value != 0 && !sym.ValueDeclaration.IsValid() {
		sym.ValueDeclaration = node
	}
}

// declarationName computes the table key of node. ok is false for
// declarations that have no name to look up.
func (b *binder) declarationName(node ast.NodeID) (name string, ok bool) {
	n := b.node(node)
	if n.Name.IsValid() {
		nameNode := b.node(n.Name)
		switch {
		case n.Kind == ast.KindModuleDeclaration && nameNode.Kind == ast.KindStringLiteral:
			return `"` + b.file.TextOf(n.Name) + `"`, true
		case nameNode.Kind == ast.KindComputedPropertyName:
			if !b.file.IsWellKnownSymbolSyntactically(nameNode.Expr) {
				internalErrorf(node, "computed name is not a well-known symbol")
			}
			return b.file.WellKnownSymbolName(nameNode.Expr), true
		}
		return b.file.TextOf(n.Name), true
	}
	switch n.Kind {
	case ast.KindConstructor:
		return "__constructor", true
	case ast.KindFunctionType, ast.KindCallSignature:
		return "__call", true
	case ast.KindConstructorType, ast.KindConstructSignature:
		return "__new", true
	case ast.KindIndexSignature:
		return "__index", true
	case ast.KindExportDeclaration:
		return "__export", true
	case ast.KindExportAssignment:
		if n.Flags&ast.FlagExportEquals != 0 {
			return "export=", true
		}
		return "default", true
	case ast.KindFunctionDeclaration, ast.KindClassDeclaration:
		if n.Flags&ast.FlagDefault != 0 {
			return "default", true
		}
	}
	return "", false
}

// displayName renders node for messages.
func (b *binder) displayName(node ast.NodeID) string {
	if n := b.node(node); n.Name.IsValid() {
		return b.file.DeclarationNameToString(n.Name)
	}
	name, _ := b.declarationName(node)
	return name
}

// declareSymbol merges node into table under its declaration name. When the
// existing symbol's meanings intersect excludes, a duplicate diagnostic is
// reported and the slot is taken over by a fresh symbol.
func (b *binder) declareSymbol(table *symbols.SymbolTable, parent symbols.SymbolID, node ast.NodeID, includes, excludes symbols.SymbolFlags) symbols.SymbolID {
	if b.file.HasDynamicName(node) {
		internalErrorf(node, "dynamic name reached declareSymbol")
	}
	if table == nil {
		internalErrorf(node, "no symbol table to declare %s in", b.file.Kind(node))
	}

	var (
		name string
		ok   bool
	)
	// default exports are always named "default" in their parent
	if b.node(node).Flags&ast.FlagDefault != 0 && parent.IsValid() {
		name, ok = "default", true
	} else {
		name, ok = b.declarationName(node)
	}

	var id symbols.SymbolID
	if !ok {
		id = b.newSymbol(symbols.None, b.intern("__missing"))
	} else {
		key := b.intern(name)
		existing, found := table.Get(key)
		if !found {
			existing = b.newSymbol(symbols.None, key)
			table.Set(key, existing)
		}
		if name != "" && includes&symbols.Classifiable != 0 {
			b.sf.ClassifiableNames.Add(key)
		}
		id = existing
		if b.sf.Symbols.Get(existing).Flags&excludes != 0 {
			b.reportDuplicate(existing, node)
			id = b.newSymbol(symbols.None, key)
			table.Set(key, id)
		}
	}

	b.addDeclaration(id, node, includes)
	b.sf.Symbols.Get(id).Parent = parent
	return id
}

// reportDuplicate emits one diagnostic on the new declaration with a note for
// every declaration already on existing.
func (b *binder) reportDuplicate(existing symbols.SymbolID, node ast.NodeID) {
	sym := b.sf.Symbols.Get(existing)
	code, format := diag.BindDuplicateIdentifier, "Duplicate identifier '%s'."
	if sym.Flags&symbols.BlockScopedVariable != 0 {
		code, format = diag.BindRedeclareBlockScoped, "Cannot redeclare block-scoped variable '%s'."
	}
	rb := diag.ReportError(b.reporter, code, b.errorSpan(node), fmt.Sprintf(format, b.displayName(node)))
	for _, decl := range sym.Declarations {
		rb.WithNote(b.errorSpan(decl), fmt.Sprintf("'%s' was also declared here.", b.displayName(decl)))
	}
	rb.Emit()
}

// bindAnonymousDeclaration creates a symbol that lives in no table.
func (b *binder) bindAnonymousDeclaration(node ast.NodeID, flags symbols.SymbolFlags, name string) symbols.SymbolID {
	id := b.newSymbol(flags, b.intern(name))
	b.addDeclaration(id, node, flags)
	return id
}

func (b *binder) containerSymbol(container ast.NodeID) symbols.SymbolID {
	id := b.sf.link(container).symbol
	if !id.IsValid() {
		internalErrorf(container, "container %s has no symbol", b.file.Kind(container))
	}
	return id
}

func (b *binder) exportsOf(container ast.NodeID) (*symbols.SymbolTable, symbols.SymbolID) {
	id := b.containerSymbol(container)
	return b.sf.Symbols.Get(id).Exports, id
}

func (b *binder) membersOf(container ast.NodeID) (*symbols.SymbolTable, symbols.SymbolID) {
	id := b.containerSymbol(container)
	return b.sf.Symbols.Get(id).Members, id
}

func (b *binder) localsOf(container ast.NodeID) *symbols.SymbolTable {
	return b.sf.link(container).locals
}

// declareInContainer routes node to the table its container dictates.
func (b *binder) declareInContainer(ctx bindContext, node ast.NodeID, flags, excludes symbols.SymbolFlags) symbols.SymbolID {
	switch b.file.Kind(ctx.container) {
	case ast.KindModuleDeclaration:
		return b.declareModuleMember(ctx, node, flags, excludes)
	case ast.KindSourceFile:
		return b.declareSourceFileMember(ctx, node, flags, excludes)
	case ast.KindClassExpression, ast.KindClassDeclaration:
		return b.declareClassMember(ctx, node, flags, excludes)
	case ast.KindEnumDeclaration:
		exports, parent := b.exportsOf(ctx.container)
		return b.declareSymbol(exports, parent, node, flags, excludes)
	case ast.KindTypeLiteral, ast.KindObjectLiteral, ast.KindInterfaceDeclaration:
		members, parent := b.membersOf(ctx.container)
		return b.declareSymbol(members, parent, node, flags, excludes)
	case ast.KindFunctionType, ast.KindConstructorType, ast.KindCallSignature,
		ast.KindConstructSignature, ast.KindIndexSignature, ast.KindMethodDeclaration,
		ast.KindMethodSignature, ast.KindConstructor, ast.KindGetAccessor,
		ast.KindSetAccessor, ast.KindFunctionDeclaration, ast.KindFunctionExpression,
		ast.KindArrowFunction, ast.KindTypeAliasDeclaration:
		return b.declareSymbol(b.localsOf(ctx.container), symbols.NoSymbolID, node, flags, excludes)
	}
	internalErrorf(node, "unexpected container %s", b.file.Kind(ctx.container))
	return symbols.NoSymbolID
}

func (b *binder) declareClassMember(ctx bindContext, node ast.NodeID, flags, excludes symbols.SymbolFlags) symbols.SymbolID {
	if b.node(node).Flags&ast.FlagStatic != 0 {
		exports, parent := b.exportsOf(ctx.container)
		return b.declareSymbol(exports, parent, node, flags, excludes)
	}
	members, parent := b.membersOf(ctx.container)
	return b.declareSymbol(members, parent, node, flags, excludes)
}

func (b *binder) declareSourceFileMember(ctx bindContext, node ast.NodeID, flags, excludes symbols.SymbolFlags) symbols.SymbolID {
	if b.file.IsExternalModule() {
		return b.declareModuleMember(ctx, node, flags, excludes)
	}
	return b.declareSymbol(b.localsOf(ctx.container), symbols.NoSymbolID, node, flags, excludes)
}

// declareModuleMember declares an exported member twice: once in the
// container's exports with its real meaning, and once in its locals with an
// export marker so unqualified lookups inside the container still find it.
func (b *binder) declareModuleMember(ctx bindContext, node ast.NodeID, flags, excludes symbols.SymbolFlags) symbols.SymbolID {
	hasExport := b.file.CombinedFlags(node)&ast.FlagExport != 0
	kind := b.file.Kind(node)

	if flags&symbols.Alias != 0 {
		if kind == ast.KindExportSpecifier || (kind == ast.KindImportEqualsDeclaration && hasExport) {
			exports, parent := b.exportsOf(ctx.container)
			return b.declareSymbol(exports, parent, node, flags, excludes)
		}
		return b.declareSymbol(b.localsOf(ctx.container), symbols.NoSymbolID, node, flags, excludes)
	}

	if !hasExport && b.node(ctx.container).Flags&ast.FlagExportContext == 0 {
		return b.declareSymbol(b.localsOf(ctx.container), symbols.NoSymbolID, node, flags, excludes|symbols.LocalMemberExcludes)
	}

	var exportKind symbols.SymbolFlags
	if flags&symbols.Value != 0 {
		exportKind |= symbols.ExportValue
	}
	if flags&symbols.Type != 0 {
		exportKind |= symbols.ExportType
	}
	if flags&symbols.Namespace != 0 {
		exportKind |= symbols.ExportNamespace
	}
	local := b.declareSymbol(b.localsOf(ctx.container), symbols.NoSymbolID, node, exportKind, excludes|symbols.ExportMarkerExcludes)
	exports, parent := b.exportsOf(ctx.container)
	exported := b.declareSymbol(exports, parent, node, flags, excludes)
	b.sf.Symbols.Get(local).ExportSymbol = exported
	b.sf.link(node).localSymbol = local
	return local
}

// bindBlockScopedDeclaration declares let, const, class, interface, type
// alias and enum declarations in the nearest block scope.
func (b *binder) bindBlockScopedDeclaration(ctx bindContext, node ast.NodeID, flags, excludes symbols.SymbolFlags) {
	switch b.file.Kind(ctx.blockScopeContainer) {
	case ast.KindModuleDeclaration:
		b.declareModuleMember(ctx, node, flags, excludes)
		return
	case ast.KindSourceFile:
		if b.file.IsExternalModule() {
			b.declareModuleMember(ctx, node, flags, excludes)
			return
		}
	}
	link := b.sf.link(ctx.blockScopeContainer)
	if link.locals == nil {
		link.locals = symbols.NewSymbolTable()
		b.addToContainerChain(ctx.blockScopeContainer)
	}
	b.declareSymbol(link.locals, symbols.NoSymbolID, node, flags, excludes)
}
