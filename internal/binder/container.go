package binder

import (
	"tsbind/internal/ast"
	"tsbind/internal/symbols"
	"tsbind/internal/trace"
)

// ContainerFlags describes how a node affects the scope chain.
type ContainerFlags uint8

const (
	// IsContainer nodes own a symbol whose tables receive child declarations.
	IsContainer ContainerFlags = 1 << iota
	// IsBlockScopedContainer nodes hold let, const and other block-scoped
	// declarations.
	IsBlockScopedContainer
	// HasLocals containers get a fresh locals table on entry.
	HasLocals
)

const (
	ContainerNone         ContainerFlags = 0
	IsContainerWithLocals                = IsContainer | HasLocals
)

// ContainerFlagsOf classifies node. Blocks depend on their parent, so the
// parent link of node must already be set.
func ContainerFlagsOf(f *ast.File, node ast.NodeID) ContainerFlags {
	switch f.Kind(node) {
	case ast.KindClassExpression, ast.KindClassDeclaration, ast.KindInterfaceDeclaration,
		ast.KindEnumDeclaration, ast.KindTypeLiteral, ast.KindObjectLiteral:
		return IsContainer

	case ast.KindCallSignature, ast.KindConstructSignature, ast.KindIndexSignature,
		ast.KindMethodDeclaration, ast.KindMethodSignature, ast.KindFunctionDeclaration,
		ast.KindConstructor, ast.KindGetAccessor, ast.KindSetAccessor,
		ast.KindFunctionType, ast.KindConstructorType, ast.KindFunctionExpression,
		ast.KindArrowFunction, ast.KindModuleDeclaration, ast.KindSourceFile,
		ast.KindTypeAliasDeclaration:
		return IsContainerWithLocals

	case ast.KindCatchClause, ast.KindForStatement, ast.KindForInStatement,
		ast.KindForOfStatement, ast.KindCaseBlock:
		return IsBlockScopedContainer

	case ast.KindBlock:
		if f.IsFunctionBlock(node) {
			return ContainerNone
		}
		return IsBlockScopedContainer
	}
	return ContainerNone
}

func (c ContainerFlags) Has(mask ContainerFlags) bool { return c&mask != 0 }

// bindContext is the walk position. It is copied into every recursive call,
// so returning from a call restores the caller's position.
type bindContext struct {
	parent              ast.NodeID
	container           ast.NodeID
	blockScopeContainer ast.NodeID
	inStrictMode        bool
}

// bind links node to its parent, binds its own declaration and then its
// children.
func (b *binder) bind(ctx bindContext, node ast.NodeID) {
	n := b.node(node)
	n.Parent = ctx.parent
	if !ctx.inStrictMode {
		ctx.inStrictMode = b.updateStrictMode(node)
	}
	b.bindWorker(ctx, node)
	b.bindChildren(ctx, node)
}

func (b *binder) bindChildren(ctx bindContext, node ast.NodeID) {
	ctx.parent = node
	flags := ContainerFlagsOf(b.file, node)
	switch {
	case flags.Has(IsContainer):
		ctx.container = node
		ctx.blockScopeContainer = node
		if flags.Has(HasLocals) {
			b.sf.link(node).locals = symbols.NewSymbolTable()
		}
		b.addToContainerChain(node)
		b.traceContainer(node)
	case flags.Has(IsBlockScopedContainer):
		ctx.blockScopeContainer = node
		b.sf.link(node).locals = nil
	}
	b.file.ForEachChild(node, func(child ast.NodeID) bool {
		b.bind(ctx, child)
		return true
	})
}

func (b *binder) traceContainer(node ast.NodeID) {
	if b.tracer == nil {
		return
	}
	var name string
	if n := b.node(node); n.Name.IsValid() {
		name = b.file.DeclarationNameToString(n.Name)
	}
	trace.Point(b.tracer, trace.ScopeContainer, "container:"+b.file.Kind(node).String(), name, b.span)
}

func (b *binder) addToContainerChain(next ast.NodeID) {
	if b.lastContainer.IsValid() {
		b.sf.link(b.lastContainer).nextContainer = next
	}
	b.lastContainer = next
}
