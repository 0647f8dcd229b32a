package binder

import (
	"tsbind/internal/ast"
)

// ModuleInstanceState tells whether a namespace needs a runtime object.
type ModuleInstanceState uint8

const (
	// NonInstantiated namespaces hold only types and non-exported imports.
	NonInstantiated ModuleInstanceState = iota
	// Instantiated namespaces hold at least one value.
	Instantiated
	// ConstEnumOnly namespaces hold const enums and otherwise only types.
	ConstEnumOnly
)

func (s ModuleInstanceState) String() string {
	switch s {
	case NonInstantiated:
		return "non-instantiated"
	case Instantiated:
		return "instantiated"
	case ConstEnumOnly:
		return "const-enum-only"
	}
	return "unknown"
}

// ModuleInstanceStateOf classifies node, normally a namespace declaration.
// It only reads the tree.
func ModuleInstanceStateOf(f *ast.File, node ast.NodeID) ModuleInstanceState {
	n := f.Node(node)
	if n == nil {
		return Instantiated
	}
	switch {
	case n.Kind == ast.KindInterfaceDeclaration, n.Kind == ast.KindTypeAliasDeclaration:
		return NonInstantiated
	case f.IsConstEnumDeclaration(node):
		return ConstEnumOnly
	case (n.Kind == ast.KindImportDeclaration || n.Kind == ast.KindImportEqualsDeclaration) && n.Flags&ast.FlagExport == 0:
		return NonInstantiated
	case n.Kind == ast.KindModuleBlock:
		state := NonInstantiated
		f.ForEachChild(node, func(child ast.NodeID) bool {
			switch ModuleInstanceStateOf(f, child) {
			case ConstEnumOnly:
				state = ConstEnumOnly
			case Instantiated:
				state = Instantiated
				return false
			}
			return true
		})
		return state
	case n.Kind == ast.KindModuleDeclaration:
		return ModuleInstanceStateOf(f, n.Body)
	}
	return Instantiated
}
