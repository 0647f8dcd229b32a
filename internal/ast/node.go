package ast

import "tsbind/internal/source"

// Node is a single syntax node. Child slots hold NodeIDs into the owning
// File's arena; their meaning depends on Kind (see ForEachChild).
//
// Slot conventions for the less obvious kinds:
//   - VariableStatement: Expr is the VariableDeclarationList; Export/Ambient
//     live on the statement, Let/Const on the list.
//   - ForStatement: List is [initializer, condition, incrementor].
//   - ForIn/ForOf: Expr is the initializer, Right the iterated expression.
//   - TryStatement: List is [tryBlock, catchClause, finallyBlock].
//   - CatchClause: Expr is the VariableDeclaration, Body the block.
//   - ConditionalExpression: List is [condition, whenTrue, whenFalse].
//   - ImportDeclaration: Expr is the ImportClause, Right the module specifier.
//   - ImportClause: Name is the default binding, Expr the named bindings.
//   - ExportDeclaration: Expr is NamedExports or none for `export *`, Right the
//     module specifier.
//   - ModuleDeclaration: Body is a ModuleBlock or a nested ModuleDeclaration.
type Node struct {
	Kind     Kind
	Flags    NodeFlags
	Operator Operator
	Span     source.Span
	// Parent is written by the binder.
	Parent NodeID

	// Text is the identifier name or the cooked literal value.
	Text source.StringID
	// Raw is the literal as written, quotes included.
	Raw source.StringID

	PropertyName NodeID
	Name         NodeID
	TypeParams   []NodeID
	Params       []NodeID
	Heritage     []NodeID
	Type         NodeID
	Expr         NodeID
	Right        NodeID
	List         []NodeID
	Body         NodeID
}

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

func (n *Node) HasFlags(mask NodeFlags) bool {
	return n != nil && n.Flags&mask != 0
}
