package symbols

import (
	"tsbind/internal/ast"
	"tsbind/internal/source"
)

// Symbol is a named entity collecting every declaration that contributed to
// it.
type Symbol struct {
	Name  source.StringID
	Flags SymbolFlags
	// Declarations grows in source order and is never reordered.
	Declarations []ast.NodeID
	// ValueDeclaration is the first declaration that introduced a value
	// meaning.
	ValueDeclaration ast.NodeID

	// Exports and Members are allocated on first need and never replaced.
	Exports *SymbolTable
	Members *SymbolTable

	Parent SymbolID
	// ExportSymbol links a module-local symbol to the exported symbol it
	// mirrors.
	ExportSymbol SymbolID
	// ConstEnumOnlyModule is True when every merged namespace declaration
	// contained only const enums and types.
	ConstEnumOnlyModule Tristate
}

func (s *Symbol) HasDeclaration(id ast.NodeID) bool {
	for _, decl := range s.Declarations {
		if decl == id {
			return true
		}
	}
	return false
}
