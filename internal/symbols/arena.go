package symbols

import "tsbind/internal/ast"

// Symbols is the arena every symbol of one file lives in. IDs are 1-based,
// so NoSymbolID never resolves.
type Symbols struct {
	arena *ast.Arena[Symbol]
}

func NewSymbols(capHint uint) *Symbols {
	return &Symbols{arena: ast.NewArena[Symbol](capHint)}
}

func (s *Symbols) New(sym Symbol) SymbolID {
	return SymbolID(s.arena.Allocate(sym))
}

// Get returns the symbol for id or nil. The pointer is invalidated by the
// next New.
func (s *Symbols) Get(id SymbolID) *Symbol {
	return s.arena.Get(uint32(id))
}

func (s *Symbols) Len() int { return int(s.arena.Len()) }

// Each calls fn for every symbol in allocation order.
func (s *Symbols) Each(fn func(SymbolID, *Symbol)) {
	data := s.arena.Slice()
	for i := range data {
		fn(SymbolID(i+1), &data[i]) //nolint:gosec // bounded by Allocate's overflow check
	}
}
