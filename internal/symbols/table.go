package symbols

import "tsbind/internal/source"

// Hints provide optional capacity suggestions for the symbol arena.
type Hints struct{ Symbols uint }

// Table aggregates the symbol arena and the interner symbol names live in.
type Table struct {
	Symbols *Symbols
	Strings *source.Interner
}

// NewTable builds a fresh table. If strings is nil, a fresh interner is
// allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Symbols: NewSymbols(h.Symbols),
		Strings: strings,
	}
}

// NewSymbol allocates a symbol with no declarations.
func (t *Table) NewSymbol(flags SymbolFlags, name source.StringID) SymbolID {
	return t.Symbols.New(Symbol{Flags: flags, Name: name})
}

func (t *Table) Get(id SymbolID) *Symbol {
	return t.Symbols.Get(id)
}

// Name returns the symbol's name text.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	s, _ := t.Strings.Lookup(sym.Name)
	return s
}

// Lookup finds name in table without interning it.
func (t *Table) Lookup(table *SymbolTable, name string) (SymbolID, bool) {
	key, ok := t.Strings.Find(name)
	if !ok {
		return NoSymbolID, false
	}
	return table.Get(key)
}

// Exports returns the exports table of id, allocating it if needed.
func (t *Table) Exports(id SymbolID) *SymbolTable {
	sym := t.Symbols.Get(id)
	if sym.Exports == nil {
		sym.Exports = NewSymbolTable()
	}
	return sym.Exports
}

// Members returns the members table of id, allocating it if needed.
func (t *Table) Members(id SymbolID) *SymbolTable {
	sym := t.Symbols.Get(id)
	if sym.Members == nil {
		sym.Members = NewSymbolTable()
	}
	return sym.Members
}

// Names returns the keys of table as strings, in table order.
func (t *Table) Names(table *SymbolTable) []string {
	out := make([]string, 0, table.Len())
	for _, key := range table.Names() {
		s, _ := t.Strings.Lookup(key)
		out = append(out, s)
	}
	return out
}
