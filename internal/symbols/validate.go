package symbols

import (
	"errors"
	"fmt"

	"tsbind/internal/source"
)

// Validate walks the arena checking structural invariants. Tables not owned
// by a symbol, such as container locals, are passed in as extra. Returns nil
// if everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate(extra ...*SymbolTable) error {
	var errs []error
	owners := make(map[*SymbolTable]SymbolID)

	checkTable := func(where string, table *SymbolTable) {
		table.Each(func(name source.StringID, id SymbolID) {
			sym := t.Symbols.Get(id)
			if sym == nil {
				errs = append(errs, fmt.Errorf("%s: entry %d references missing symbol %d", where, name, id))
				return
			}
			if sym.Name != name {
				errs = append(errs, fmt.Errorf("%s: key %d holds symbol %d named %d", where, name, id, sym.Name))
			}
		})
	}

	t.Symbols.Each(func(symbolID SymbolID, sym *Symbol) {
		if !t.Strings.Has(sym.Name) {
			errs = append(errs, fmt.Errorf("symbol %d has unknown name %d", symbolID, sym.Name))
		}
		if len(sym.Declarations) == 0 && sym.Flags&(Prototype|Transient) == 0 {
			errs = append(errs, fmt.Errorf("symbol %d has no declarations", symbolID))
		}
		if sym.ValueDeclaration.IsValid() && !sym.HasDeclaration(sym.ValueDeclaration) {
			errs = append(errs, fmt.Errorf("symbol %d value declaration %d is not among its declarations", symbolID, sym.ValueDeclaration))
		}
		if sym.Parent.IsValid() && t.Symbols.Get(sym.Parent) == nil {
			errs = append(errs, fmt.Errorf("symbol %d has invalid parent %d", symbolID, sym.Parent))
		}
		if sym.ExportSymbol.IsValid() && t.Symbols.Get(sym.ExportSymbol) == nil {
			errs = append(errs, fmt.Errorf("symbol %d has invalid export symbol %d", symbolID, sym.ExportSymbol))
		}
		for _, owned := range []struct {
			kind  string
			table *SymbolTable
		}{{"exports", sym.Exports}, {"members", sym.Members}} {
			if owned.table == nil {
				continue
			}
			if prev, ok := owners[owned.table]; ok {
				errs = append(errs, fmt.Errorf("symbol %d %s table already owned by symbol %d", symbolID, owned.kind, prev))
				continue
			}
			owners[owned.table] = symbolID
			checkTable(fmt.Sprintf("symbol %d %s", symbolID, owned.kind), owned.table)
		}
	})

	for i, table := range extra {
		if table == nil {
			continue
		}
		if prev, ok := owners[table]; ok {
			errs = append(errs, fmt.Errorf("locals table %d is also owned by symbol %d", i, prev))
			continue
		}
		checkTable(fmt.Sprintf("locals %d", i), table)
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
