package symbols

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tsbind/internal/ast"
	"tsbind/internal/source"
)

func TestSymbolTableKeepsFirstWriteOrder(t *testing.T) {
	table := NewSymbolTable()
	table.Set(3, 1)
	table.Set(1, 2)
	table.Set(3, 5)
	if diff := cmp.Diff([]source.StringID{3, 1}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if id, _ := table.Get(3); id != 5 {
		t.Fatalf("Get(3) = %d, want 5", id)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
}

func TestNilTablesAreEmpty(t *testing.T) {
	var table *SymbolTable
	if table.Len() != 0 || table.Has(1) {
		t.Fatalf("nil table not empty")
	}
	var set *NameSet
	if set.Len() != 0 || set.Has(1) {
		t.Fatalf("nil set not empty")
	}
}

func TestValidate(t *testing.T) {
	table := NewTable(Hints{}, nil)
	name := table.Strings.Intern("x")
	cls := table.NewSymbol(Class, name)
	table.Get(cls).Declarations = []ast.NodeID{1}
	table.Get(cls).ValueDeclaration = 1

	member := table.NewSymbol(Property, table.Strings.Intern("m"))
	table.Get(member).Declarations = []ast.NodeID{2}
	table.Members(cls).Set(table.Get(member).Name, member)

	locals := NewSymbolTable()
	locals.Set(name, cls)
	if err := table.Validate(locals); err != nil {
		t.Fatalf("validate: %v", err)
	}

	locals.Set(table.Strings.Intern("y"), cls)
	if err := table.Validate(locals); err == nil {
		t.Fatalf("expected key/name mismatch to be reported")
	}

	table.Get(member).Exports = table.Get(cls).Members
	if err := table.Validate(); err == nil {
		t.Fatalf("expected shared table to be reported")
	}
}
