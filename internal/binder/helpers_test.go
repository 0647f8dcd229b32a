package binder

import (
	"testing"

	"tsbind/internal/ast"
	"tsbind/internal/diag"
	"tsbind/internal/symbols"
)

func bindFile(t *testing.T, f *ast.File) *SourceFile {
	t.Helper()
	sf := NewSourceFile(f)
	if _, err := Bind(sf, Options{Validate: true}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return sf
}

// mustLookup returns the symbol stored under name in table.
func mustLookup(t *testing.T, sf *SourceFile, table *symbols.SymbolTable, name string) (symbols.SymbolID, *symbols.Symbol) {
	t.Helper()
	id, ok := sf.Symbols.Lookup(table, name)
	if !ok {
		t.Fatalf("%q not found in table", name)
	}
	return id, sf.Symbol(id)
}

func assertMissing(t *testing.T, sf *SourceFile, table *symbols.SymbolTable, name string) {
	t.Helper()
	if _, ok := sf.Symbols.Lookup(table, name); ok {
		t.Fatalf("%q unexpectedly present", name)
	}
}

func diagCodes(sf *SourceFile) []diag.Code {
	items := sf.BindDiagnostics.Items()
	out := make([]diag.Code, 0, len(items))
	for _, d := range items {
		out = append(out, d.Code)
	}
	return out
}

func assertNoDiagnostics(t *testing.T, sf *SourceFile) {
	t.Helper()
	for _, d := range sf.BindDiagnostics.Items() {
		t.Errorf("unexpected diagnostic %s: %s", d.Code, d.Message)
	}
}

func onlyDiagnostic(t *testing.T, sf *SourceFile) diag.Diagnostic {
	t.Helper()
	items := sf.BindDiagnostics.Items()
	if len(items) != 1 {
		for _, d := range items {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatalf("got %d diagnostics, want 1", len(items))
	}
	return items[0]
}
