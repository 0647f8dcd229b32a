package index

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tsbind/internal/ast"
	"tsbind/internal/binder"
	"tsbind/internal/source"
)

func boundModule(t *testing.T) (*binder.SourceFile, *source.FileSet, ast.NodeID) {
	t.Helper()
	fs := source.NewFileSet()
	b := ast.NewBuilder("util.ts")
	helper := b.Func(ast.FlagExport, "helper", b.Params("a"), b.Block(
		b.VarStmt(ast.FlagLet, b.Var("inner")),
	))
	f := b.Finish(helper, b.VarStmt(0, b.Var("hidden")))
	b.Register(fs)
	sf := binder.NewSourceFile(f)
	if _, err := binder.Bind(sf, binder.Options{}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return sf, fs, helper
}

func openIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(context.Background(), filepath.Join(t.TempDir(), "symbols.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestAddFileAndLookup(t *testing.T) {
	ctx := context.Background()
	sf, fs, helper := boundModule(t)
	ix := openIndex(t)
	if err := ix.AddFile(ctx, sf, fs); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	pos, _ := fs.Resolve(sf.AST.Node(sf.AST.Node(helper).Name).Span)
	line, col := int(pos.Line), int(pos.Col)
	got, err := ix.Lookup(ctx, "helper")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	want := []Declaration{
		{File: "util.ts", Symbol: "helper", Flags: "Function", Table: "exports", Owner: `"util"`, Kind: "FunctionDeclaration", Line: line, Col: col},
		{File: "util.ts", Symbol: "helper", Flags: "ExportValue", Table: "locals", Owner: "SourceFile", Kind: "FunctionDeclaration", Line: line, Col: col},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("helper declarations mismatch (-want +got):\n%s", diff)
	}

	inner, err := ix.Lookup(ctx, "inner")
	if err != nil || len(inner) != 1 || inner[0].Owner != "FunctionDeclaration helper" || inner[0].Table != "locals" {
		t.Fatalf("inner = %+v, %v", inner, err)
	}
	module, err := ix.Lookup(ctx, `"util"`)
	if err != nil || len(module) != 1 || module[0].Table != "" || module[0].Kind != "SourceFile" {
		t.Fatalf("module symbol = %+v, %v", module, err)
	}
	if none, err := ix.Lookup(ctx, "missing"); err != nil || none != nil {
		t.Fatalf("missing = %+v, %v", none, err)
	}
}

func TestAddFileReplacesEarlierCopy(t *testing.T) {
	ctx := context.Background()
	sf, fs, _ := boundModule(t)
	ix := openIndex(t)
	for range 2 {
		if err := ix.AddFile(ctx, sf, fs); err != nil {
			t.Fatalf("AddFile: %v", err)
		}
	}
	files, syms, err := ix.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if files != 1 || syms != sf.Symbols.Symbols.Len() {
		t.Fatalf("stats = %d files, %d symbols, want 1 and %d", files, syms, sf.Symbols.Symbols.Len())
	}
}

func TestAddFileRejectsUnboundAndClosed(t *testing.T) {
	ctx := context.Background()
	ix := openIndex(t)
	b := ast.NewBuilder("raw.ts")
	raw := binder.NewSourceFile(b.Finish())
	if err := ix.AddFile(ctx, raw, source.NewFileSet()); err == nil {
		t.Fatal("unbound file accepted")
	}

	sf, fs, _ := boundModule(t)
	if err := ix.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ix.AddFile(ctx, sf, fs); !errors.Is(err, ErrClosed) {
		t.Fatalf("AddFile after Close = %v", err)
	}
	if _, err := ix.Lookup(ctx, "helper"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Lookup after Close = %v", err)
	}
}

func TestAddFileNeedsSourceText(t *testing.T) {
	ctx := context.Background()
	ix := openIndex(t)
	sf, fs, helper := boundModule(t)

	if err := ix.AddFile(ctx, sf, source.NewFileSet()); !errors.Is(err, ErrNoSource) {
		t.Fatalf("AddFile without text = %v, want ErrNoSource", err)
	}

	// a declaration whose span points at another file
	other := fs.AddVirtual("other.ts", []byte("function helper() {}\n"))
	sf.AST.Node(sf.AST.Node(helper).Name).Span.File = other
	if err := ix.AddFile(ctx, sf, fs); !errors.Is(err, ErrNoSource) {
		t.Fatalf("AddFile with foreign span = %v, want ErrNoSource", err)
	}

	files, syms, err := ix.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if files != 0 || syms != 0 {
		t.Fatalf("failed adds left %d files, %d symbols", files, syms)
	}
}
