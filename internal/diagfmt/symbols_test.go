package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"tsbind/internal/ast"
	"tsbind/internal/binder"
	"tsbind/internal/source"
)

func boundModule(t *testing.T) (*binder.SourceFile, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	b := ast.NewBuilder("util.ts")
	f := b.Finish(
		b.Func(ast.FlagExport, "helper", b.Params("a"), b.Block(
			b.VarStmt(ast.FlagLet, b.Var("inner")),
		)),
		b.VarStmt(0, b.Var("hidden")),
	)
	b.Register(fs)
	sf := binder.NewSourceFile(f)
	if _, err := binder.Bind(sf, binder.Options{}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return sf, fs
}

func TestSymbolsPretty(t *testing.T) {
	sf, fs := boundModule(t)
	var buf bytes.Buffer
	SymbolsPretty(&buf, sf, fs, SymbolOpts{PathMode: PathModeBasename, Containers: true})
	out := buf.String()
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], `util.ts  module "util"  (`) {
		t.Fatalf("header = %q", lines[0])
	}
	for _, want := range []string{"├─ exports", "helper  Function", "hidden  FunctionScopedVariable", "└─ containers", "FunctionDeclaration helper", "a  FunctionScopedVariable", "exported"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("uncolored output has escape codes")
	}
}

func TestSymbolsJSON(t *testing.T) {
	sf, fs := boundModule(t)
	var buf bytes.Buffer
	if err := SymbolsJSON(&buf, []*binder.SourceFile{sf}, fs, SymbolOpts{PathMode: PathModeBasename, Containers: true}); err != nil {
		t.Fatalf("SymbolsJSON: %v", err)
	}
	var got []FileSymbolsJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("files = %d", len(got))
	}
	file := got[0]
	if file.File != "util.ts" || file.Module != `"util"` || file.SymbolCount != sf.SymbolCount {
		t.Fatalf("file header = %+v", file)
	}
	if len(file.Exports) != 1 || file.Exports[0].Name != "helper" {
		t.Fatalf("exports = %+v", file.Exports)
	}
	names := map[string]bool{}
	for _, s := range file.Locals {
		names[s.Name] = s.Exported
	}
	if exported, ok := names["helper"]; !ok || !exported {
		t.Fatalf("locals = %+v", file.Locals)
	}
	if _, ok := names["hidden"]; !ok {
		t.Fatalf("locals lack hidden: %+v", file.Locals)
	}
	decl := file.Exports[0].Declarations
	if len(decl) != 1 || decl[0].StartLine != 1 || decl[0].StartCol == 0 {
		t.Fatalf("helper declarations = %+v", decl)
	}
	var sawFunc bool
	for _, c := range file.Containers {
		if c.Kind == ast.KindFunctionDeclaration.String() && c.Name == "helper" {
			sawFunc = true
			if len(c.Locals) != 2 || c.Locals[0].Name != "a" || c.Locals[1].Name != "inner" {
				t.Fatalf("helper locals = %+v", c.Locals)
			}
		}
	}
	if !sawFunc {
		t.Fatalf("containers = %+v", file.Containers)
	}
}

func TestSymbolsYAMLMatchesJSONDocument(t *testing.T) {
	sf, fs := boundModule(t)
	opts := SymbolOpts{PathMode: PathModeBasename, Containers: true}
	var buf bytes.Buffer
	if err := SymbolsYAML(&buf, []*binder.SourceFile{sf}, fs, opts); err != nil {
		t.Fatalf("SymbolsYAML: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "- file: util.ts\n") {
		t.Fatalf("unexpected document start:\n%s", buf.String())
	}
	var got []FileSymbolsJSON
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	want := []FileSymbolsJSON{BuildSymbolsOutput(sf, fs, opts)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("yaml document mismatch (-want +got):\n%s", diff)
	}
}
