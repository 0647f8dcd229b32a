package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"tsbind/internal/ast"
	"tsbind/internal/diag"
	"tsbind/internal/testkit"
	"tsbind/internal/trace"
)

func writeDump(t *testing.T, dir, name string, f *ast.File) string {
	t.Helper()
	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer out.Close()
	switch DumpFormatOf(name) {
	case DumpJSON:
		err = ast.EncodeJSON(out, f)
	case DumpMsgpack:
		err = ast.EncodeMsgpack(out, f)
	default:
		_, err = out.WriteString("not a dump")
	}
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func redeclaredLet() *ast.File {
	b := ast.NewBuilder("redeclared.ts")
	return b.Finish(
		b.VarStmt(ast.FlagLet, b.Var("x")),
		b.VarStmt(ast.FlagLet, b.Var("x")),
	)
}

func cleanModule() *ast.File {
	b := ast.NewBuilder("lib/clean.ts")
	return b.Finish(
		b.Func(ast.FlagExport, "helper", b.Params("a"), b.Block()),
		b.Class(0, "Local", nil),
	)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *recordingSink) last(file string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].File == file {
			return s.events[i], true
		}
	}
	return Event{}, false
}

func TestBindFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDump(t, dir, "redeclared.json", redeclaredLet()),
		writeDump(t, dir, "clean.tsast", cleanModule()),
		writeDump(t, dir, "broken.txt", nil),
	}
	sink := &recordingSink{}
	report, err := BindFiles(context.Background(), paths, Options{Jobs: 2, Validate: true, Progress: sink})
	if err != nil {
		t.Fatalf("BindFiles: %v", err)
	}
	if _, err := uuid.Parse(report.RunID); err != nil {
		t.Fatalf("run id %q: %v", report.RunID, err)
	}
	if len(report.Files) != 3 {
		t.Fatalf("results = %d, want 3", len(report.Files))
	}
	for i, res := range report.Files {
		if res.Path != paths[i] {
			t.Fatalf("result %d path = %s, want %s", i, res.Path, paths[i])
		}
	}

	redeclared := report.Files[0]
	if redeclared.Err != nil {
		t.Fatalf("redeclared: %v", redeclared.Err)
	}
	items := redeclared.Diagnostics.Items()
	if len(items) != 1 || items[0].Code != diag.BindRedeclareBlockScoped {
		t.Fatalf("redeclared diagnostics = %+v", items)
	}
	start, _ := report.FileSet.Resolve(items[0].Primary)
	if start.Line != 1 || start.Col == 0 {
		t.Fatalf("diagnostic position = %+v", start)
	}

	clean := report.Files[1]
	if clean.Err != nil || clean.Diagnostics.Len() != 0 {
		t.Fatalf("clean: err=%v diags=%d", clean.Err, clean.Diagnostics.Len())
	}
	if clean.Stats.SymbolCount == 0 || !clean.File.IsBound() {
		t.Fatalf("clean file not bound: %+v", clean.Stats)
	}

	broken := report.Files[2]
	if !errors.Is(broken.Err, ErrUnknownDumpFormat) || broken.File != nil {
		t.Fatalf("broken: err=%v file=%v", broken.Err, broken.File)
	}

	if !report.HasErrors() || report.Err() == nil {
		t.Fatalf("report does not carry the failures")
	}
	if got := report.Diagnostics().Len(); got != 1 {
		t.Fatalf("merged diagnostics = %d, want 1", got)
	}
	if got, want := report.SymbolCount(), redeclared.Stats.SymbolCount+clean.Stats.SymbolCount; got != want {
		t.Fatalf("symbol count = %d, want %d", got, want)
	}

	wantLast := map[string]Status{paths[0]: StatusDone, paths[1]: StatusDone, paths[2]: StatusError}
	for path, want := range wantLast {
		evt, ok := sink.last(path)
		if !ok || evt.Status != want {
			t.Errorf("last event for %s = %+v, want %s", path, evt, want)
		}
	}

	var names []string
	for _, p := range report.Timer.Phases() {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"load", "bind"}, names); diff != "" {
		t.Fatalf("phases mismatch (-want +got):\n%s", diff)
	}
}

func TestBindFilesCapsDiagnostics(t *testing.T) {
	b := ast.NewBuilder("many.ts")
	f := b.Finish(
		b.VarStmt(ast.FlagLet, b.Var("x")),
		b.VarStmt(ast.FlagLet, b.Var("x")),
		b.VarStmt(ast.FlagLet, b.Var("x")),
	)
	path := writeDump(t, t.TempDir(), "many.json", f)
	report, err := BindFiles(context.Background(), []string{path}, Options{MaxDiagnostics: 1})
	if err != nil {
		t.Fatalf("BindFiles: %v", err)
	}
	res := report.Files[0]
	if res.Diagnostics.Len() != 1 || res.File.BindDiagnostics.Len() != 2 {
		t.Fatalf("kept %d of %d diagnostics", res.Diagnostics.Len(), res.File.BindDiagnostics.Len())
	}
}

func TestBindFilesCancelled(t *testing.T) {
	path := writeDump(t, t.TempDir(), "clean.json", cleanModule())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := BindFiles(ctx, []string{path}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report.Files[0].File != nil {
		t.Fatalf("file bound after cancellation")
	}
}

func TestBindFilesTraces(t *testing.T) {
	path := writeDump(t, t.TempDir(), "clean.json", cleanModule())
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	report, err := BindFiles(ctx, []string{path}, Options{})
	if err != nil {
		t.Fatalf("BindFiles: %v", err)
	}
	seen := map[string]bool{}
	for _, evt := range ring.Snapshot() {
		if evt.Kind == trace.KindSpanBegin {
			seen[evt.Name] = true
		}
		if evt.Kind == trace.KindSpanEnd && evt.Name == "bind-files" && evt.Extra["run"] != report.RunID {
			t.Errorf("run span carries id %q, want %q", evt.Extra["run"], report.RunID)
		}
	}
	for _, name := range []string{"bind-files", "load", "bind", "bind:lib/clean.ts"} {
		if !seen[name] {
			t.Errorf("no span %q in %v", name, seen)
		}
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	b := writeDump(t, sub, "b.tsast", cleanModule())
	a := writeDump(t, dir, "a.json", cleanModule())
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandPaths([]string{dir, a})
	if err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	if diff := cmp.Diff([]string{a, b}, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if _, err := ExpandPaths([]string{filepath.Join(dir, "missing.json")}); err == nil {
		t.Fatalf("missing path accepted")
	}
}

func TestLoadDumpAttachesText(t *testing.T) {
	path := writeDump(t, t.TempDir(), "clean.json", cleanModule())
	report, err := BindFiles(context.Background(), []string{path}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	f := report.Files[0].File.AST
	src := report.FileSet.Get(f.Source)
	if src == nil || src.Path != "lib/clean.ts" || string(src.Content) != f.Text {
		t.Fatalf("attached source = %+v", src)
	}
	if err := testkit.CheckSpanInvariants(f, src); err != nil {
		t.Fatalf("attached spans: %v", err)
	}
	if err := testkit.CheckParents(f); err != nil {
		t.Fatal(err)
	}
}
