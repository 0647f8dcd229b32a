package binder

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tsbind/internal/ast"
	"tsbind/internal/diag"
	"tsbind/internal/symbols"
	"tsbind/internal/trace"
)

func TestBindIsIdempotent(t *testing.T) {
	b := ast.NewBuilder("idem.ts")
	fn := b.Func(0, "f", b.Params("a"), b.Block(b.VarStmt(0, b.Var("x"))))
	f := b.Finish(fn, b.VarStmt(0, b.Var("x")), b.VarStmt(ast.FlagLet, b.Var("x")))
	sf := bindFile(t, f)

	before := sf.SymbolOf(fn)
	count := sf.Symbols.Symbols.Len()
	diags := sf.BindDiagnostics.Len()

	stats, err := Bind(sf, Options{})
	if err != nil {
		t.Fatalf("second bind: %v", err)
	}
	if stats.SymbolCount != sf.SymbolCount {
		t.Fatalf("second bind reported %d symbols, want %d", stats.SymbolCount, sf.SymbolCount)
	}
	if sf.SymbolOf(fn) != before {
		t.Fatalf("symbol of f changed from %d to %d", before, sf.SymbolOf(fn))
	}
	if sf.Symbols.Symbols.Len() != count || sf.BindDiagnostics.Len() != diags {
		t.Fatalf("second bind changed state: symbols %d -> %d, diagnostics %d -> %d",
			count, sf.Symbols.Symbols.Len(), diags, sf.BindDiagnostics.Len())
	}
}

func TestStatsCountEverySymbol(t *testing.T) {
	b := ast.NewBuilder("count.ts")
	f := b.Finish(
		b.Class(0, "C", nil, b.Property(0, b.Ident("p"), ast.NoNodeID, ast.NoNodeID)),
		b.VarStmt(0, b.Var("v")),
	)
	sf := NewSourceFile(f)
	stats, err := Bind(sf, Options{})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	// C, C.prototype, p, v
	if stats.SymbolCount != 4 || sf.SymbolCount != 4 {
		t.Fatalf("symbol count = %d/%d, want 4", stats.SymbolCount, sf.SymbolCount)
	}
}

func TestOverloadMergeIsOrderIndependent(t *testing.T) {
	orders := [][]string{
		{"a", "b", "c"}, {"a", "c", "b"}, {"b", "a", "c"},
		{"b", "c", "a"}, {"c", "a", "b"}, {"c", "b", "a"},
	}
	for _, order := range orders {
		t.Run(strings.Join(order, ""), func(t *testing.T) {
			b := ast.NewBuilder("overloads.ts")
			var stmts []ast.NodeID
			for _, param := range order {
				stmts = append(stmts, b.Func(0, "foo", b.Params(param), ast.NoNodeID))
			}
			f := b.Finish(stmts...)
			sf := bindFile(t, f)
			assertNoDiagnostics(t, sf)

			_, sym := mustLookup(t, sf, sf.Locals(), "foo")
			if sym.Flags != symbols.Function {
				t.Fatalf("flags = %s, want Function", sym.Flags)
			}
			var params []string
			for _, decl := range sym.Declarations {
				first := f.Node(decl).Params[0]
				params = append(params, f.TextOf(f.Node(first).Name))
			}
			slices.Sort(params)
			if diff := cmp.Diff([]string{"a", "b", "c"}, params); diff != "" {
				t.Fatalf("declarations mismatch (-want +got):\n%s", diff)
			}
			if sym.ValueDeclaration != sym.Declarations[0] {
				t.Fatalf("value declaration is not the first declaration")
			}
		})
	}
}

func TestExclusionIsSymmetric(t *testing.T) {
	tests := []struct {
		name     string
		classFst bool
		wantCode diag.Code
	}{
		{"class then let", true, diag.BindDuplicateIdentifier},
		{"let then class", false, diag.BindRedeclareBlockScoped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder("sym.ts")
			class := b.Class(0, "Foo", nil)
			letDecl := b.Var("Foo")
			letStmt := b.VarStmt(ast.FlagLet, letDecl)
			first, second := class, letDecl
			body := []ast.NodeID{class, letStmt}
			if !tt.classFst {
				first, second = letDecl, class
				body = []ast.NodeID{letStmt, class}
			}
			block := b.Block(body...)
			f := b.Finish(b.Func(0, "f", nil, b.Block(block)))
			sf := bindFile(t, f)

			d := onlyDiagnostic(t, sf)
			if d.Code != tt.wantCode {
				t.Fatalf("code = %s, want %s", d.Code, tt.wantCode)
			}
			if d.Primary != f.Node(f.Node(second).Name).Span {
				t.Fatalf("primary span %v is not the second declaration", d.Primary)
			}
			if len(d.Notes) != 1 || d.Notes[0].Span != f.Node(f.Node(first).Name).Span {
				t.Fatalf("notes %v do not cite the first declaration", d.Notes)
			}

			_, sym := mustLookup(t, sf, sf.LocalsOf(block), "Foo")
			if len(sym.Declarations) != 1 || sym.Declarations[0] != second {
				t.Fatalf("slot not replaced by the second declaration: %v", sym.Declarations)
			}
		})
	}
}

func TestVarThenLetInFunctionBody(t *testing.T) {
	b := ast.NewBuilder("varlet.ts")
	varDecl := b.Var("x")
	letDecl := b.Var("x")
	fn := b.Func(0, "f", nil, b.Block(b.VarStmt(0, varDecl), b.VarStmt(ast.FlagLet, letDecl)))
	f := b.Finish(fn)
	sf := bindFile(t, f)

	d := onlyDiagnostic(t, sf)
	if d.Code != diag.BindDuplicateIdentifier || d.Message != "Duplicate identifier 'x'." {
		t.Fatalf("diagnostic = %s %q", d.Code, d.Message)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span != f.Node(f.Node(varDecl).Name).Span {
		t.Fatalf("notes %v do not cite the var declaration", d.Notes)
	}

	id, sym := mustLookup(t, sf, sf.LocalsOf(fn), "x")
	if sym.Flags != symbols.BlockScopedVariable {
		t.Fatalf("slot flags = %s, want BlockScopedVariable", sym.Flags)
	}
	if sf.SymbolOf(letDecl) != id {
		t.Fatalf("let declaration not bound to the replacing symbol")
	}
	if old := sf.SymbolOf(varDecl); old == id || !sf.Symbol(old).HasDeclaration(varDecl) {
		t.Fatalf("orphaned symbol lost its declaration")
	}
}

func TestStaticPrototypeIsDuplicate(t *testing.T) {
	b := ast.NewBuilder("proto.ts")
	prop := b.Property(ast.FlagStatic, b.Ident("prototype"), ast.NoNodeID, b.Num("1"))
	class := b.Class(0, "Foo", nil, prop)
	f := b.Finish(class)
	sf := bindFile(t, f)

	d := onlyDiagnostic(t, sf)
	if d.Code != diag.BindDuplicateIdentifier || !strings.Contains(d.Message, "'prototype'") {
		t.Fatalf("diagnostic = %s %q", d.Code, d.Message)
	}
	if d.Primary != f.Node(f.Node(prop).Name).Span {
		t.Fatalf("diagnostic not on the property name")
	}
}

func TestClassPrototypeSymbol(t *testing.T) {
	b := ast.NewBuilder("proto.ts")
	class := b.Class(0, "Foo", nil)
	f := b.Finish(class)
	sf := bindFile(t, f)
	assertNoDiagnostics(t, sf)

	classID := sf.SymbolOf(class)
	_, proto := mustLookup(t, sf, sf.Symbol(classID).Exports, "prototype")
	if proto.Flags != symbols.Property|symbols.Prototype || proto.Parent != classID {
		t.Fatalf("prototype symbol = %s parent %d", proto.Flags, proto.Parent)
	}
}

func TestStrictModeClassBoundary(t *testing.T) {
	b := ast.NewBuilder("boundary.ts")
	inner := b.Ident("eval")
	method := b.Method(0, b.Ident("m"), nil, b.Block(b.ExprStmt(b.Assign(inner, b.Num("1")))))
	fn := b.Func(0, "f", nil, b.Block(
		b.ExprStmt(b.Assign(b.Ident("eval"), b.Num("1"))),
		b.Class(0, "C", nil, method),
		b.ExprStmt(b.Assign(b.Ident("arguments"), b.Num("1"))),
	))
	f := b.Finish(fn)
	sf := bindFile(t, f)

	d := onlyDiagnostic(t, sf)
	if d.Code != diag.StrictInvalidUseInClass {
		t.Fatalf("code = %s, want %s", d.Code, diag.StrictInvalidUseInClass)
	}
	if d.Primary != f.Node(inner).Span {
		t.Fatalf("diagnostic at %v, want the assignment inside the method", d.Primary)
	}
}

func TestModuleInstantiation(t *testing.T) {
	b := ast.NewBuilder("ns.ts")
	onlyInterface := b.Namespace(0, "A", b.Interface(0, "I", nil))
	onlyConstEnum := b.Namespace(0, "B", b.Enum(ast.FlagConst, "E", b.EnumMember(b.Ident("X"), ast.NoNodeID)))
	withLet := b.Namespace(0, "C", b.VarStmt(ast.FlagLet, b.VarDecl(b.Ident("x"), b.Num("1"))))
	nested := b.Namespace(0, "D.E", b.TypeAlias(0, "T", b.Keyword("number")))
	importOnly := b.Namespace(0, "F", b.ImportEquals(0, "G", b.Ident("A")))
	exportedImport := b.Namespace(0, "H", b.ImportEquals(ast.FlagExport, "G", b.Ident("A")))
	f := b.Finish(onlyInterface, onlyConstEnum, withLet, nested, importOnly, exportedImport)

	tests := []struct {
		name  string
		node  ast.NodeID
		state ModuleInstanceState
		flags symbols.SymbolFlags
	}{
		{"interface only", onlyInterface, NonInstantiated, symbols.NamespaceModule},
		{"const enum only", onlyConstEnum, ConstEnumOnly, symbols.ValueModule},
		{"let", withLet, Instantiated, symbols.ValueModule},
		{"nested types", nested, NonInstantiated, symbols.NamespaceModule},
		{"non-exported import", importOnly, NonInstantiated, symbols.NamespaceModule},
		{"exported import", exportedImport, Instantiated, symbols.ValueModule},
	}
	sf := bindFile(t, f)
	assertNoDiagnostics(t, sf)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModuleInstanceStateOf(f, tt.node); got != tt.state {
				t.Fatalf("state = %s, want %s", got, tt.state)
			}
			sym := sf.Symbol(sf.SymbolOf(tt.node))
			if sym.Flags != tt.flags {
				t.Fatalf("flags = %s, want %s", sym.Flags, tt.flags)
			}
			if tt.state == NonInstantiated && sym.Flags&symbols.Value != 0 {
				t.Fatalf("non-instantiated namespace has a value meaning")
			}
		})
	}

	if got := sf.Symbol(sf.SymbolOf(onlyConstEnum)).ConstEnumOnlyModule; got != symbols.True {
		t.Fatalf("B const-enum-only = %s, want true", got)
	}
	if got := sf.Symbol(sf.SymbolOf(withLet)).ConstEnumOnlyModule; got != symbols.False {
		t.Fatalf("C const-enum-only = %s, want false", got)
	}
}

func TestMergedNamespaceConstEnumOnly(t *testing.T) {
	tests := []struct {
		name   string
		second func(b *ast.Builder) ast.NodeID
		want   symbols.Tristate
	}{
		{"both const enum", func(b *ast.Builder) ast.NodeID {
			return b.Enum(ast.FlagConst, "F", b.EnumMember(b.Ident("Y"), ast.NoNodeID))
		}, symbols.True},
		{"second has value", func(b *ast.Builder) ast.NodeID {
			return b.VarStmt(0, b.Var("v"))
		}, symbols.False},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder("merge.ts")
			first := b.Namespace(0, "M", b.Enum(ast.FlagConst, "E", b.EnumMember(b.Ident("X"), ast.NoNodeID)))
			second := b.Namespace(0, "M", tt.second(b))
			f := b.Finish(first, second)
			sf := bindFile(t, f)
			assertNoDiagnostics(t, sf)

			if sf.SymbolOf(first) != sf.SymbolOf(second) {
				t.Fatalf("namespace pieces did not merge")
			}
			if got := sf.Symbol(sf.SymbolOf(first)).ConstEnumOnlyModule; got != tt.want {
				t.Fatalf("const-enum-only = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExportMirroring(t *testing.T) {
	b := ast.NewBuilder("mirror.ts")
	exported := b.Func(ast.FlagExport, "f", nil, b.Block())
	private := b.Func(0, "g", nil, b.Block())
	ns := b.Namespace(0, "N", exported, private)
	f := b.Finish(ns)
	sf := bindFile(t, f)
	assertNoDiagnostics(t, sf)

	nsSym := sf.Symbol(sf.SymbolOf(ns))
	locals := sf.LocalsOf(ns)

	localID, local := mustLookup(t, sf, locals, "f")
	exportID, export := mustLookup(t, sf, nsSym.Exports, "f")
	if local.Flags != symbols.ExportValue {
		t.Fatalf("local flags = %s, want ExportValue", local.Flags)
	}
	if export.Flags != symbols.Function {
		t.Fatalf("export flags = %s, want Function", export.Flags)
	}
	if local.ExportSymbol != exportID {
		t.Fatalf("local not linked to export symbol")
	}
	if sf.SymbolOf(exported) != exportID || sf.LocalSymbolOf(exported) != localID {
		t.Fatalf("declaration links = %d/%d, want %d/%d", sf.SymbolOf(exported), sf.LocalSymbolOf(exported), exportID, localID)
	}
	if export.Parent != sf.SymbolOf(ns) || local.Parent.IsValid() {
		t.Fatalf("parents: export %d local %d", export.Parent, local.Parent)
	}

	_, g := mustLookup(t, sf, locals, "g")
	if g.Flags != symbols.Function {
		t.Fatalf("g flags = %s", g.Flags)
	}
	assertMissing(t, sf, nsSym.Exports, "g")
}

func TestExportKindsFromMeaning(t *testing.T) {
	b := ast.NewBuilder("kinds.ts")
	class := b.Class(ast.FlagExport, "C", nil)
	iface := b.Interface(ast.FlagExport, "I", nil)
	inner := b.Namespace(ast.FlagExport, "Inner", b.VarStmt(0, b.Var("v")))
	f := b.Finish(b.Namespace(0, "N", class, iface, inner))
	sf := bindFile(t, f)
	assertNoDiagnostics(t, sf)

	tests := []struct {
		node ast.NodeID
		want symbols.SymbolFlags
	}{
		{class, symbols.ExportValue | symbols.ExportType},
		{iface, symbols.ExportType},
		{inner, symbols.ExportValue | symbols.ExportNamespace},
	}
	for _, tt := range tests {
		if got := sf.Symbol(sf.LocalSymbolOf(tt.node)).Flags; got != tt.want {
			t.Errorf("%s local flags = %s, want %s", f.TextOf(f.Node(tt.node).Name), got, tt.want)
		}
	}
}

func TestInternalErrorIsReturned(t *testing.T) {
	b := ast.NewBuilder("broken.ts")
	fn := b.Func(0, "f", nil, b.Block())
	// a function named by a computed expression cannot come from a parser
	f := b.Finish(fn)
	f.Node(fn).Name = f.New(ast.Node{Kind: ast.KindComputedPropertyName, Expr: f.New(ast.Node{Kind: ast.KindIdentifier, Text: f.Strings.Intern("k")})})

	sf := NewSourceFile(f)
	_, err := Bind(sf, Options{})
	var ierr *InternalError
	if !errors.As(err, &ierr) {
		t.Fatalf("err = %v, want *InternalError", err)
	}
	if ierr.Node != fn {
		t.Fatalf("internal error at node %d, want %d", ierr.Node, fn)
	}
}

func TestFailedBindIsNotRetried(t *testing.T) {
	b := ast.NewBuilder("broken.ts")
	fn := b.Func(0, "f", nil, b.Block())
	f := b.Finish(fn)
	f.Node(fn).Name = f.New(ast.Node{Kind: ast.KindComputedPropertyName, Expr: f.New(ast.Node{Kind: ast.KindIdentifier, Text: f.Strings.Intern("k")})})

	sf := NewSourceFile(f)
	_, first := Bind(sf, Options{})
	var ierr *InternalError
	if !errors.As(first, &ierr) {
		t.Fatalf("first bind: err = %v, want *InternalError", first)
	}
	if sf.IsBound() {
		t.Fatalf("failed bind reported as bound")
	}
	_, second := Bind(sf, Options{})
	if second == nil || !errors.As(second, &ierr) {
		t.Fatalf("second bind: err = %v, want the first error again", second)
	}
	if err := Validate(sf); !errors.Is(err, ErrInvalidBind) {
		t.Fatalf("Validate after failed bind = %v", err)
	}
}

func TestReporterReceivesDiagnostics(t *testing.T) {
	b := ast.NewBuilder("report.ts")
	f := b.Finish(b.VarStmt(ast.FlagLet, b.Var("x")), b.VarStmt(ast.FlagLet, b.Var("x")))
	bag := diag.NewBag(0)
	sf := NewSourceFile(f)
	if _, err := Bind(sf, Options{Reporter: diag.BagReporter{Bag: bag}}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if bag.Len() != 1 || sf.BindDiagnostics.Len() != 1 {
		t.Fatalf("reporter got %d, file got %d diagnostics; want 1 each", bag.Len(), sf.BindDiagnostics.Len())
	}
	if got := bag.Items()[0].Code; got != diag.BindRedeclareBlockScoped {
		t.Fatalf("code = %s", got)
	}
}

func TestDebugTraceMarksContainers(t *testing.T) {
	build := func() *ast.File {
		b := ast.NewBuilder("containers.ts")
		return b.Finish(
			b.Func(0, "f", nil, b.Block(b.VarStmt(ast.FlagLet, b.Var("x")))),
			b.Class(0, "C", nil, b.Method(0, b.Ident("m"), nil, b.Block())),
		)
	}

	ring := trace.NewRingTracer(64, trace.LevelDebug)
	if _, err := Bind(NewSourceFile(build()), Options{Tracer: ring}); err != nil {
		t.Fatal(err)
	}
	var fileSpan uint64
	var got []string
	for _, ev := range ring.Snapshot() {
		switch ev.Kind {
		case trace.KindSpanBegin:
			fileSpan = ev.SpanID
		case trace.KindPoint:
			if ev.Scope != trace.ScopeContainer || ev.ParentID != fileSpan {
				t.Fatalf("point %s: scope %s parent %d, want container under %d", ev.Name, ev.Scope, ev.ParentID, fileSpan)
			}
			got = append(got, ev.Name+" "+ev.Detail)
		}
	}
	want := []string{
		"container:SourceFile ",
		"container:FunctionDeclaration f",
		"container:ClassDeclaration C",
		"container:MethodDeclaration m",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("container points mismatch (-want +got):\n%s", diff)
	}

	quiet := trace.NewRingTracer(64, trace.LevelDetail)
	if _, err := Bind(NewSourceFile(build()), Options{Tracer: quiet}); err != nil {
		t.Fatal(err)
	}
	for _, ev := range quiet.Snapshot() {
		if ev.Kind == trace.KindPoint {
			t.Fatalf("detail level traced container %s", ev.Name)
		}
	}
}

func TestExportedAndLocalDeclarationsConflict(t *testing.T) {
	tests := []struct {
		name  string
		decls func(b *ast.Builder) []ast.NodeID
	}{
		{"export then local", func(b *ast.Builder) []ast.NodeID {
			return []ast.NodeID{b.VarStmt(ast.FlagExport, b.Var("x")), b.VarStmt(0, b.Var("x"))}
		}},
		{"local then export", func(b *ast.Builder) []ast.NodeID {
			return []ast.NodeID{b.VarStmt(0, b.Var("x")), b.VarStmt(ast.FlagExport, b.Var("x"))}
		}},
		{"exported function, local namespace", func(b *ast.Builder) []ast.NodeID {
			return []ast.NodeID{b.Func(ast.FlagExport, "x", nil, b.Block()), b.Namespace(0, "x", b.VarStmt(0, b.Var("v")))}
		}},
		{"local interface, exported interface", func(b *ast.Builder) []ast.NodeID {
			return []ast.NodeID{b.Interface(0, "x", nil), b.Interface(ast.FlagExport, "x", nil)}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder("mixed.ts")
			ns := b.Namespace(0, "N", tt.decls(b)...)
			f := b.Finish(ns)
			sf := bindFile(t, f)

			d := onlyDiagnostic(t, sf)
			if d.Code != diag.BindDuplicateIdentifier || d.Message != "Duplicate identifier 'x'." {
				t.Fatalf("diagnostic = %s %q", d.Code, d.Message)
			}
			if len(d.Notes) != 1 {
				t.Fatalf("notes = %v, want the earlier declaration", d.Notes)
			}
		})
	}
}

func TestExportedDeclarationsStillMerge(t *testing.T) {
	b := ast.NewBuilder("merge.ts")
	first := b.Namespace(ast.FlagExport, "M", b.VarStmt(ast.FlagExport, b.Var("a")))
	second := b.Namespace(ast.FlagExport, "M", b.VarStmt(ast.FlagExport, b.Var("b")))
	overload := b.Func(ast.FlagExport, "f", nil, ast.NoNodeID)
	impl := b.Func(ast.FlagExport, "f", nil, b.Block())
	ns := b.Namespace(0, "N", first, second, overload, impl)
	f := b.Finish(ns)
	sf := bindFile(t, f)
	assertNoDiagnostics(t, sf)

	if sf.SymbolOf(first) != sf.SymbolOf(second) || sf.SymbolOf(overload) != sf.SymbolOf(impl) {
		t.Fatalf("exported declarations did not merge")
	}
	_, local := mustLookup(t, sf, sf.LocalsOf(ns), "f")
	if local.Flags != symbols.ExportValue || len(local.Declarations) != 2 {
		t.Fatalf("local f = %s with %d declarations", local.Flags, len(local.Declarations))
	}
}
