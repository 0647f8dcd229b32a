package ast

import "testing"

func TestCombinedFlagsThroughPatterns(t *testing.T) {
	b := NewBuilder("flags.ts")
	inner := b.BindElem(NoNodeID, b.Ident("a"), NoNodeID)
	decl := b.VarDecl(b.ObjPattern(inner), b.Ident("src"))
	stmt := b.VarStmt(FlagExport|FlagConst, decl)
	f := b.Finish(stmt)
	f.LinkParents()

	flags := f.CombinedFlags(inner)
	if flags&FlagConst == 0 || flags&FlagExport == 0 {
		t.Fatalf("combined flags = %s, want export and const", flags)
	}
	if !f.IsBlockOrCatchScoped(inner) {
		t.Fatalf("binding element of const declaration is not block scoped")
	}
	if f.IsParameterDeclaration(inner) {
		t.Fatalf("variable binding element reported as parameter")
	}
}

func TestIsIdentifierName(t *testing.T) {
	b := NewBuilder("names.ts")
	access := b.Access(b.Ident("obj"), "prop")
	spec := b.ImportSpec("orig", "local")
	typeof := b.TypeQuery(b.Qualified(b.Qualified(b.Ident("A"), "B"), "C"))
	f := b.Finish(
		b.ExprStmt(access),
		b.Import(b.ImportClause("", b.NamedImports(spec)), `"m"`),
		b.TypeAlias(0, "T", typeof),
	)
	f.LinkParents()

	acc := f.Node(access)
	if f.IsIdentifierName(acc.Expr) {
		t.Errorf("object of property access treated as a name")
	}
	if !f.IsIdentifierName(acc.Name) {
		t.Errorf("property of property access not treated as a name")
	}
	sp := f.Node(spec)
	if !f.IsIdentifierName(sp.PropertyName) || f.IsIdentifierName(sp.Name) {
		t.Errorf("import specifier: property name should be a name, local binding should not")
	}
	outer := f.Node(f.Node(typeof).Expr)
	if !f.IsIdentifierName(outer.Name) {
		t.Errorf("right side of qualified name in type query not treated as a name")
	}
}

func TestDynamicNames(t *testing.T) {
	b := NewBuilder("dyn.ts")
	wellKnown := b.Method(0, b.Computed(b.Access(b.Ident("Symbol"), "iterator")), nil, b.Block())
	dynamic := b.Method(0, b.Computed(b.Ident("key")), nil, b.Block())
	f := b.Finish(b.Class(0, "C", nil, wellKnown, dynamic))

	if f.HasDynamicName(wellKnown) {
		t.Errorf("Symbol.iterator reported as dynamic")
	}
	if !f.HasDynamicName(dynamic) {
		t.Errorf("[key] not reported as dynamic")
	}
	expr := f.Node(f.Node(wellKnown).Name).Expr
	if got := f.WellKnownSymbolName(expr); got != "__@iterator" {
		t.Errorf("well-known name = %q", got)
	}
}

func TestExternalModuleIndicator(t *testing.T) {
	b := NewBuilder("script.ts")
	f := b.Finish(b.VarStmt(0, b.Var("x")))
	if f.IsExternalModule() {
		t.Fatalf("script reported as module")
	}

	b = NewBuilder("mod.ts")
	exported := b.Export(b.Func(0, "f", nil, b.Block()))
	f = b.Finish(b.VarStmt(0, b.Var("x")), exported)
	if f.ExternalModuleIndicator != exported {
		t.Fatalf("indicator = %d, want %d", f.ExternalModuleIndicator, exported)
	}

	b = NewBuilder("alias.ts")
	f = b.Finish(b.ImportEquals(0, "m", b.Qualified(b.Ident("A"), "B")))
	if f.IsExternalModule() {
		t.Fatalf("import-equals of an entity name made the file a module")
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct{ raw, want string }{
		{`"use strict"`, "use strict"},
		{`'use strict'`, "use strict"},
		{`"a\nb"`, "a\nb"},
		{`'it\'s'`, "it's"},
		{`'say "hi"\t'`, "say \"hi\"\t"},
		{"x", "x"},
	}
	for _, tt := range tests {
		if got := Unquote(tt.raw); got != tt.want {
			t.Errorf("Unquote(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNumericOctalFlag(t *testing.T) {
	b := NewBuilder("num.ts")
	octal := b.Num("017")
	decimal := b.Num("0")
	f := b.Finish(b.ExprStmt(octal), b.ExprStmt(decimal))
	if !f.Node(octal).HasFlags(FlagOctalLiteral) {
		t.Errorf("017 not flagged octal")
	}
	if f.Node(decimal).HasFlags(FlagOctalLiteral) {
		t.Errorf("0 flagged octal")
	}
}
