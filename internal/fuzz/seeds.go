package fuzztests

import (
	"bytes"
	"testing"

	"tsbind/internal/ast"
)

const maxFuzzInput = 1 << 16 // 64 KiB

type encoder func(*bytes.Buffer, *ast.File) error

func encodeJSON(buf *bytes.Buffer, f *ast.File) error    { return ast.EncodeJSON(buf, f) }
func encodeMsgpack(buf *bytes.Buffer, f *ast.File) error { return ast.EncodeMsgpack(buf, f) }

// seedFiles builds small programs that reach the interesting binder paths:
// hoisting, block scoping, merging, modules and flow labels.
func seedFiles() []*ast.File {
	var files []*ast.File

	b := ast.NewBuilder("script.ts")
	files = append(files, b.Finish(
		b.Directive(`"use strict"`),
		b.Func(0, "f", b.Params("a"), b.Block(
			b.VarStmt(0, b.Var("x")),
			b.VarStmt(ast.FlagLet, b.Var("x")),
			b.Return(b.Ident("a")),
		)),
		b.Func(0, "f", nil, b.Block()),
	))

	b = ast.NewBuilder("merge.ts")
	files = append(files, b.Finish(
		b.Interface(0, "I", nil),
		b.Interface(0, "I", nil),
		b.Namespace(0, "N.M", b.VarStmt(ast.FlagExport, b.Var("v"))),
		b.Class(0, "N", nil),
		b.Enum(ast.FlagConst, "E", b.EnumMember(b.Ident("A"), ast.NoNodeID)),
	))

	b = ast.NewBuilder("module.ts")
	files = append(files, b.Finish(
		b.Export(b.Func(0, "helper", nil, b.Block(
			b.Labeled("outer", b.While(b.True(), b.Block(b.Break("outer")))),
		))),
		b.ExportAssign(b.Ident("helper"), false),
	))

	b = ast.NewBuilder("ambient.d.ts")
	files = append(files, b.FinishDeclarationFile(
		b.AmbientModule(ast.FlagAmbient, `"fs"`, b.Func(ast.FlagExport, "readFile", nil, ast.NoNodeID)),
	))
	return files
}

func addSeeds(f *testing.F, enc encoder) {
	for _, file := range seedFiles() {
		var buf bytes.Buffer
		if err := enc(&buf, file); err != nil {
			f.Fatalf("encode seed %s: %v", file.Path, err)
		}
		f.Add(buf.Bytes())
	}
}

func clip(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
