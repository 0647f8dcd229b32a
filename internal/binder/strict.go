package binder

import (
	"fmt"
	"strings"

	"tsbind/internal/ast"
	"tsbind/internal/diag"
	"tsbind/internal/source"
)

// futureReservedWords are identifiers reserved only in strict mode code.
var futureReservedWords = map[string]struct{}{
	"implements": {},
	"interface":  {},
	"let":        {},
	"package":    {},
	"private":    {},
	"protected":  {},
	"public":     {},
	"static":     {},
	"yield":      {},
}

// updateStrictMode reports whether node switches the walk into strict mode.
// Called only while the walk is not yet strict.
func (b *binder) updateStrictMode(node ast.NodeID) bool {
	n := b.node(node)
	switch n.Kind {
	case ast.KindSourceFile, ast.KindModuleBlock:
		return b.hasUseStrictPrologue(n.List)
	case ast.KindBlock:
		if ast.IsFunctionLike(b.file.Kind(n.Parent)) {
			return b.hasUseStrictPrologue(n.List)
		}
	case ast.KindClassDeclaration, ast.KindClassExpression:
		return true
	}
	return false
}

// hasUseStrictPrologue scans the leading directives of stmts. Only the exact
// texts "use strict" and 'use strict' count; escaped spellings do not.
func (b *binder) hasUseStrictPrologue(stmts []ast.NodeID) bool {
	for _, stmt := range stmts {
		if !b.file.IsPrologueDirective(stmt) {
			return false
		}
		raw := b.file.RawOf(b.node(stmt).Expr)
		if raw == `"use strict"` || raw == `'use strict'` {
			return true
		}
	}
	return false
}

func (b *binder) checkStrictModeIdentifier(ctx bindContext, node ast.NodeID) {
	if !ctx.inStrictMode {
		return
	}
	name := b.file.TextOf(node)
	if _, reserved := futureReservedWords[name]; !reserved || b.file.IsIdentifierName(node) {
		return
	}
	// reserved word errors are noise on top of syntax errors
	if b.file.ParseDiagnostics > 0 {
		return
	}
	code, format := diag.StrictReservedWord, "Identifier expected. '%s' is a reserved word in strict mode."
	switch {
	case b.file.ContainingClass(node).IsValid():
		code, format = diag.StrictReservedWordInClass, "Identifier expected. '%s' is a reserved word in strict mode. Class definitions are automatically in strict mode."
	case b.file.IsExternalModule():
		code, format = diag.StrictReservedWordInModule, "Identifier expected. '%s' is a reserved word in strict mode. Modules are automatically in strict mode."
	}
	diag.ReportError(b.reporter, code, b.node(node).Span, fmt.Sprintf(format, name)).Emit()
}

func isEvalOrArguments(f *ast.File, node ast.NodeID) bool {
	if f.Kind(node) != ast.KindIdentifier {
		return false
	}
	text := f.TextOf(node)
	return text == "eval" || text == "arguments"
}

// checkStrictModeEvalOrArguments reports name when it binds or assigns
// `eval` or `arguments`. context picks the message variant.
func (b *binder) checkStrictModeEvalOrArguments(ctx bindContext, context, name ast.NodeID) {
	if !ctx.inStrictMode || !isEvalOrArguments(b.file, name) {
		return
	}
	code, format := diag.StrictInvalidUse, "Invalid use of '%s' in strict mode."
	switch {
	case b.file.ContainingClass(context).IsValid():
		code, format = diag.StrictInvalidUseInClass, "Invalid use of '%s'. Class definitions are automatically in strict mode."
	case b.file.IsExternalModule():
		code, format = diag.StrictInvalidUseInModule, "Invalid use of '%s'. Modules are automatically in strict mode."
	}
	diag.ReportError(b.reporter, code, b.node(name).Span, fmt.Sprintf(format, b.file.TextOf(name))).Emit()
}

func (b *binder) checkStrictModeFunctionName(ctx bindContext, node ast.NodeID) {
	b.checkStrictModeEvalOrArguments(ctx, node, b.node(node).Name)
}

func (b *binder) checkStrictModeDeleteExpression(ctx bindContext, n *ast.Node) {
	if !ctx.inStrictMode || b.file.Kind(n.Expr) != ast.KindIdentifier {
		return
	}
	diag.ReportError(b.reporter, diag.StrictDeleteIdentifier, b.node(n.Expr).Span,
		"'delete' cannot be called on an identifier in strict mode.").Emit()
}

func (b *binder) checkStrictModeNumericLiteral(ctx bindContext, node ast.NodeID) {
	n := b.node(node)
	if !ctx.inStrictMode || n.Flags&ast.FlagOctalLiteral == 0 {
		return
	}
	diag.ReportError(b.reporter, diag.StrictOctalLiteral, n.Span,
		"Octal literals are not allowed in strict mode.").Emit()
}

func (b *binder) checkStrictModeWithStatement(ctx bindContext, node ast.NodeID) {
	if !ctx.inStrictMode {
		return
	}
	diag.ReportError(b.reporter, diag.StrictWithStatement, b.firstTokenSpan(node, "with"),
		"'with' statements are not allowed in strict mode.").Emit()
}

// firstTokenSpan narrows the span of node to its leading keyword when the
// file text has it there after trivia. Otherwise the whole node span is used.
func (b *binder) firstTokenSpan(node ast.NodeID, keyword string) source.Span {
	sp := b.node(node).Span
	text := b.file.Text
	if sp.End > uint32(len(text)) || sp.Start >= sp.End { //nolint:gosec // file text is bounded by the span arena
		return sp
	}
	i := skipTrivia(text[:sp.End], int(sp.Start))
	if !strings.HasPrefix(text[i:sp.End], keyword) {
		return sp
	}
	end := i + len(keyword)
	if end < int(sp.End) && isIdentifierPart(text[end]) {
		return sp
	}
	return source.Span{File: sp.File, Start: uint32(i), End: uint32(end)} //nolint:gosec // i and end lie inside sp
}

// skipTrivia returns the first offset at or after i that is not whitespace
// or a comment.
func skipTrivia(text string, i int) int {
	for i < len(text) {
		switch {
		case text[i] == ' ', text[i] == '\t', text[i] == '\n', text[i] == '\r', text[i] == '\v', text[i] == '\f':
			i++
		case strings.HasPrefix(text[i:], "//"):
			nl := strings.IndexByte(text[i:], '\n')
			if nl < 0 {
				return len(text)
			}
			i += nl + 1
		case strings.HasPrefix(text[i:], "/*"):
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return len(text)
			}
			i += end + 4
		default:
			return i
		}
	}
	return i
}

func isIdentifierPart(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}
