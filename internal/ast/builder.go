package ast

import (
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"tsbind/internal/source"
)

var octalLiteral = regexp.MustCompile(`^0[0-7]+$`)

// Builder assembles a File node by node. It stands in for a parser: every
// leaf gets a synthetic span and its text is appended to a synthetic source
// so diagnostics still resolve to line and column.
type Builder struct {
	f    *File
	text strings.Builder
}

func NewBuilder(path string) *Builder {
	return &Builder{f: NewFile(path, nil, 0)}
}

// File returns the file under construction.
func (b *Builder) File() *File {
	return b.f
}

func (b *Builder) intern(s string) source.StringID {
	return b.f.Strings.Intern(s)
}

func (b *Builder) offset() uint32 {
	n, err := safecast.Conv[uint32](b.text.Len())
	if err != nil {
		panic(err)
	}
	return n
}

// leaf allocates a childless node whose span covers text.
func (b *Builder) leaf(n Node, text string) NodeID {
	start := b.offset()
	b.text.WriteString(text)
	n.Span = source.Span{File: b.f.Source, Start: start, End: b.offset()}
	b.text.WriteByte(' ')
	return b.f.New(n)
}

// node allocates n with a span covering its children. Childless nodes get
// keyword as their text.
func (b *Builder) node(n Node, keyword string) NodeID {
	id := b.f.New(n)
	var (
		sp    source.Span
		found bool
	)
	b.f.ForEachChild(id, func(child NodeID) bool {
		csp := b.f.Node(child).Span
		if !found {
			sp, found = csp, true
		} else {
			sp = sp.Cover(csp)
		}
		return true
	})
	if !found {
		start := b.offset()
		b.text.WriteString(keyword)
		sp = source.Span{File: b.f.Source, Start: start, End: b.offset()}
		b.text.WriteByte(' ')
	}
	b.f.Node(id).Span = sp
	return id
}

// Flags ORs extra flags into an existing node and returns it.
func (b *Builder) Flags(id NodeID, flags NodeFlags) NodeID {
	if n := b.f.Node(id); n != nil {
		n.Flags |= flags
	}
	return id
}

// Export marks id as exported.
func (b *Builder) Export(id NodeID) NodeID { return b.Flags(id, FlagExport) }

// Declare marks id as ambient.
func (b *Builder) Declare(id NodeID) NodeID { return b.Flags(id, FlagAmbient) }

// Names and literals

func (b *Builder) Ident(name string) NodeID {
	return b.leaf(Node{Kind: KindIdentifier, Text: b.intern(name)}, name)
}

// Str builds a string literal from its quoted form, e.g. `"use strict"`.
func (b *Builder) Str(raw string) NodeID {
	return b.leaf(Node{Kind: KindStringLiteral, Text: b.intern(Unquote(raw)), Raw: b.intern(raw)}, raw)
}

// Template builds a template literal without substitutions from its quoted form.
func (b *Builder) Template(raw string) NodeID {
	return b.leaf(Node{Kind: KindNoSubstitutionTemplateLiteral, Text: b.intern(Unquote(raw)), Raw: b.intern(raw)}, raw)
}

func (b *Builder) Num(raw string) NodeID {
	var flags NodeFlags
	if octalLiteral.MatchString(raw) {
		flags = FlagOctalLiteral
	}
	return b.leaf(Node{Kind: KindNumericLiteral, Flags: flags, Text: b.intern(raw), Raw: b.intern(raw)}, raw)
}

func (b *Builder) This() NodeID  { return b.leaf(Node{Kind: KindThisKeyword}, "this") }
func (b *Builder) Super() NodeID { return b.leaf(Node{Kind: KindSuperKeyword}, "super") }
func (b *Builder) Null() NodeID  { return b.leaf(Node{Kind: KindNullKeyword}, "null") }
func (b *Builder) True() NodeID  { return b.leaf(Node{Kind: KindTrueKeyword}, "true") }
func (b *Builder) False() NodeID { return b.leaf(Node{Kind: KindFalseKeyword}, "false") }

// Keyword builds a primitive type keyword such as `number`.
func (b *Builder) Keyword(name string) NodeID {
	return b.leaf(Node{Kind: KindKeywordType, Text: b.intern(name)}, name)
}

func (b *Builder) Qualified(left NodeID, right string) NodeID {
	return b.node(Node{Kind: KindQualifiedName, Expr: left, Name: b.Ident(right)}, "")
}

func (b *Builder) Computed(expr NodeID) NodeID {
	return b.node(Node{Kind: KindComputedPropertyName, Expr: expr}, "")
}

// Expressions

func (b *Builder) Access(expr NodeID, name string) NodeID {
	return b.node(Node{Kind: KindPropertyAccess, Expr: expr, Name: b.Ident(name)}, "")
}

func (b *Builder) Elem(expr, arg NodeID) NodeID {
	return b.node(Node{Kind: KindElementAccess, Expr: expr, Right: arg}, "")
}

func (b *Builder) Call(callee NodeID, args ...NodeID) NodeID {
	return b.node(Node{Kind: KindCall, Expr: callee, List: args}, "")
}

func (b *Builder) NewExpr(callee NodeID, args ...NodeID) NodeID {
	return b.node(Node{Kind: KindNew, Expr: callee, List: args}, "new")
}

func (b *Builder) Paren(expr NodeID) NodeID {
	return b.node(Node{Kind: KindParenthesized, Expr: expr}, "()")
}

func (b *Builder) Delete(expr NodeID) NodeID {
	return b.node(Node{Kind: KindDelete, Expr: expr}, "delete")
}

func (b *Builder) TypeOf(expr NodeID) NodeID {
	return b.node(Node{Kind: KindTypeOf, Expr: expr}, "typeof")
}

func (b *Builder) Void(expr NodeID) NodeID {
	return b.node(Node{Kind: KindVoid, Expr: expr}, "void")
}

func (b *Builder) Prefix(op Operator, expr NodeID) NodeID {
	return b.node(Node{Kind: KindPrefixUnary, Operator: op, Expr: expr}, op.String())
}

func (b *Builder) Postfix(expr NodeID, op Operator) NodeID {
	return b.node(Node{Kind: KindPostfixUnary, Operator: op, Expr: expr}, op.String())
}

func (b *Builder) Binary(left NodeID, op Operator, right NodeID) NodeID {
	return b.node(Node{Kind: KindBinary, Operator: op, Expr: left, Right: right}, op.String())
}

func (b *Builder) Assign(left, right NodeID) NodeID {
	return b.Binary(left, OpAssign, right)
}

func (b *Builder) Cond(cond, whenTrue, whenFalse NodeID) NodeID {
	return b.node(Node{Kind: KindConditional, List: []NodeID{cond, whenTrue, whenFalse}}, "?:")
}

func (b *Builder) Spread(expr NodeID) NodeID {
	return b.node(Node{Kind: KindSpread, Expr: expr}, "...")
}

func (b *Builder) As(expr, typ NodeID) NodeID {
	return b.node(Node{Kind: KindAsExpression, Expr: expr, Type: typ}, "as")
}

func (b *Builder) Omitted() NodeID {
	return b.leaf(Node{Kind: KindOmittedExpression}, ",")
}

func (b *Builder) ArrayLit(elems ...NodeID) NodeID {
	return b.node(Node{Kind: KindArrayLiteral, List: elems}, "[]")
}

func (b *Builder) ObjectLit(props ...NodeID) NodeID {
	return b.node(Node{Kind: KindObjectLiteral, List: props}, "{}")
}

// Prop builds `name: value` inside an object literal.
func (b *Builder) Prop(name, value NodeID) NodeID {
	return b.node(Node{Kind: KindPropertyAssignment, Name: name, Expr: value}, "")
}

func (b *Builder) Shorthand(name string) NodeID {
	return b.node(Node{Kind: KindShorthandPropertyAssignment, Name: b.Ident(name)}, "")
}

// FuncExpr builds a function expression; name may be NoNodeID.
func (b *Builder) FuncExpr(name NodeID, params []NodeID, body NodeID) NodeID {
	return b.node(Node{Kind: KindFunctionExpression, Name: name, Params: params, Body: body}, "function")
}

func (b *Builder) Arrow(params []NodeID, body NodeID) NodeID {
	return b.node(Node{Kind: KindArrowFunction, Params: params, Body: body}, "=>")
}

func (b *Builder) ClassExpr(name NodeID, heritage []NodeID, members ...NodeID) NodeID {
	return b.node(Node{Kind: KindClassExpression, Name: name, Heritage: heritage, List: members}, "class")
}

// Statements

func (b *Builder) Block(stmts ...NodeID) NodeID {
	return b.node(Node{Kind: KindBlock, List: stmts}, "{}")
}

func (b *Builder) ExprStmt(expr NodeID) NodeID {
	return b.node(Node{Kind: KindExpressionStatement, Expr: expr}, "")
}

// Directive builds a prologue directive such as `"use strict";`.
func (b *Builder) Directive(raw string) NodeID {
	return b.ExprStmt(b.Str(raw))
}

// VarStmt builds a variable statement. Let and Const are recorded on the
// declaration list, all other flags on the statement.
func (b *Builder) VarStmt(flags NodeFlags, decls ...NodeID) NodeID {
	list := b.VarList(flags&FlagsBlockScoped, decls...)
	return b.node(Node{Kind: KindVariableStatement, Flags: flags &^ FlagsBlockScoped, Expr: list}, "")
}

func (b *Builder) VarList(flags NodeFlags, decls ...NodeID) NodeID {
	keyword := "var"
	switch {
	case flags&FlagLet != 0:
		keyword = "let"
	case flags&FlagConst != 0:
		keyword = "const"
	}
	return b.node(Node{Kind: KindVariableDeclarationList, Flags: flags, List: decls}, keyword)
}

// VarDecl builds a declaration whose name is an identifier or a binding
// pattern. init may be NoNodeID.
func (b *Builder) VarDecl(name, init NodeID) NodeID {
	return b.node(Node{Kind: KindVariableDeclaration, Name: name, Expr: init}, "")
}

// Var is a shorthand for VarDecl(Ident(name), NoNodeID).
func (b *Builder) Var(name string) NodeID {
	return b.VarDecl(b.Ident(name), NoNodeID)
}

func (b *Builder) Empty() NodeID {
	return b.leaf(Node{Kind: KindEmptyStatement}, ";")
}

func (b *Builder) Debugger() NodeID {
	return b.leaf(Node{Kind: KindDebuggerStatement}, "debugger")
}

func (b *Builder) If(cond, then, els NodeID) NodeID {
	return b.node(Node{Kind: KindIfStatement, Expr: cond, Body: then, Right: els}, "if")
}

func (b *Builder) Do(body, cond NodeID) NodeID {
	return b.node(Node{Kind: KindDoStatement, Body: body, Expr: cond}, "do")
}

func (b *Builder) While(cond, body NodeID) NodeID {
	return b.node(Node{Kind: KindWhileStatement, Expr: cond, Body: body}, "while")
}

// For builds `for (init; cond; incr) body`; any clause may be NoNodeID.
func (b *Builder) For(init, cond, incr, body NodeID) NodeID {
	return b.node(Node{Kind: KindForStatement, List: []NodeID{init, cond, incr}, Body: body}, "for")
}

func (b *Builder) ForIn(init, expr, body NodeID) NodeID {
	return b.node(Node{Kind: KindForInStatement, Expr: init, Right: expr, Body: body}, "for in")
}

func (b *Builder) ForOf(init, expr, body NodeID) NodeID {
	return b.node(Node{Kind: KindForOfStatement, Expr: init, Right: expr, Body: body}, "for of")
}

func (b *Builder) label(name string) NodeID {
	if name == "" {
		return NoNodeID
	}
	return b.Ident(name)
}

func (b *Builder) Continue(label string) NodeID {
	return b.node(Node{Kind: KindContinueStatement, Name: b.label(label)}, "continue")
}

func (b *Builder) Break(label string) NodeID {
	return b.node(Node{Kind: KindBreakStatement, Name: b.label(label)}, "break")
}

func (b *Builder) Return(expr NodeID) NodeID {
	return b.node(Node{Kind: KindReturnStatement, Expr: expr}, "return")
}

func (b *Builder) Throw(expr NodeID) NodeID {
	return b.node(Node{Kind: KindThrowStatement, Expr: expr}, "throw")
}

func (b *Builder) With(expr, body NodeID) NodeID {
	return b.node(Node{Kind: KindWithStatement, Expr: expr, Body: body}, "with")
}

func (b *Builder) Labeled(label string, stmt NodeID) NodeID {
	return b.node(Node{Kind: KindLabeledStatement, Name: b.Ident(label), Body: stmt}, "")
}

// Switch wraps clauses in a case block.
func (b *Builder) Switch(expr NodeID, clauses ...NodeID) NodeID {
	block := b.node(Node{Kind: KindCaseBlock, List: clauses}, "{}")
	return b.node(Node{Kind: KindSwitchStatement, Expr: expr, Body: block}, "switch")
}

func (b *Builder) Case(expr NodeID, stmts ...NodeID) NodeID {
	return b.node(Node{Kind: KindCaseClause, Expr: expr, List: stmts}, "case")
}

func (b *Builder) Default(stmts ...NodeID) NodeID {
	return b.node(Node{Kind: KindDefaultClause, List: stmts}, "default")
}

// Try builds a try statement; catch and finally may be NoNodeID.
func (b *Builder) Try(block, catch, finally NodeID) NodeID {
	return b.node(Node{Kind: KindTryStatement, List: []NodeID{block, catch, finally}}, "try")
}

// Catch builds `catch (name) block`.
func (b *Builder) Catch(name string, block NodeID) NodeID {
	return b.node(Node{Kind: KindCatchClause, Expr: b.Var(name), Body: block}, "catch")
}

// Declarations

// Func builds a function declaration. An empty name leaves the name absent
// and a NoNodeID body makes an overload signature.
func (b *Builder) Func(flags NodeFlags, name string, params []NodeID, body NodeID) NodeID {
	return b.node(Node{Kind: KindFunctionDeclaration, Flags: flags, Name: b.label(name), Params: params, Body: body}, "function")
}

// Param builds a parameter whose name is an identifier or binding pattern.
func (b *Builder) Param(flags NodeFlags, name, typ, init NodeID) NodeID {
	return b.node(Node{Kind: KindParameter, Flags: flags, Name: name, Type: typ, Expr: init}, "")
}

// P is a shorthand for a plain identifier parameter.
func (b *Builder) P(name string) NodeID {
	return b.Param(0, b.Ident(name), NoNodeID, NoNodeID)
}

// Params is a shorthand for a list of plain parameters.
func (b *Builder) Params(names ...string) []NodeID {
	out := make([]NodeID, 0, len(names))
	for _, name := range names {
		out = append(out, b.P(name))
	}
	return out
}

func (b *Builder) TypeParam(name string) NodeID {
	return b.node(Node{Kind: KindTypeParameter, Name: b.Ident(name)}, "")
}

// SetTypeParams attaches type parameters to a declaration.
func (b *Builder) SetTypeParams(id NodeID, params ...NodeID) NodeID {
	if n := b.f.Node(id); n != nil {
		n.TypeParams = append(n.TypeParams, params...)
		for _, p := range params {
			n.Span = n.Span.Cover(b.f.Node(p).Span)
		}
	}
	return id
}

// Heritage builds an `extends`/`implements` clause.
func (b *Builder) Heritage(types ...NodeID) NodeID {
	exprs := make([]NodeID, 0, len(types))
	for _, t := range types {
		exprs = append(exprs, b.node(Node{Kind: KindExpressionWithTypeArguments, Expr: t}, ""))
	}
	return b.node(Node{Kind: KindHeritageClause, List: exprs}, "extends")
}

// Class builds a class declaration; an empty name leaves it anonymous.
func (b *Builder) Class(flags NodeFlags, name string, heritage []NodeID, members ...NodeID) NodeID {
	return b.node(Node{Kind: KindClassDeclaration, Flags: flags, Name: b.label(name), Heritage: heritage, List: members}, "class")
}

func (b *Builder) Interface(flags NodeFlags, name string, heritage []NodeID, members ...NodeID) NodeID {
	return b.node(Node{Kind: KindInterfaceDeclaration, Flags: flags, Name: b.Ident(name), Heritage: heritage, List: members}, "interface")
}

func (b *Builder) TypeAlias(flags NodeFlags, name string, typ NodeID) NodeID {
	return b.node(Node{Kind: KindTypeAliasDeclaration, Flags: flags, Name: b.Ident(name), Type: typ}, "type")
}

// Enum builds an enum; pass FlagConst for a const enum.
func (b *Builder) Enum(flags NodeFlags, name string, members ...NodeID) NodeID {
	return b.node(Node{Kind: KindEnumDeclaration, Flags: flags, Name: b.Ident(name), List: members}, "enum")
}

func (b *Builder) EnumMember(name, init NodeID) NodeID {
	return b.node(Node{Kind: KindEnumMember, Name: name, Expr: init}, "")
}

// Namespace builds `namespace A.B.C { stmts }`. Dotted names nest, inner
// pieces are exported the way a parser records them.
func (b *Builder) Namespace(flags NodeFlags, name string, stmts ...NodeID) NodeID {
	parts := strings.Split(name, ".")
	names := make([]NodeID, len(parts))
	for i, part := range parts {
		names[i] = b.Ident(part)
	}
	body := b.node(Node{Kind: KindModuleBlock, List: stmts}, "{}")
	for i := len(parts) - 1; i > 0; i-- {
		body = b.node(Node{Kind: KindModuleDeclaration, Flags: FlagExport | FlagNamespace, Name: names[i], Body: body}, "")
	}
	return b.node(Node{Kind: KindModuleDeclaration, Flags: flags | FlagNamespace, Name: names[0], Body: body}, "")
}

// AmbientModule builds `declare module "raw" { stmts }`.
func (b *Builder) AmbientModule(flags NodeFlags, raw string, stmts ...NodeID) NodeID {
	name := b.Str(raw)
	body := b.node(Node{Kind: KindModuleBlock, List: stmts}, "{}")
	return b.node(Node{Kind: KindModuleDeclaration, Flags: flags | FlagAmbient, Name: name, Body: body}, "")
}

// Members

// Property builds a class property; typ and init may be NoNodeID.
func (b *Builder) Property(flags NodeFlags, name, typ, init NodeID) NodeID {
	return b.node(Node{Kind: KindPropertyDeclaration, Flags: flags, Name: name, Type: typ, Expr: init}, "")
}

func (b *Builder) PropSig(flags NodeFlags, name, typ NodeID) NodeID {
	return b.node(Node{Kind: KindPropertySignature, Flags: flags, Name: name, Type: typ}, "")
}

func (b *Builder) Method(flags NodeFlags, name NodeID, params []NodeID, body NodeID) NodeID {
	return b.node(Node{Kind: KindMethodDeclaration, Flags: flags, Name: name, Params: params, Body: body}, "")
}

func (b *Builder) MethodSig(flags NodeFlags, name NodeID, params []NodeID, ret NodeID) NodeID {
	return b.node(Node{Kind: KindMethodSignature, Flags: flags, Name: name, Params: params, Type: ret}, "")
}

func (b *Builder) Ctor(params []NodeID, body NodeID) NodeID {
	return b.node(Node{Kind: KindConstructor, Params: params, Body: body}, "constructor")
}

func (b *Builder) Get(flags NodeFlags, name NodeID, body NodeID) NodeID {
	return b.node(Node{Kind: KindGetAccessor, Flags: flags, Name: name, Body: body}, "get")
}

func (b *Builder) Set(flags NodeFlags, name NodeID, param, body NodeID) NodeID {
	return b.node(Node{Kind: KindSetAccessor, Flags: flags, Name: name, Params: []NodeID{param}, Body: body}, "set")
}

func (b *Builder) CallSig(params []NodeID, ret NodeID) NodeID {
	return b.node(Node{Kind: KindCallSignature, Params: params, Type: ret}, "()")
}

func (b *Builder) ConstructSig(params []NodeID, ret NodeID) NodeID {
	return b.node(Node{Kind: KindConstructSignature, Params: params, Type: ret}, "new()")
}

func (b *Builder) IndexSig(param, typ NodeID) NodeID {
	return b.node(Node{Kind: KindIndexSignature, Params: []NodeID{param}, Type: typ}, "[]")
}

// Types

func (b *Builder) TypeRef(name NodeID, args ...NodeID) NodeID {
	return b.node(Node{Kind: KindTypeReference, Name: name, List: args}, "")
}

func (b *Builder) FuncType(params []NodeID, ret NodeID) NodeID {
	return b.node(Node{Kind: KindFunctionType, Params: params, Type: ret}, "=>")
}

func (b *Builder) CtorType(params []NodeID, ret NodeID) NodeID {
	return b.node(Node{Kind: KindConstructorType, Params: params, Type: ret}, "new =>")
}

func (b *Builder) TypeLit(members ...NodeID) NodeID {
	return b.node(Node{Kind: KindTypeLiteral, List: members}, "{}")
}

func (b *Builder) TypeQuery(name NodeID) NodeID {
	return b.node(Node{Kind: KindTypeQuery, Expr: name}, "typeof")
}

func (b *Builder) ArrayType(elem NodeID) NodeID {
	return b.node(Node{Kind: KindArrayType, Type: elem}, "[]")
}

func (b *Builder) Union(types ...NodeID) NodeID {
	return b.node(Node{Kind: KindUnionType, List: types}, "|")
}

// Binding patterns

func (b *Builder) ObjPattern(elems ...NodeID) NodeID {
	return b.node(Node{Kind: KindObjectBindingPattern, List: elems}, "{}")
}

func (b *Builder) ArrPattern(elems ...NodeID) NodeID {
	return b.node(Node{Kind: KindArrayBindingPattern, List: elems}, "[]")
}

// BindElem builds `propertyName: name = init`; propertyName and init may be NoNodeID.
func (b *Builder) BindElem(propertyName, name, init NodeID) NodeID {
	return b.node(Node{Kind: KindBindingElement, PropertyName: propertyName, Name: name, Expr: init}, "")
}

// Imports and exports

// ImportEquals builds `import name = ref`.
func (b *Builder) ImportEquals(flags NodeFlags, name string, ref NodeID) NodeID {
	return b.node(Node{Kind: KindImportEqualsDeclaration, Flags: flags, Name: b.Ident(name), Expr: ref}, "import")
}

func (b *Builder) ExternalRef(raw string) NodeID {
	return b.node(Node{Kind: KindExternalModuleReference, Expr: b.Str(raw)}, "require")
}

// Import builds `import clause from "raw"`; clause may be NoNodeID.
func (b *Builder) Import(clause NodeID, raw string) NodeID {
	return b.node(Node{Kind: KindImportDeclaration, Expr: clause, Right: b.Str(raw)}, "import")
}

// ImportClause builds the default binding and named bindings; either part
// may be absent.
func (b *Builder) ImportClause(defaultName string, bindings NodeID) NodeID {
	return b.node(Node{Kind: KindImportClause, Name: b.label(defaultName), Expr: bindings}, "")
}

func (b *Builder) NsImport(name string) NodeID {
	return b.node(Node{Kind: KindNamespaceImport, Name: b.Ident(name)}, "* as")
}

func (b *Builder) NamedImports(specs ...NodeID) NodeID {
	return b.node(Node{Kind: KindNamedImports, List: specs}, "{}")
}

// ImportSpec builds `propertyName as name`; propertyName may be empty.
func (b *Builder) ImportSpec(propertyName, name string) NodeID {
	return b.node(Node{Kind: KindImportSpecifier, PropertyName: b.label(propertyName), Name: b.Ident(name)}, "")
}

// ExportDecl builds `export { ... } from "raw"`. A NoNodeID named list makes
// `export *` and an empty raw drops the module specifier.
func (b *Builder) ExportDecl(named NodeID, raw string) NodeID {
	var spec NodeID
	if raw != "" {
		spec = b.Str(raw)
	}
	return b.node(Node{Kind: KindExportDeclaration, Expr: named, Right: spec}, "export *")
}

func (b *Builder) NamedExports(specs ...NodeID) NodeID {
	return b.node(Node{Kind: KindNamedExports, List: specs}, "{}")
}

func (b *Builder) ExportSpec(propertyName, name string) NodeID {
	return b.node(Node{Kind: KindExportSpecifier, PropertyName: b.label(propertyName), Name: b.Ident(name)}, "")
}

// ExportAssign builds `export = expr` when equals is set, else `export default expr`.
func (b *Builder) ExportAssign(expr NodeID, equals bool) NodeID {
	var flags NodeFlags
	if equals {
		flags = FlagExportEquals
	}
	return b.node(Node{Kind: KindExportAssignment, Flags: flags, Expr: expr}, "export")
}

// Finish builds the source file root over stmts and returns the file.
func (b *Builder) Finish(stmts ...NodeID) *File {
	return b.finish(0, stmts)
}

// FinishDeclarationFile is Finish for a `.d.ts` file.
func (b *Builder) FinishDeclarationFile(stmts ...NodeID) *File {
	return b.finish(FlagDeclarationFile, stmts)
}

func (b *Builder) finish(flags NodeFlags, stmts []NodeID) *File {
	end := b.offset()
	b.f.Root = b.f.New(Node{
		Kind:  KindSourceFile,
		Flags: flags,
		Span:  source.Span{File: b.f.Source, Start: 0, End: end},
		List:  stmts,
	})
	b.f.Text = b.text.String()
	b.f.ExternalModuleIndicator = b.f.ComputeExternalModuleIndicator()
	return b.f
}

// Register adds the synthetic source to fs and points every span at it.
func (b *Builder) Register(fs *source.FileSet) source.FileID {
	id := fs.AddVirtual(b.f.Path, []byte(b.f.Text))
	b.f.SetSource(id)
	return id
}

// SetSource rewrites the file ID of every node span.
func (f *File) SetSource(id source.FileID) {
	f.Source = id
	nodes := f.Nodes.Slice()
	for i := range nodes {
		nodes[i].Span.File = id
	}
}

// Unquote returns the cooked value of a quoted string literal. Text that is
// not a well-formed literal is returned with the quotes stripped.
func Unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if quote != '"' && quote != '\'' && quote != '`' || raw[len(raw)-1] != quote {
		return raw
	}
	inner := raw[1 : len(raw)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}
	if quote != '"' {
		inner = strings.ReplaceAll(inner, `\`+string(quote), string(quote))
		inner = strings.ReplaceAll(inner, `"`, `\"`)
	}
	if s, err := strconv.Unquote(`"` + inner + `"`); err == nil {
		return s
	}
	return inner
}
