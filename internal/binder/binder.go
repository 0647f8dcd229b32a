package binder

import (
	"fmt"
	"path"
	"strings"
	"time"

	"tsbind/internal/ast"
	"tsbind/internal/diag"
	"tsbind/internal/source"
	"tsbind/internal/symbols"
	"tsbind/internal/trace"
)

// Options configures a single bind.
type Options struct {
	// Reporter receives every bind diagnostic in addition to
	// SourceFile.BindDiagnostics.
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// ParentSpan is the trace span the file span nests under.
	ParentSpan uint64
	// Validate runs the structural checks of Validate after binding.
	Validate bool
}

// Stats describes one completed bind.
type Stats struct {
	SymbolCount int
	Elapsed     time.Duration
}

type nodeLinks struct {
	symbol        symbols.SymbolID
	localSymbol   symbols.SymbolID
	locals        *symbols.SymbolTable
	nextContainer ast.NodeID
}

// SourceFile carries a parsed file together with everything the binder
// attaches to it.
type SourceFile struct {
	AST     *ast.File
	Symbols *symbols.Table

	SymbolCount       int
	ClassifiableNames *symbols.NameSet
	// BindDiagnostics holds diagnostics in the order they were produced.
	BindDiagnostics *diag.Bag

	links []nodeLinks
	bound bool
	// bindErr is the error of a bind that did not complete. Later calls
	// return it instead of binding partial tables again.
	bindErr error
}

// NewSourceFile prepares f for binding. Symbol names share the file's
// interner.
func NewSourceFile(f *ast.File) *SourceFile {
	return &SourceFile{
		AST:               f,
		Symbols:           symbols.NewTable(symbols.Hints{Symbols: uint(f.Len() / 2)}, f.Strings),
		ClassifiableNames: symbols.NewNameSet(),
		BindDiagnostics:   diag.NewBag(0),
		links:             make([]nodeLinks, f.Len()+1),
	}
}

func (sf *SourceFile) link(id ast.NodeID) *nodeLinks {
	if int(id) >= len(sf.links) {
		grown := make([]nodeLinks, sf.AST.Len()+1)
		copy(grown, sf.links)
		sf.links = grown
	}
	return &sf.links[id]
}

// SymbolOf returns the symbol declared by node. For exported module members
// this is the export symbol.
func (sf *SourceFile) SymbolOf(node ast.NodeID) symbols.SymbolID {
	if int(node) >= len(sf.links) {
		return symbols.NoSymbolID
	}
	return sf.links[node].symbol
}

// LocalSymbolOf returns the module-local mirror of an exported declaration.
func (sf *SourceFile) LocalSymbolOf(node ast.NodeID) symbols.SymbolID {
	if int(node) >= len(sf.links) {
		return symbols.NoSymbolID
	}
	return sf.links[node].localSymbol
}

// LocalsOf returns the locals table of a container, or nil.
func (sf *SourceFile) LocalsOf(node ast.NodeID) *symbols.SymbolTable {
	if int(node) >= len(sf.links) {
		return nil
	}
	return sf.links[node].locals
}

// NextContainer follows the container chain built during the bind.
func (sf *SourceFile) NextContainer(node ast.NodeID) ast.NodeID {
	if int(node) >= len(sf.links) {
		return ast.NoNodeID
	}
	return sf.links[node].nextContainer
}

// Locals returns the file-level locals table.
func (sf *SourceFile) Locals() *symbols.SymbolTable {
	return sf.LocalsOf(sf.AST.Root)
}

// Symbol is a shorthand for sf.Symbols.Get.
func (sf *SourceFile) Symbol(id symbols.SymbolID) *symbols.Symbol {
	return sf.Symbols.Get(id)
}

// IsBound reports whether a bind of the file completed.
func (sf *SourceFile) IsBound() bool {
	return sf.bound
}

// Bind walks the file once and fills in symbols, tables, parents and
// diagnostics. Binding an already bound file does nothing, and a file whose
// bind failed returns the same error again. Errors are
// returned only for internal invariant violations; problems in the source
// are reported as diagnostics.
func Bind(sf *SourceFile, opts Options) (stats Stats, err error) {
	if sf == nil || sf.AST == nil || !sf.AST.Root.IsValid() {
		return Stats{}, fmt.Errorf("bind: %w", errNoRoot)
	}
	if sf.bindErr != nil {
		return Stats{}, sf.bindErr
	}
	if sf.IsBound() {
		return Stats{SymbolCount: sf.SymbolCount}, nil
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	span := trace.Begin(tracer, trace.ScopeModule, "bind:"+sf.AST.Path, opts.ParentSpan)
	start := time.Now()

	b := &binder{
		sf:   sf,
		file: sf.AST,
		reporter: diag.MultiReporter{
			diag.BagReporter{Bag: sf.BindDiagnostics},
			opts.Reporter,
		},
	}
	if tracer.Level() >= trace.LevelDebug {
		b.tracer, b.span = tracer, span.ID()
	}

	defer func() {
		if r := recover(); r != nil {
			ierr, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("bind %s: %w", sf.AST.Path, ierr)
			sf.bindErr = err
			span.WithExtra("error", ierr.Error()).End("failed")
		}
	}()

	b.bind(bindContext{inStrictMode: sf.AST.IsExternalModule()}, sf.AST.Root)
	sf.SymbolCount = b.symbolCount

	stats = Stats{SymbolCount: b.symbolCount, Elapsed: time.Since(start)}
	span.WithExtra("symbols", fmt.Sprint(stats.SymbolCount)).
		WithExtra("diagnostics", fmt.Sprint(sf.BindDiagnostics.Len())).
		End("")

	if opts.Validate {
		if verr := sf.validate(); verr != nil {
			sf.bindErr = fmt.Errorf("bind %s: %w", sf.AST.Path, verr)
			return stats, sf.bindErr
		}
	}
	sf.bound = true
	return stats, nil
}

// binder holds the state of one bind that is not scoped to the walk
// position.
type binder struct {
	sf            *SourceFile
	file          *ast.File
	reporter      diag.Reporter
	lastContainer ast.NodeID
	symbolCount   int

	// tracer is set only at debug level, where containers are traced.
	tracer trace.Tracer
	span   uint64
}

func (b *binder) node(id ast.NodeID) *ast.Node {
	n := b.file.Node(id)
	if n == nil {
		internalErrorf(id, "missing node")
	}
	return n
}

func (b *binder) intern(s string) source.StringID {
	return b.file.Strings.Intern(s)
}

func (b *binder) errorSpan(id ast.NodeID) source.Span {
	n := b.node(id)
	if n.Name.IsValid() {
		return b.node(n.Name).Span
	}
	return n.Span
}

// fileSymbolName is the quoted extension-less file name of an external module.
func fileSymbolName(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, ext := range []string{".d.ts", ".tsx", ".ts", ".jsx", ".js"} {
		if strings.HasSuffix(p, ext) {
			p = strings.TrimSuffix(p, ext)
			break
		}
	}
	return `"` + path.Clean(p) + `"`
}
