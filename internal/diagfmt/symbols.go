package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"tsbind/internal/ast"
	"tsbind/internal/binder"
	"tsbind/internal/source"
	"tsbind/internal/symbols"
)

type SymbolOpts struct {
	Color    bool
	PathMode PathMode
	// Containers adds the locals of every nested container.
	Containers bool
}

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(child *treeNode) *treeNode {
	n.children = append(n.children, child)
	return child
}

// render prints the tree with box-drawing prefixes.
func (n *treeNode) render(w io.Writer, prefix string) {
	for i, child := range n.children {
		last := i == len(n.children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, child.label)
		child.render(w, prefix+next)
	}
}

type symbolPrinter struct {
	sf    *binder.SourceFile
	fs    *source.FileSet
	name  *color.Color
	flags *color.Color
}

// declSpan is the span a declaration is reported at: its name if it has
// one.
func declSpan(f *ast.File, decl ast.NodeID) source.Span {
	n := f.Node(decl)
	if n == nil {
		return source.Span{}
	}
	if name := f.Node(n.Name); name != nil {
		return name.Span
	}
	return n.Span
}

func (p *symbolPrinter) symbolNode(id symbols.SymbolID) *treeNode {
	sym := p.sf.Symbol(id)
	label := fmt.Sprintf("%s  %s", p.name.Sprint(p.sf.Symbols.Name(id)), p.flags.Sprint(sym.Flags.String()))
	if len(sym.Declarations) > 0 {
		start, _ := p.fs.Resolve(declSpan(p.sf.AST, sym.Declarations[0]))
		label += fmt.Sprintf("  %d:%d", start.Line, start.Col)
		if extra := len(sym.Declarations) - 1; extra > 0 {
			label += fmt.Sprintf(" (+%d)", extra)
		}
	}
	if sym.ExportSymbol.IsValid() {
		label += "  exported"
	}
	node := &treeNode{label: label}
	p.tableNode(node, "exports", sym.Exports)
	p.tableNode(node, "members", sym.Members)
	return node
}

func (p *symbolPrinter) tableNode(parent *treeNode, title string, table *symbols.SymbolTable) {
	if table.Len() == 0 {
		return
	}
	node := parent.add(&treeNode{label: title})
	table.Each(func(_ source.StringID, id symbols.SymbolID) {
		node.add(p.symbolNode(id))
	})
}

// SymbolsPretty prints the symbol tables of a bound file as a tree. fs must
// hold the file's text.
func SymbolsPretty(w io.Writer, sf *binder.SourceFile, fs *source.FileSet, opts SymbolOpts) {
	p := &symbolPrinter{
		sf:    sf,
		fs:    fs,
		name:  color.New(color.Bold),
		flags: color.New(color.FgCyan),
	}
	if !opts.Color {
		p.name.DisableColor()
		p.flags.DisableColor()
	} else {
		p.name.EnableColor()
		p.flags.EnableColor()
	}

	f := sf.AST
	header := f.Path
	if fs.Get(f.Source) != nil {
		header = formatPath(fs, f.Source, opts.PathMode)
	}
	root := &treeNode{}
	if mod := sf.SymbolOf(f.Root); mod.IsValid() {
		header += "  module " + sf.Symbols.Name(mod)
		p.tableNode(root, "exports", sf.Symbol(mod).Exports)
	}
	fmt.Fprintf(w, "%s  (%d symbols)\n", header, sf.SymbolCount)
	p.tableNode(root, "locals", sf.Locals())

	if opts.Containers {
		containers := &treeNode{label: "containers"}
		for c := sf.NextContainer(f.Root); c.IsValid(); c = sf.NextContainer(c) {
			locals := sf.LocalsOf(c)
			if locals.Len() == 0 {
				continue
			}
			start, _ := fs.Resolve(f.Node(c).Span)
			label := fmt.Sprintf("%s %d:%d", f.Kind(c), start.Line, start.Col)
			if name := f.Node(c).Name; name.IsValid() {
				label = fmt.Sprintf("%s %s %d:%d", f.Kind(c), f.DeclarationNameToString(name), start.Line, start.Col)
			}
			p.tableNode(containers.add(&treeNode{label: label}), "locals", locals)
		}
		if len(containers.children) > 0 {
			root.add(containers)
		}
	}
	root.render(w, "")
}

type SymbolJSON struct {
	Name         string         `json:"name" yaml:"name"`
	Flags        string         `json:"flags" yaml:"flags"`
	Declarations []LocationJSON `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	Exported     bool           `json:"exported,omitempty" yaml:"exported,omitempty"`
	Exports      []SymbolJSON   `json:"exports,omitempty" yaml:"exports,omitempty"`
	Members      []SymbolJSON   `json:"members,omitempty" yaml:"members,omitempty"`
}

type ContainerJSON struct {
	Kind     string       `json:"kind" yaml:"kind"`
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Location LocationJSON `json:"location" yaml:"location"`
	Locals   []SymbolJSON `json:"locals" yaml:"locals"`
}

type FileSymbolsJSON struct {
	File        string          `json:"file" yaml:"file"`
	Module      string          `json:"module,omitempty" yaml:"module,omitempty"`
	SymbolCount int             `json:"symbol_count" yaml:"symbol_count"`
	Locals      []SymbolJSON    `json:"locals" yaml:"locals"`
	Exports     []SymbolJSON    `json:"exports,omitempty" yaml:"exports,omitempty"`
	Containers  []ContainerJSON `json:"containers,omitempty" yaml:"containers,omitempty"`
}

type symbolEncoder struct {
	sf   *binder.SourceFile
	fs   *source.FileSet
	mode PathMode
}

func (e *symbolEncoder) table(table *symbols.SymbolTable) []SymbolJSON {
	if table.Len() == 0 {
		return nil
	}
	out := make([]SymbolJSON, 0, table.Len())
	table.Each(func(_ source.StringID, id symbols.SymbolID) {
		sym := e.sf.Symbol(id)
		sj := SymbolJSON{
			Name:     e.sf.Symbols.Name(id),
			Flags:    sym.Flags.String(),
			Exported: sym.ExportSymbol.IsValid(),
			Exports:  e.table(sym.Exports),
			Members:  e.table(sym.Members),
		}
		for _, decl := range sym.Declarations {
			sj.Declarations = append(sj.Declarations, makeLocation(declSpan(e.sf.AST, decl), e.fs, e.mode, true))
		}
		out = append(out, sj)
	})
	return out
}

// BuildSymbolsOutput describes the tables of sf. fs must hold the file's
// text.
func BuildSymbolsOutput(sf *binder.SourceFile, fs *source.FileSet, opts SymbolOpts) FileSymbolsJSON {
	e := &symbolEncoder{sf: sf, fs: fs, mode: opts.PathMode}
	f := sf.AST
	out := FileSymbolsJSON{
		File:        formatPath(fs, f.Source, opts.PathMode),
		SymbolCount: sf.SymbolCount,
		Locals:      e.table(sf.Locals()),
	}
	if out.Locals == nil {
		out.Locals = []SymbolJSON{}
	}
	if mod := sf.SymbolOf(f.Root); mod.IsValid() {
		out.Module = sf.Symbols.Name(mod)
		out.Exports = e.table(sf.Symbol(mod).Exports)
	}
	if opts.Containers {
		for c := sf.NextContainer(f.Root); c.IsValid(); c = sf.NextContainer(c) {
			locals := e.table(sf.LocalsOf(c))
			if locals == nil {
				continue
			}
			cj := ContainerJSON{
				Kind:     f.Kind(c).String(),
				Location: makeLocation(f.Node(c).Span, fs, opts.PathMode, true),
				Locals:   locals,
			}
			if name := f.Node(c).Name; name.IsValid() {
				cj.Name = f.DeclarationNameToString(name)
			}
			out.Containers = append(out.Containers, cj)
		}
	}
	return out
}

func buildAll(files []*binder.SourceFile, fs *source.FileSet, opts SymbolOpts) []FileSymbolsJSON {
	out := make([]FileSymbolsJSON, 0, len(files))
	for _, sf := range files {
		out = append(out, BuildSymbolsOutput(sf, fs, opts))
	}
	return out
}

func SymbolsJSON(w io.Writer, files []*binder.SourceFile, fs *source.FileSet, opts SymbolOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildAll(files, fs, opts))
}

// SymbolsYAML writes the same document as SymbolsJSON as YAML.
func SymbolsYAML(w io.Writer, files []*binder.SourceFile, fs *source.FileSet, opts SymbolOpts) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildAll(files, fs, opts)); err != nil {
		return fmt.Errorf("encode symbols yaml: %w", err)
	}
	return enc.Close()
}
