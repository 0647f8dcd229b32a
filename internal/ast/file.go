package ast

import (
	"tsbind/internal/source"
)

// File is one parsed source file: a node arena rooted at a SourceFile node
// plus the interner its identifiers and literals live in.
type File struct {
	Path    string
	// Text is the source text when the producer kept it.
	Text    string
	Source  source.FileID
	Root    NodeID
	Nodes   *Arena[Node]
	Strings *source.Interner

	// ExternalModuleIndicator is the first top-level import or export, or
	// NoNodeID for scripts.
	ExternalModuleIndicator NodeID
	// ParseDiagnostics counts syntax errors reported while parsing.
	ParseDiagnostics int
}

// NewFile creates an empty file with preallocated storage.
func NewFile(path string, strings *source.Interner, capHint uint) *File {
	if capHint == 0 {
		capHint = 1 << 6
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &File{
		Path:    path,
		Nodes:   NewArena[Node](capHint),
		Strings: strings,
	}
}

func (f *File) New(n Node) NodeID {
	return NodeID(f.Nodes.Allocate(n))
}

func (f *File) Node(id NodeID) *Node {
	return f.Nodes.Get(uint32(id))
}

func (f *File) Kind(id NodeID) Kind {
	if n := f.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (f *File) Len() int {
	return int(f.Nodes.Len())
}

// TextOf returns the interned Text of the node.
func (f *File) TextOf(id NodeID) string {
	n := f.Node(id)
	if n == nil {
		return ""
	}
	s, _ := f.Strings.Lookup(n.Text)
	return s
}

// RawOf returns the literal exactly as written.
func (f *File) RawOf(id NodeID) string {
	n := f.Node(id)
	if n == nil {
		return ""
	}
	s, _ := f.Strings.Lookup(n.Raw)
	return s
}

func (f *File) IsExternalModule() bool {
	return f.ExternalModuleIndicator.IsValid()
}

func (f *File) IsDeclarationFile() bool {
	return f.Node(f.Root).HasFlags(FlagDeclarationFile)
}

// Statements returns the top-level statements.
func (f *File) Statements() []NodeID {
	if n := f.Node(f.Root); n != nil {
		return n.List
	}
	return nil
}

// ComputeExternalModuleIndicator finds the first top-level statement that
// makes the file a module.
func (f *File) ComputeExternalModuleIndicator() NodeID {
	for _, stmt := range f.Statements() {
		n := f.Node(stmt)
		if n == nil {
			continue
		}
		if n.Flags&FlagExport != 0 {
			return stmt
		}
		switch n.Kind {
		case KindImportDeclaration, KindExportAssignment, KindExportDeclaration:
			return stmt
		case KindImportEqualsDeclaration:
			if f.Kind(n.Expr) == KindExternalModuleReference {
				return stmt
			}
		}
	}
	return NoNodeID
}
