package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"tsbind/internal/source"
)

// dumpSchemaVersion is bumped whenever Dump changes shape.
const dumpSchemaVersion uint16 = 1

var (
	ErrUnknownKind     = errors.New("unknown node kind")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrBadNodeRef      = errors.New("node reference out of range")
	ErrSchema          = errors.New("unsupported dump schema")
	ErrNotTree         = errors.New("node graph is not a tree")
)

// Dump is the serialized form of a File produced by an external parser.
type Dump struct {
	Schema                  uint16     `json:"schema" msgpack:"schema"`
	Path                    string     `json:"path" msgpack:"path"`
	Text                    string     `json:"text,omitempty" msgpack:"text,omitempty"`
	Root                    NodeID     `json:"root" msgpack:"root"`
	ExternalModuleIndicator NodeID     `json:"external_module_indicator,omitempty" msgpack:"external_module_indicator,omitempty"`
	ParseErrors             int        `json:"parse_errors,omitempty" msgpack:"parse_errors,omitempty"`
	Nodes                   []DumpNode `json:"nodes" msgpack:"nodes"`
}

// DumpNode is one node; child references are 1-based positions in Dump.Nodes.
type DumpNode struct {
	Kind         string   `json:"kind" msgpack:"kind"`
	Flags        []string `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Start        uint32   `json:"start" msgpack:"start"`
	End          uint32   `json:"end" msgpack:"end"`
	Text         string   `json:"text,omitempty" msgpack:"text,omitempty"`
	Raw          string   `json:"raw,omitempty" msgpack:"raw,omitempty"`
	Op           string   `json:"op,omitempty" msgpack:"op,omitempty"`
	PropertyName NodeID   `json:"property_name,omitempty" msgpack:"property_name,omitempty"`
	Name         NodeID   `json:"name,omitempty" msgpack:"name,omitempty"`
	TypeParams   []NodeID `json:"type_params,omitempty" msgpack:"type_params,omitempty"`
	Params       []NodeID `json:"params,omitempty" msgpack:"params,omitempty"`
	Heritage     []NodeID `json:"heritage,omitempty" msgpack:"heritage,omitempty"`
	Type         NodeID   `json:"type,omitempty" msgpack:"type,omitempty"`
	Expr         NodeID   `json:"expr,omitempty" msgpack:"expr,omitempty"`
	Right        NodeID   `json:"right,omitempty" msgpack:"right,omitempty"`
	List         []NodeID `json:"list,omitempty" msgpack:"list,omitempty"`
	Body         NodeID   `json:"body,omitempty" msgpack:"body,omitempty"`
}

// ToDump captures f. Parent links and binder-written flags are not part of
// the dump.
func ToDump(f *File) *Dump {
	nodes := f.Nodes.Slice()
	d := &Dump{
		Schema:                  dumpSchemaVersion,
		Path:                    f.Path,
		Text:                    f.Text,
		Root:                    f.Root,
		ExternalModuleIndicator: f.ExternalModuleIndicator,
		ParseErrors:             f.ParseDiagnostics,
		Nodes:                   make([]DumpNode, len(nodes)),
	}
	for i := range nodes {
		n := &nodes[i]
		d.Nodes[i] = DumpNode{
			Kind:         n.Kind.String(),
			Flags:        (n.Flags &^ FlagExportContext).Names(),
			Start:        n.Span.Start,
			End:          n.Span.End,
			Text:         f.Strings.MustLookup(n.Text),
			Raw:          f.Strings.MustLookup(n.Raw),
			Op:           n.Operator.String(),
			PropertyName: n.PropertyName,
			Name:         n.Name,
			TypeParams:   n.TypeParams,
			Params:       n.Params,
			Heritage:     n.Heritage,
			Type:         n.Type,
			Expr:         n.Expr,
			Right:        n.Right,
			List:         n.List,
			Body:         n.Body,
		}
	}
	return d
}

// FromDump rebuilds a File, validating kinds, flags, operators and child
// references. Spans are attributed to fileID.
func FromDump(d *Dump, fileID source.FileID) (*File, error) {
	if d.Schema != dumpSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchema, d.Schema)
	}
	f := NewFile(d.Path, nil, uint(len(d.Nodes)))
	f.Text = d.Text
	f.Source = fileID
	f.ParseDiagnostics = d.ParseErrors

	count := NodeID(len(d.Nodes))
	ref := func(i int, id NodeID) error {
		if id > count {
			return fmt.Errorf("node %d: %w: %d", i+1, ErrBadNodeRef, id)
		}
		return nil
	}
	refs := func(i int, ids []NodeID) error {
		for _, id := range ids {
			if !id.IsValid() {
				continue
			}
			if err := ref(i, id); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range d.Nodes {
		dn := &d.Nodes[i]
		kind, ok := ParseKind(dn.Kind)
		if !ok {
			return nil, fmt.Errorf("node %d: %w: %q", i+1, ErrUnknownKind, dn.Kind)
		}
		op, ok := ParseOperator(dn.Op)
		if !ok {
			return nil, fmt.Errorf("node %d: %w: %q", i+1, ErrUnknownOperator, dn.Op)
		}
		flags, err := ParseNodeFlags(dn.Flags)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i+1, err)
		}
		for _, id := range []NodeID{dn.PropertyName, dn.Name, dn.Type, dn.Expr, dn.Right, dn.Body} {
			if err := ref(i, id); err != nil {
				return nil, err
			}
		}
		for _, ids := range [][]NodeID{dn.TypeParams, dn.Params, dn.Heritage, dn.List} {
			if err := refs(i, ids); err != nil {
				return nil, err
			}
		}
		n := Node{
			Kind:         kind,
			Flags:        flags,
			Operator:     op,
			Span:         source.Span{File: fileID, Start: dn.Start, End: dn.End},
			PropertyName: dn.PropertyName,
			Name:         dn.Name,
			TypeParams:   dn.TypeParams,
			Params:       dn.Params,
			Heritage:     dn.Heritage,
			Type:         dn.Type,
			Expr:         dn.Expr,
			Right:        dn.Right,
			List:         dn.List,
			Body:         dn.Body,
		}
		if dn.Text != "" {
			n.Text = f.Strings.Intern(dn.Text)
		}
		if dn.Raw != "" {
			n.Raw = f.Strings.Intern(dn.Raw)
		}
		f.New(n)
	}

	if !d.Root.IsValid() || d.Root > count {
		return nil, fmt.Errorf("root: %w: %d", ErrBadNodeRef, d.Root)
	}
	if k := f.Kind(d.Root); k != KindSourceFile {
		return nil, fmt.Errorf("root is %s, want %s", k, KindSourceFile)
	}
	f.Root = d.Root
	if err := checkTree(f); err != nil {
		return nil, err
	}
	if err := ref(int(d.Root)-1, d.ExternalModuleIndicator); err != nil {
		return nil, err
	}
	f.ExternalModuleIndicator = d.ExternalModuleIndicator
	if !f.ExternalModuleIndicator.IsValid() {
		f.ExternalModuleIndicator = f.ComputeExternalModuleIndicator()
	}
	return f, nil
}

// checkTree rejects dumps where a node has two parents or the root has one.
func checkTree(f *File) error {
	seen := make([]bool, f.Len()+1)
	seen[f.Root] = true
	for i := 1; i <= f.Len(); i++ {
		var bad NodeID
		f.ForEachChild(NodeID(i), func(child NodeID) bool {
			if seen[child] {
				bad = child
				return false
			}
			seen[child] = true
			return true
		})
		if bad.IsValid() {
			return fmt.Errorf("node %d: %w: %d has more than one parent", i, ErrNotTree, bad)
		}
	}
	return nil
}

func EncodeJSON(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToDump(f))
}

func DecodeJSON(r io.Reader, fileID source.FileID) (*File, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode json dump: %w", err)
	}
	return FromDump(&d, fileID)
}

func EncodeMsgpack(w io.Writer, f *File) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(ToDump(f))
}

func DecodeMsgpack(r io.Reader, fileID source.FileID) (*File, error) {
	var d Dump
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode msgpack dump: %w", err)
	}
	return FromDump(&d, fileID)
}
