package binder

import (
	"errors"
	"fmt"

	"tsbind/internal/ast"
	"tsbind/internal/symbols"
)

// ErrInvalidBind wraps every problem found by Validate.
var ErrInvalidBind = errors.New("bound file failed validation")

// Validate checks the structural invariants of a bound file: parent links
// match the tree, every node's symbol lists the node among its
// declarations, table keys equal symbol names, and the container chain
// terminates.
func Validate(sf *SourceFile) error {
	if !sf.IsBound() {
		return fmt.Errorf("%w: file is not bound", ErrInvalidBind)
	}
	return sf.validate()
}

func (sf *SourceFile) validate() error {
	var errs []error
	f := sf.AST

	var locals []*symbols.SymbolTable
	f.Walk(f.Root, func(id ast.NodeID) bool {
		f.ForEachChild(id, func(child ast.NodeID) bool {
			if p := f.Parent(child); p != id {
				errs = append(errs, fmt.Errorf("node %d (%s) has parent %d, want %d", child, f.Kind(child), p, id))
			}
			return true
		})
		l := sf.link(id)
		for _, pair := range []struct {
			kind string
			sym  symbols.SymbolID
		}{{"symbol", l.symbol}, {"local symbol", l.localSymbol}} {
			if !pair.sym.IsValid() {
				continue
			}
			sym := sf.Symbols.Get(pair.sym)
			if sym == nil {
				errs = append(errs, fmt.Errorf("node %d %s %d does not exist", id, pair.kind, pair.sym))
				continue
			}
			if !sym.HasDeclaration(id) {
				errs = append(errs, fmt.Errorf("node %d (%s) %s %d does not list it as a declaration", id, f.Kind(id), pair.kind, pair.sym))
			}
		}
		if l.locals != nil {
			locals = append(locals, l.locals)
		}
		return true
	})

	if f.Parent(f.Root).IsValid() {
		errs = append(errs, fmt.Errorf("root has parent %d", f.Parent(f.Root)))
	}

	seen := make(map[ast.NodeID]bool)
	for c := f.Root; c.IsValid(); c = sf.NextContainer(c) {
		if seen[c] {
			errs = append(errs, fmt.Errorf("container chain loops at node %d", c))
			break
		}
		seen[c] = true
	}

	if err := sf.Symbols.Validate(locals...); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidBind, errors.Join(errs...))
}
