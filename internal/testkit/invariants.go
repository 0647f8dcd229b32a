// Package testkit holds structural checks shared by tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tsbind/internal/ast"
	"tsbind/internal/source"
)

// CheckSpanInvariants verifies the spans of a file attached to src:
// 1) every span points at src and lies within its content
// 2) every child span lies within its parent's span
// 3) the root covers the union of its statements
func CheckSpanInvariants(f *ast.File, src *source.File) error {
	if f == nil || src == nil {
		return fmt.Errorf("nil file or source")
	}
	root := f.Node(f.Root)
	if root == nil {
		return fmt.Errorf("file has no root")
	}
	size, err := safecast.Conv[uint32](len(src.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	for i := 1; i <= f.Len(); i++ {
		id, err := safecast.Conv[ast.NodeID](i)
		if err != nil {
			return fmt.Errorf("node id overflow: %w", err)
		}
		sp := f.Node(id).Span
		if sp.File != src.ID {
			return fmt.Errorf("node %d (%s) span points to file %d, want %d", id, f.Kind(id), sp.File, src.ID)
		}
		if sp.Start > sp.End || sp.End > size {
			return fmt.Errorf("node %d (%s) span %v outside content of %d bytes", id, f.Kind(id), sp, size)
		}
		var bad error
		f.ForEachChild(id, func(child ast.NodeID) bool {
			csp := f.Node(child).Span
			if csp.Start < sp.Start || csp.End > sp.End {
				bad = fmt.Errorf("child %d (%s) span %v escapes parent %d (%s) span %v", child, f.Kind(child), csp, id, f.Kind(id), sp)
				return false
			}
			return true
		})
		if bad != nil {
			return bad
		}
	}

	var union source.Span
	for i, stmt := range f.Statements() {
		if i == 0 {
			union = f.Node(stmt).Span
		} else {
			union = union.Cover(f.Node(stmt).Span)
		}
	}
	if len(f.Statements()) > 0 && (union.Start < root.Span.Start || union.End > root.Span.End) {
		return fmt.Errorf("root span %v does not cover statements %v", root.Span, union)
	}
	return nil
}

// CheckParents verifies the parent links written by the binder: the root has
// none and every other reachable node names the node that lists it as a
// child.
func CheckParents(f *ast.File) error {
	if root := f.Node(f.Root); root == nil || root.Parent.IsValid() {
		return fmt.Errorf("root missing or has a parent")
	}
	var bad error
	f.Walk(f.Root, func(id ast.NodeID) bool {
		f.ForEachChild(id, func(child ast.NodeID) bool {
			if got := f.Node(child).Parent; got != id {
				bad = fmt.Errorf("node %d (%s) has parent %d, want %d", child, f.Kind(child), got, id)
				return false
			}
			return true
		})
		return bad == nil
	})
	return bad
}
