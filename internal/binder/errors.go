package binder

import (
	"errors"
	"fmt"

	"tsbind/internal/ast"
)

var errNoRoot = errors.New("file has no root node")

// InternalError reports a broken binder invariant. It never describes a
// problem in the bound source.
type InternalError struct {
	Node ast.NodeID
	Msg  string
}

func (e *InternalError) Error() string {
	if e.Node.IsValid() {
		return fmt.Sprintf("internal binder error at node %d: %s", e.Node, e.Msg)
	}
	return "internal binder error: " + e.Msg
}

// internalErrorf aborts the bind. Bind recovers the panic and returns it.
func internalErrorf(node ast.NodeID, format string, args ...any) {
	panic(&InternalError{Node: node, Msg: fmt.Sprintf(format, args...)})
}
