package ast

// ForEachChild calls visit for every present child of id in source order and
// stops early when visit returns false. It reports whether the walk was
// stopped.
func (f *File) ForEachChild(id NodeID, visit func(NodeID) bool) bool {
	n := f.Node(id)
	if n == nil {
		return false
	}
	one := func(child NodeID) bool {
		if !child.IsValid() {
			return false
		}
		return !visit(child)
	}
	many := func(children []NodeID) bool {
		for _, child := range children {
			if one(child) {
				return true
			}
		}
		return false
	}

	switch n.Kind {
	case KindPropertyAccess, KindQualifiedName:
		return one(n.Expr) || one(n.Name)
	case KindIfStatement:
		return one(n.Expr) || one(n.Body) || one(n.Right)
	case KindDoStatement:
		return one(n.Body) || one(n.Expr)
	case KindAsExpression:
		return one(n.Expr) || one(n.Type)
	}
	return one(n.PropertyName) ||
		one(n.Name) ||
		many(n.TypeParams) ||
		many(n.Params) ||
		many(n.Heritage) ||
		one(n.Type) ||
		one(n.Expr) ||
		one(n.Right) ||
		many(n.List) ||
		one(n.Body)
}

// Children collects the children of id in visiting order.
func (f *File) Children(id NodeID) []NodeID {
	var out []NodeID
	f.ForEachChild(id, func(child NodeID) bool {
		out = append(out, child)
		return true
	})
	return out
}

// Walk visits id and its descendants in pre-order. Returning false from
// visit skips the node's children.
func (f *File) Walk(id NodeID, visit func(NodeID) bool) {
	if !id.IsValid() || !visit(id) {
		return
	}
	f.ForEachChild(id, func(child NodeID) bool {
		f.Walk(child, visit)
		return true
	})
}

// LinkParents fills Parent for every node reachable from the root. The
// binder does this as part of its walk; LinkParents serves tools that only
// need the syntactic helpers.
func (f *File) LinkParents() {
	var link func(id NodeID)
	link = func(id NodeID) {
		f.ForEachChild(id, func(child NodeID) bool {
			f.Node(child).Parent = id
			link(child)
			return true
		})
	}
	link(f.Root)
}
