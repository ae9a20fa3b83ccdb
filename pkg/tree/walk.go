package tree

// Walk visits the subtree of root in pre-order, calling enter on the way
// down and exit on the way up. When enter returns false the children of the
// node are skipped (exit is still called). Either callback may be nil.
//
// The children of a node are captured before they are visited: nodes inserted
// by a callback are not visited during this walk, and nodes detached before
// they are reached are skipped. While a node is being visited its strict
// ancestors cannot be removed or replaced.
func (t *Tree) Walk(root NodeID, enter func(NodeID) bool, exit func(NodeID)) {
	t.walk(root, enter, exit)
}

func (t *Tree) walk(n NodeID, enter func(NodeID) bool, exit func(NodeID)) {
	t.path = append(t.path, n)
	defer func() { t.path = t.path[:len(t.path)-1] }()

	descend := true
	if enter != nil {
		descend = enter(n)
	}
	if descend && t.nodes[n].kind.IsBranch() {
		snapshot := append([]NodeID(nil), t.nodes[n].children...)
		for _, c := range snapshot {
			if t.nodes[c].parent != n {
				continue
			}
			t.walk(c, enter, exit)
		}
	}
	if exit != nil {
		exit(n)
	}
}

// isCursorAncestor reports whether n is on the active walk path above the
// current cursor.
func (t *Tree) isCursorAncestor(n NodeID) bool {
	if len(t.path) < 2 {
		return false
	}
	for _, p := range t.path[:len(t.path)-1] {
		if p == n {
			return true
		}
	}
	return false
}
