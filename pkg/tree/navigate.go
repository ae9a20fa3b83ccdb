package tree

// NextSibling returns the sibling after n or NoNode.
func (t *Tree) NextSibling(n NodeID) NodeID {
	i := t.indexOf(n)
	if i < 0 {
		return NoNode
	}
	siblings := t.nodes[t.nodes[n].parent].children
	if i+1 < len(siblings) {
		return siblings[i+1]
	}
	return NoNode
}

// PrevSibling returns the sibling before n or NoNode.
func (t *Tree) PrevSibling(n NodeID) NodeID {
	i := t.indexOf(n)
	if i <= 0 {
		return NoNode
	}
	return t.nodes[t.nodes[n].parent].children[i-1]
}

// NextCodeSibling returns the next sibling that is not whitespace or a comment.
func (t *Tree) NextCodeSibling(n NodeID) NodeID {
	for s := t.NextSibling(n); s != NoNode; s = t.NextSibling(s) {
		if !t.IsWhitespace(s) && !t.IsComment(s) {
			return s
		}
	}
	return NoNode
}

// PrevCodeSibling returns the previous sibling that is not whitespace or a comment.
func (t *Tree) PrevCodeSibling(n NodeID) NodeID {
	for s := t.PrevSibling(n); s != NoNode; s = t.PrevSibling(s) {
		if !t.IsWhitespace(s) && !t.IsComment(s) {
			return s
		}
	}
	return NoNode
}

// NextLeaf returns the first leaf after the subtree of n in document order.
// With skipEmpty, zero-length leaves are passed over.
func (t *Tree) NextLeaf(n NodeID, skipEmpty bool) NodeID {
	return t.nextLeaf(n, func(l NodeID) bool {
		return !skipEmpty || t.nodes[l].text != ""
	})
}

// PrevLeaf returns the last leaf before n in document order.
// With skipEmpty, zero-length leaves are passed over.
func (t *Tree) PrevLeaf(n NodeID, skipEmpty bool) NodeID {
	return t.prevLeaf(n, func(l NodeID) bool {
		return !skipEmpty || t.nodes[l].text != ""
	})
}

// NextCodeLeaf returns the next non-empty leaf that is not whitespace or a comment.
func (t *Tree) NextCodeLeaf(n NodeID) NodeID {
	return t.nextLeaf(n, func(l NodeID) bool {
		return t.nodes[l].text != "" && t.IsCode(l)
	})
}

// PrevCodeLeaf returns the previous non-empty leaf that is not whitespace or a comment.
func (t *Tree) PrevCodeLeaf(n NodeID) NodeID {
	return t.prevLeaf(n, func(l NodeID) bool {
		return t.nodes[l].text != "" && t.IsCode(l)
	})
}

// FirstLeaf returns the first leaf of the subtree of n, including n itself.
func (t *Tree) FirstLeaf(n NodeID) NodeID {
	return t.firstLeaf(n, func(NodeID) bool { return true })
}

// LastLeaf returns the last leaf of the subtree of n, including n itself.
func (t *Tree) LastLeaf(n NodeID) NodeID {
	return t.lastLeaf(n, func(NodeID) bool { return true })
}

func (t *Tree) nextLeaf(n NodeID, accept func(NodeID) bool) NodeID {
	cur := n
	for {
		sib := t.NextSibling(cur)
		for sib == NoNode {
			cur = t.nodes[cur].parent
			if cur == NoNode {
				return NoNode
			}
			sib = t.NextSibling(cur)
		}
		if l := t.firstLeaf(sib, accept); l != NoNode {
			return l
		}
		cur = sib
	}
}

func (t *Tree) prevLeaf(n NodeID, accept func(NodeID) bool) NodeID {
	cur := n
	for {
		sib := t.PrevSibling(cur)
		for sib == NoNode {
			cur = t.nodes[cur].parent
			if cur == NoNode {
				return NoNode
			}
			sib = t.PrevSibling(cur)
		}
		if l := t.lastLeaf(sib, accept); l != NoNode {
			return l
		}
		cur = sib
	}
}

func (t *Tree) firstLeaf(n NodeID, accept func(NodeID) bool) NodeID {
	if t.IsLeaf(n) {
		if accept(n) {
			return n
		}
		return NoNode
	}
	for _, c := range t.nodes[n].children {
		if l := t.firstLeaf(c, accept); l != NoNode {
			return l
		}
	}
	return NoNode
}

func (t *Tree) lastLeaf(n NodeID, accept func(NodeID) bool) NodeID {
	if t.IsLeaf(n) {
		if accept(n) {
			return n
		}
		return NoNode
	}
	children := t.nodes[n].children
	for i := len(children) - 1; i >= 0; i-- {
		if l := t.lastLeaf(children[i], accept); l != NoNode {
			return l
		}
	}
	return NoNode
}

// FindAncestor returns the closest ancestor of n matching pred. When strict
// is false n itself is eligible.
func (t *Tree) FindAncestor(n NodeID, pred func(NodeID) bool, strict bool) NodeID {
	cur := n
	if strict {
		cur = t.nodes[n].parent
	}
	for ; cur != NoNode; cur = t.nodes[cur].parent {
		if pred(cur) {
			return cur
		}
	}
	return NoNode
}

// AncestorOfKind returns the closest ancestor of n with the given kind.
func (t *Tree) AncestorOfKind(n NodeID, kind Kind, strict bool) NodeID {
	return t.FindAncestor(n, func(a NodeID) bool { return t.nodes[a].kind == kind }, strict)
}

// Leaves returns the leaves of the subtree of n in document order.
func (t *Tree) Leaves(n NodeID) []NodeID {
	var out []NodeID
	t.Walk(n, func(c NodeID) bool {
		if t.IsLeaf(c) {
			out = append(out, c)
		}
		return true
	}, nil)
	return out
}
