package tree

import "slices"

// NewLeaf allocates a detached leaf.
func (t *Tree) NewLeaf(kind Kind, text string) NodeID {
	return t.alloc(kind, text)
}

// NewBranch allocates a detached branch.
func (t *Tree) NewBranch(kind Kind) NodeID {
	return t.alloc(kind, "")
}

// Append adds the detached node child as the last child of parent.
func (t *Tree) Append(parent, child NodeID) error {
	if err := t.checkInsertable(parent, child); err != nil {
		return err
	}
	t.nodes[child].index = int32(len(t.nodes[parent].children))
	t.nodes[parent].children = append(t.nodes[parent].children, child)
	t.nodes[child].parent = parent
	t.touch(child)
	return nil
}

// InsertBefore inserts the detached node n as the sibling before anchor.
func (t *Tree) InsertBefore(anchor, n NodeID) error {
	return t.insertAt(anchor, n, 0)
}

// InsertAfter inserts the detached node n as the sibling after anchor.
func (t *Tree) InsertAfter(anchor, n NodeID) error {
	return t.insertAt(anchor, n, 1)
}

func (t *Tree) insertAt(anchor, n NodeID, delta int) error {
	parent := t.nodes[anchor].parent
	if parent == NoNode {
		if anchor == t.root {
			return ErrRoot
		}
		return ErrDetached
	}
	if err := t.checkInsertable(parent, n); err != nil {
		return err
	}
	i := t.indexOf(anchor) + delta
	t.nodes[parent].children = slices.Insert(t.nodes[parent].children, i, n)
	t.nodes[n].parent = parent
	t.renumber(parent, i)
	t.touch(n)
	return nil
}

// Replace swaps the attached node old for the detached node n. Afterwards
// old is detached and may be re-inserted elsewhere.
func (t *Tree) Replace(old, n NodeID) error {
	parent := t.nodes[old].parent
	if parent == NoNode {
		if old == t.root {
			return ErrRoot
		}
		return ErrDetached
	}
	if t.isCursorAncestor(old) {
		return ErrCursorAncestor
	}
	if err := t.checkInsertable(parent, n); err != nil {
		return err
	}
	i := t.indexOf(old)
	t.nodes[parent].children[i] = n
	t.nodes[n].parent = parent
	t.nodes[n].index = int32(i)
	t.nodes[old].parent = NoNode
	t.touch(old, n)
	return nil
}

// Remove detaches n from its parent.
func (t *Tree) Remove(n NodeID) error {
	parent := t.nodes[n].parent
	if parent == NoNode {
		if n == t.root {
			return ErrRoot
		}
		return ErrDetached
	}
	if t.isCursorAncestor(n) {
		return ErrCursorAncestor
	}
	i := t.indexOf(n)
	t.nodes[parent].children = slices.Delete(t.nodes[parent].children, i, i+1)
	t.nodes[n].parent = NoNode
	t.renumber(parent, i)
	t.touch(n)
	return nil
}

// SetText replaces the text of a leaf. Setting identical text is not a mutation.
func (t *Tree) SetText(n NodeID, text string) error {
	if !t.IsLeaf(n) {
		return ErrNotLeaf
	}
	if t.nodes[n].text == text {
		return nil
	}
	t.nodes[n].text = text
	t.touch(n)
	return nil
}

func (t *Tree) checkInsertable(parent, n NodeID) error {
	if !t.nodes[parent].kind.IsBranch() {
		return ErrNotBranch
	}
	if n == t.root {
		return ErrRoot
	}
	if t.nodes[n].parent != NoNode {
		return ErrAttached
	}
	for cur := parent; cur != NoNode; cur = t.nodes[cur].parent {
		if cur == n {
			return ErrCycle
		}
	}
	return nil
}

// renumber refreshes the stored index of the children of parent from i on.
func (t *Tree) renumber(parent NodeID, i int) {
	children := t.nodes[parent].children
	for ; i < len(children); i++ {
		t.nodes[children[i]].index = int32(i)
	}
}

// touch records a mutation of the subtrees of changed.
func (t *Tree) touch(changed ...NodeID) {
	t.rev++
	for _, n := range changed {
		if t.hasComment(n) {
			t.commentRev++
			return
		}
	}
}
