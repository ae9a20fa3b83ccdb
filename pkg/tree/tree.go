// Package tree provides the mutable syntax tree the rule engine walks.
//
// Nodes are stored in an arena owned by a Tree and addressed by NodeID.
// Parent links are ids, so a node never keeps another node alive; ownership
// flows strictly from the root to its children. Every mutation bumps the tree
// revision, which invalidates cached offsets and line information until they
// are recomputed on demand.
package tree

import (
	"errors"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// NodeID addresses a node inside its Tree.
type NodeID int32

// NoNode is the absent node.
const NoNode NodeID = -1

// Mutation errors.
var (
	ErrDetached       = errors.New("node is not attached to a parent")
	ErrAttached       = errors.New("node is already attached")
	ErrCursorAncestor = errors.New("node is an ancestor of the active walk cursor")
	ErrNotLeaf        = errors.New("node is not a leaf")
	ErrNotBranch      = errors.New("node is not a branch")
	ErrRoot           = errors.New("operation not allowed on the root node")
	ErrCycle          = errors.New("node would become its own ancestor")
)

type node struct {
	kind     Kind
	text     string
	parent   NodeID
	children []NodeID

	// index is the position of the node in its parent's children.
	index int32
}

// Tree is an arena of nodes with a single root of KindFile.
type Tree struct {
	nodes []node
	root  NodeID
	rev   uint64

	// commentRev counts the mutations that touched a comment.
	commentRev uint64

	// positional cache, valid while cacheRev == rev
	cacheRev uint64
	cached   bool
	offsets  []int
	lengths  []int
	text     string
	index    *token.LineIndex

	// path of the active walk, root first
	path []NodeID
}

// New returns a tree holding an empty file node.
func New() *Tree {
	t := &Tree{}
	t.root = t.alloc(KindFile, "")
	return t
}

func (t *Tree) alloc(kind Kind, text string) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{kind: kind, text: text, parent: NoNode})
	return id
}

// Root returns the file node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Revision returns a counter incremented by every mutation.
func (t *Tree) Revision() uint64 {
	return t.rev
}

// CommentRevision returns a counter incremented by every mutation that
// changes, adds or removes a comment.
func (t *Tree) CommentRevision() uint64 {
	return t.commentRev
}

// Kind returns the kind of n.
func (t *Tree) Kind(n NodeID) Kind {
	return t.nodes[n].kind
}

// IsLeaf returns true when n holds text rather than children.
func (t *Tree) IsLeaf(n NodeID) bool {
	return !t.nodes[n].kind.IsBranch()
}

// Text returns the source text of n. For branches this renders the subtree.
func (t *Tree) Text(n NodeID) string {
	if t.IsLeaf(n) {
		return t.nodes[n].text
	}
	return t.Render(n)
}

// Parent returns the parent of n, or NoNode for the root and detached nodes.
func (t *Tree) Parent(n NodeID) NodeID {
	return t.nodes[n].parent
}

// Children returns the children of n. The slice must not be modified.
func (t *Tree) Children(n NodeID) []NodeID {
	return t.nodes[n].children
}

// FirstChild returns the first child of n or NoNode.
func (t *Tree) FirstChild(n NodeID) NodeID {
	if c := t.nodes[n].children; len(c) > 0 {
		return c[0]
	}
	return NoNode
}

// LastChild returns the last child of n or NoNode.
func (t *Tree) LastChild(n NodeID) NodeID {
	if c := t.nodes[n].children; len(c) > 0 {
		return c[len(c)-1]
	}
	return NoNode
}

// Attached reports whether n is reachable from the root.
func (t *Tree) Attached(n NodeID) bool {
	for cur := n; cur != NoNode; cur = t.nodes[cur].parent {
		if cur == t.root {
			return true
		}
	}
	return false
}

// IsWhitespace returns true for whitespace leaves.
func (t *Tree) IsWhitespace(n NodeID) bool {
	return t.nodes[n].kind == KindWhitespace
}

// IsComment returns true for comment leaves.
func (t *Tree) IsComment(n NodeID) bool {
	return t.nodes[n].kind.IsComment()
}

// IsCode returns true for leaves that are neither whitespace nor comments.
func (t *Tree) IsCode(n NodeID) bool {
	return t.IsLeaf(n) && !t.IsWhitespace(n) && !t.IsComment(n)
}

func (t *Tree) indexOf(n NodeID) int {
	if t.nodes[n].parent == NoNode {
		return -1
	}
	return int(t.nodes[n].index)
}

// hasComment reports whether the subtree of n holds a comment.
func (t *Tree) hasComment(n NodeID) bool {
	if t.nodes[n].kind.IsComment() {
		return true
	}
	for _, c := range t.nodes[n].children {
		if t.hasComment(c) {
			return true
		}
	}
	return false
}
