package tree

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Offset returns the byte offset of n in the rendered file, or -1 when n is
// not attached to the root.
func (t *Tree) Offset(n NodeID) int {
	t.recompute()
	return t.offsets[n]
}

// Len returns the rendered length of n in bytes.
func (t *Tree) Len(n NodeID) int {
	if t.IsLeaf(n) {
		return len(t.nodes[n].text)
	}
	if t.Attached(n) {
		t.recompute()
		return t.lengths[n]
	}
	return len(t.Render(n))
}

// Span returns the byte range of an attached node.
func (t *Tree) Span(n NodeID) token.Span {
	off := t.Offset(n)
	return token.Span{Start: off, End: off + t.Len(n)}
}

// Position converts a byte offset in the rendered file to line and column.
func (t *Tree) Position(offset int) token.Position {
	t.recompute()
	return t.index.Position(offset)
}

// LineIndex returns the line index of the rendered file.
func (t *Tree) LineIndex() *token.LineIndex {
	t.recompute()
	return t.index
}

// String renders the whole file.
func (t *Tree) String() string {
	t.recompute()
	return t.text
}

// Render concatenates the text of every leaf under n.
func (t *Tree) Render(n NodeID) string {
	var sb strings.Builder
	t.render(n, &sb)
	return sb.String()
}

func (t *Tree) render(n NodeID, sb *strings.Builder) {
	nd := &t.nodes[n]
	if !nd.kind.IsBranch() {
		sb.WriteString(nd.text)
		return
	}
	for _, c := range nd.children {
		t.render(c, sb)
	}
}

// recompute refreshes offsets, lengths and the line index after a mutation.
func (t *Tree) recompute() {
	if t.cached && t.cacheRev == t.rev && len(t.offsets) == len(t.nodes) {
		return
	}
	t.offsets = make([]int, len(t.nodes))
	t.lengths = make([]int, len(t.nodes))
	for i := range t.offsets {
		t.offsets[i] = -1
	}
	var sb strings.Builder
	t.measure(t.root, 0, &sb)
	t.text = sb.String()
	t.index = token.NewLineIndex(t.text)
	t.cacheRev = t.rev
	t.cached = true
}

func (t *Tree) measure(n NodeID, off int, sb *strings.Builder) int {
	t.offsets[n] = off
	nd := &t.nodes[n]
	if !nd.kind.IsBranch() {
		sb.WriteString(nd.text)
		t.lengths[n] = len(nd.text)
		return t.lengths[n]
	}
	total := 0
	for _, c := range nd.children {
		total += t.measure(c, off+total, sb)
	}
	t.lengths[n] = total
	return total
}
