package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build creates: FILE{ STATEMENT{select, ' ', a, ' ', PAREN{(, b, )}, ;}, '\n', -- c }
func build(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	tr := New()
	ids := map[string]NodeID{}
	leaf := func(parent NodeID, name string, kind Kind, text string) {
		id := tr.NewLeaf(kind, text)
		require.NoError(t, tr.Append(parent, id))
		ids[name] = id
	}

	stmt := tr.NewBranch(KindStatement)
	require.NoError(t, tr.Append(tr.Root(), stmt))
	ids["stmt"] = stmt
	leaf(stmt, "select", KindKeyword, "select")
	leaf(stmt, "ws1", KindWhitespace, " ")
	leaf(stmt, "a", KindIdent, "a")
	leaf(stmt, "ws2", KindWhitespace, " ")
	paren := tr.NewBranch(KindParen)
	require.NoError(t, tr.Append(stmt, paren))
	ids["paren"] = paren
	leaf(paren, "lparen", KindPunct, "(")
	leaf(paren, "b", KindIdent, "b")
	leaf(paren, "rparen", KindPunct, ")")
	leaf(stmt, "semi", KindPunct, ";")
	leaf(tr.Root(), "nl", KindWhitespace, "\n")
	leaf(tr.Root(), "comment", KindLineComment, "-- c")
	return tr, ids
}

func TestTree_RenderAndSpans(t *testing.T) {
	tr, ids := build(t)

	assert.Equal(t, "select a (b);\n-- c", tr.String())
	assert.Equal(t, "(b)", tr.Text(ids["paren"]))
	assert.Equal(t, 9, tr.Offset(ids["paren"]))
	assert.Equal(t, 3, tr.Len(ids["paren"]))
	assert.Equal(t, 2, tr.Position(tr.Offset(ids["comment"])).Line)
	assert.Equal(t, 1, tr.Position(tr.Offset(ids["comment"])).Column)
}

func TestTree_Navigation(t *testing.T) {
	tr, ids := build(t)

	t.Run("siblings", func(t *testing.T) {
		assert.Equal(t, ids["ws1"], tr.NextSibling(ids["select"]))
		assert.Equal(t, NoNode, tr.PrevSibling(ids["select"]))
		assert.Equal(t, ids["a"], tr.NextCodeSibling(ids["select"]))
		assert.Equal(t, ids["a"], tr.PrevCodeSibling(ids["paren"]))
	})

	t.Run("leaves cross branch boundaries", func(t *testing.T) {
		assert.Equal(t, ids["lparen"], tr.NextLeaf(ids["ws2"], false))
		assert.Equal(t, ids["semi"], tr.NextLeaf(ids["rparen"], false))
		assert.Equal(t, ids["nl"], tr.NextLeaf(ids["semi"], false))
		assert.Equal(t, ids["rparen"], tr.PrevLeaf(ids["semi"], false))
		assert.Equal(t, NoNode, tr.PrevLeaf(ids["select"], false))
		assert.Equal(t, NoNode, tr.NextLeaf(ids["comment"], false))
	})

	t.Run("code leaves skip whitespace and comments", func(t *testing.T) {
		assert.Equal(t, ids["a"], tr.NextCodeLeaf(ids["select"]))
		assert.Equal(t, NoNode, tr.NextCodeLeaf(ids["semi"]))
		assert.Equal(t, ids["semi"], tr.PrevCodeLeaf(ids["comment"]))
	})

	t.Run("skip empty leaves", func(t *testing.T) {
		empty := tr.NewLeaf(KindWhitespace, "")
		require.NoError(t, tr.InsertAfter(ids["select"], empty))
		assert.Equal(t, empty, tr.NextLeaf(ids["select"], false))
		assert.Equal(t, ids["ws1"], tr.NextLeaf(ids["select"], true))
	})

	t.Run("ancestors", func(t *testing.T) {
		assert.Equal(t, ids["paren"], tr.AncestorOfKind(ids["paren"], KindParen, false))
		assert.Equal(t, NoNode, tr.AncestorOfKind(ids["paren"], KindParen, true))
		assert.Equal(t, ids["stmt"], tr.AncestorOfKind(ids["b"], KindStatement, true))
		assert.Equal(t, tr.Root(), tr.FindAncestor(ids["b"], func(n NodeID) bool {
			return tr.Kind(n) == KindFile
		}, true))
	})
}

func TestTree_Walk(t *testing.T) {
	tr, ids := build(t)

	var enter, exit []NodeID
	tr.Walk(ids["paren"], func(n NodeID) bool {
		enter = append(enter, n)
		return true
	}, func(n NodeID) {
		exit = append(exit, n)
	})

	assert.Equal(t, []NodeID{ids["paren"], ids["lparen"], ids["b"], ids["rparen"]}, enter)
	assert.Equal(t, []NodeID{ids["lparen"], ids["b"], ids["rparen"], ids["paren"]}, exit)

	t.Run("skip children", func(t *testing.T) {
		var seen []NodeID
		tr.Walk(ids["stmt"], func(n NodeID) bool {
			seen = append(seen, n)
			return n != ids["paren"]
		}, nil)
		assert.NotContains(t, seen, ids["b"])
		assert.Contains(t, seen, ids["semi"])
	})
}

func TestTree_MutationDuringWalk(t *testing.T) {
	t.Run("inserted nodes are not visited and removed nodes are skipped", func(t *testing.T) {
		tr, ids := build(t)
		var seen []string
		tr.Walk(tr.Root(), func(n NodeID) bool {
			if n == ids["select"] {
				require.NoError(t, tr.InsertAfter(n, tr.NewLeaf(KindIdent, "x")))
				require.NoError(t, tr.Remove(ids["a"]))
			}
			if tr.IsLeaf(n) {
				seen = append(seen, tr.Text(n))
			}
			return true
		}, nil)
		assert.NotContains(t, seen, "x")
		assert.NotContains(t, seen, "a")
		assert.Equal(t, "selectx  (b);\n-- c", tr.String())
	})

	t.Run("ancestors of the cursor are protected", func(t *testing.T) {
		tr, ids := build(t)
		tr.Walk(tr.Root(), func(n NodeID) bool {
			if n == ids["b"] {
				assert.ErrorIs(t, tr.Remove(ids["paren"]), ErrCursorAncestor)
				assert.ErrorIs(t, tr.Replace(ids["stmt"], tr.NewBranch(KindStatement)), ErrCursorAncestor)
				assert.NoError(t, tr.Replace(n, tr.NewLeaf(KindIdent, "c")))
			}
			return true
		}, nil)
		assert.Equal(t, "select a (c);\n-- c", tr.String())
	})
}

func TestTree_MutationPrimitives(t *testing.T) {
	tr, ids := build(t)
	rev := tr.Revision()

	require.NoError(t, tr.SetText(ids["select"], "SELECT"))
	assert.Greater(t, tr.Revision(), rev)
	assert.Equal(t, "SELECT a (b);\n-- c", tr.String())

	rev = tr.Revision()
	require.NoError(t, tr.SetText(ids["select"], "SELECT"))
	assert.Equal(t, rev, tr.Revision(), "identical text is not a mutation")

	assert.ErrorIs(t, tr.SetText(ids["paren"], "x"), ErrNotLeaf)
	assert.ErrorIs(t, tr.Remove(tr.Root()), ErrRoot)
	assert.ErrorIs(t, tr.InsertBefore(tr.Root(), tr.NewLeaf(KindIdent, "x")), ErrRoot)
	assert.ErrorIs(t, tr.Append(ids["stmt"], ids["a"]), ErrAttached)
	assert.ErrorIs(t, tr.Append(ids["a"], tr.NewLeaf(KindIdent, "x")), ErrNotBranch)

	require.NoError(t, tr.Remove(ids["paren"]))
	assert.False(t, tr.Attached(ids["b"]))
	assert.Equal(t, -1, tr.Offset(ids["b"]))
	assert.ErrorIs(t, tr.Remove(ids["paren"]), ErrDetached)
	assert.ErrorIs(t, tr.Append(ids["paren"], ids["paren"]), ErrCycle)

	require.NoError(t, tr.InsertBefore(ids["semi"], ids["paren"]))
	assert.True(t, tr.Attached(ids["b"]))
	assert.Equal(t, ids["stmt"], tr.Parent(ids["paren"]))
	assert.Equal(t, "SELECT a (b);\n-- c", tr.String())
}

func TestTree_SiblingsAfterMutation(t *testing.T) {
	tr, ids := build(t)
	stmt := ids["stmt"]

	x := tr.NewLeaf(KindIdent, "x")
	require.NoError(t, tr.InsertBefore(ids["a"], x))
	assert.Equal(t, x, tr.NextSibling(ids["ws1"]))
	assert.Equal(t, ids["a"], tr.NextSibling(x))
	assert.Equal(t, ids["ws2"], tr.NextSibling(ids["a"]))
	assert.Equal(t, ids["semi"], tr.LastChild(stmt))
	assert.Equal(t, ids["paren"], tr.PrevSibling(ids["semi"]))

	require.NoError(t, tr.Remove(ids["ws1"]))
	assert.Equal(t, x, tr.NextSibling(ids["select"]))
	assert.Equal(t, ids["select"], tr.PrevSibling(x))
	assert.Equal(t, NoNode, tr.NextSibling(ids["ws1"]), "detached nodes have no siblings")

	y := tr.NewLeaf(KindIdent, "y")
	require.NoError(t, tr.Replace(ids["a"], y))
	assert.Equal(t, y, tr.NextSibling(x))
	assert.Equal(t, ids["ws2"], tr.NextSibling(y))

	require.NoError(t, tr.Append(stmt, ids["ws1"]))
	assert.Equal(t, ids["ws1"], tr.NextSibling(ids["semi"]))
	assert.Equal(t, "selectxy (b); \n-- c", tr.String())

	var leaves []NodeID
	for n := tr.FirstLeaf(tr.Root()); n != NoNode; n = tr.NextLeaf(n, false) {
		leaves = append(leaves, n)
	}
	assert.Equal(t, tr.Leaves(tr.Root()), leaves)
}

func TestTree_CommentRevision(t *testing.T) {
	tr, ids := build(t)
	rev := tr.CommentRevision()

	require.NoError(t, tr.SetText(ids["a"], "abc"))
	require.NoError(t, tr.InsertAfter(ids["semi"], tr.NewLeaf(KindWhitespace, " ")))
	assert.Equal(t, rev, tr.CommentRevision(), "code mutations leave comments alone")

	require.NoError(t, tr.SetText(ids["comment"], "-- d"))
	assert.Equal(t, rev+1, tr.CommentRevision())

	wrapper := tr.NewBranch(KindStatement)
	require.NoError(t, tr.Append(tr.Root(), wrapper))
	assert.Equal(t, rev+1, tr.CommentRevision())
	require.NoError(t, tr.Append(wrapper, tr.NewLeaf(KindBlockComment, "/* e */")))
	assert.Equal(t, rev+2, tr.CommentRevision())

	require.NoError(t, tr.Remove(wrapper))
	assert.Equal(t, rev+3, tr.CommentRevision(), "detaching a subtree with a comment")
}
