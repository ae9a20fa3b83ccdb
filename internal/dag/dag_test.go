package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", "node A")
	g.AddNode("b", "node B")
	g.AddNode("c", "node C")
	assert.Equal(t, 3, g.NodeCount())

	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))
	require.NoError(t, g.AddEdge("b", "c"))
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, []string{"a"}, g.GetParents("b"))
	assert.Equal(t, []string{"c"}, g.GetChildren("b"))

	g.AddNode("a", "updated")
	n, ok := g.GetNode("a")
	require.True(t, ok)
	assert.Equal(t, "updated", n.Data)
}

func TestGraph_AddEdge_Invalid(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)

	assert.Error(t, g.AddEdge("a", "nonexistent"))
	assert.Error(t, g.AddEdge("nonexistent", "a"))

	err := g.AddEdge("a", "a")
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a", "a"}, cycleErr.Path)
}

func TestGraph_HasCycle(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id, nil)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	has, _ := g.HasCycle()
	assert.False(t, has)

	require.NoError(t, g.AddEdge("c", "a"))
	has, path := g.HasCycle()
	require.True(t, has)
	assert.Equal(t, []string{"a", "b", "c", "a"}, path)

	for range 10 {
		_, again := g.HasCycle()
		assert.Equal(t, path, again)
	}
}

func TestGraph_TopologicalSort(t *testing.T) {
	t.Run("parents first, ties by id", func(t *testing.T) {
		g := NewGraph()
		for _, id := range []string{"d", "c", "b", "a"} {
			g.AddNode(id, nil)
		}
		require.NoError(t, g.AddEdge("c", "a"))

		sorted, err := g.TopologicalSort(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "a", "d"}, ids(sorted))
	})

	t.Run("less picks among ready nodes", func(t *testing.T) {
		g := NewGraph()
		g.AddNode("a", 2)
		g.AddNode("b", 1)
		g.AddNode("c", 0)
		require.NoError(t, g.AddEdge("a", "c"))

		byData := func(x, y *Node) bool { return x.Data.(int) < y.Data.(int) }
		sorted, err := g.TopologicalSort(byData)
		require.NoError(t, err)
		// c has the lowest key but must wait for a.
		assert.Equal(t, []string{"b", "a", "c"}, ids(sorted))
	})

	t.Run("cycle", func(t *testing.T) {
		g := NewGraph()
		g.AddNode("x", nil)
		g.AddNode("y", nil)
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "x"))

		_, err := g.TopologicalSort(nil)
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, "cycle detected: x -> y -> x", err.Error())
	})
}
