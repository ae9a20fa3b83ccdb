// Package dag provides directed graph operations for rule ordering.
// It supports cycle detection and a stable, prioritised topological sort.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier (qualified rule id)
	ID string
	// Data holds arbitrary node data
	Data any
}

// Graph represents a directed graph whose edges point from a node to the
// nodes that must come after it.
type Graph struct {
	nodes   map[string]*Node
	edges   map[string][]string // parent -> children (run later)
	parents map[string][]string // child -> parents (run earlier)
}

// CycleError reports a cycle found while sorting. Path starts and ends with
// the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Adding an existing id replaces its data.
func (g *Graph) AddNode(id string, data any) {
	if n, exists := g.nodes[id]; exists {
		n.Data = data
		return
	}
	g.nodes[id] = &Node{ID: id, Data: data}
	g.edges[id] = []string{}
	g.parents[id] = []string{}
}

// AddEdge adds a directed edge from parent to child (child comes after parent).
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}
	if parentID == childID {
		return &CycleError{Path: []string{parentID, parentID}}
	}

	if !slices.Contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !slices.Contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// GetParents returns the parents of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the children of a node.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// HasCycle returns true if the graph contains a cycle, along with the cycle
// path. Nodes and edges are explored in sorted order so the reported path is
// the same on every run.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		children := slices.Clone(g.edges[id])
		slices.Sort(children)
		for _, childID := range children {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.sortedIDs() {
		if !visited[id] && dfs(id) {
			return true, cyclePath
		}
	}
	return false, nil
}

// TopologicalSort returns nodes with every parent before its children. Among
// the nodes that are ready at a given step, the one ordered first by less is
// emitted. A nil less orders by id. Returns a *CycleError if the graph
// contains a cycle.
func (g *Graph) TopologicalSort(less func(a, b *Node) bool) ([]*Node, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, &CycleError{Path: cyclePath}
	}
	if less == nil {
		less = func(a, b *Node) bool { return a.ID < b.ID }
	}
	cmp := func(a, b *Node) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return strings.Compare(a.ID, b.ID)
		}
	}

	inDegree := make(map[string]int, len(g.nodes))
	var ready []*Node
	for _, id := range g.sortedIDs() {
		inDegree[id] = len(g.parents[id])
		if inDegree[id] == 0 {
			ready = append(ready, g.nodes[id])
		}
	}

	result := make([]*Node, 0, len(g.nodes))
	for len(ready) > 0 {
		slices.SortFunc(ready, cmp)
		next := ready[0]
		ready = ready[1:]
		result = append(result, next)

		for _, childID := range g.edges[next.ID] {
			inDegree[childID]--
			if inDegree[childID] == 0 {
				ready = append(ready, g.nodes[childID])
			}
		}
	}
	return result, nil
}
