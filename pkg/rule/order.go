package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/dag"
)

// OrderError is returned when run-after constraints cannot be satisfied.
type OrderError struct {
	// Cycle lists the rules on the cycle; the first id is repeated at the end.
	Cycle []ID
}

func (e *OrderError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = string(id)
	}
	if len(e.Cycle) == 2 && e.Cycle[0] == e.Cycle[1] {
		return fmt.Sprintf("rule %s cannot run after itself", e.Cycle[0])
	}
	return "cyclic run-after dependency between rules: " + strings.Join(parts, " -> ")
}

// Ordered is the execution order of all registered rules.
type Ordered struct {
	entries []Entry
}

// Order sorts the registry so that every rule runs after the rules it
// declares in RunAfter. Constraints on rules that are not registered are
// ignored here. Among unconstrained rules the order is by priority, then
// the default rule set before others, then rule id, so it does not depend
// on registration order.
func Order(r *Registry) (*Ordered, error) {
	g := dag.NewGraph()
	entries := r.Entries()
	for _, e := range entries {
		g.AddNode(string(e.Meta.ID), e)
	}

	for _, e := range entries {
		for _, ra := range e.Meta.RunAfter {
			dep := Qualify(string(ra.Rule), DefaultRuleSet)
			if _, ok := r.Lookup(dep); !ok {
				continue
			}
			if err := g.AddEdge(string(dep), string(e.Meta.ID)); err != nil {
				return nil, orderError(err)
			}
		}
	}

	sorted, err := g.TopologicalSort(func(a, b *dag.Node) bool {
		ma, mb := a.Data.(Entry).Meta, b.Data.(Entry).Meta
		if ma.Priority != mb.Priority {
			return ma.Priority < mb.Priority
		}
		return compareIDs(ma.ID, mb.ID) < 0
	})
	if err != nil {
		return nil, orderError(err)
	}

	ordered := &Ordered{entries: make([]Entry, len(sorted))}
	for i, n := range sorted {
		ordered.entries[i] = n.Data.(Entry)
	}
	return ordered, nil
}

func orderError(err error) error {
	var cycleErr *dag.CycleError
	if !errors.As(err, &cycleErr) {
		return fmt.Errorf("failed to order rules: %w", err)
	}
	ids := make([]ID, len(cycleErr.Path))
	for i, p := range cycleErr.Path {
		ids[i] = ID(p)
	}
	return &OrderError{Cycle: ids}
}

// Entries returns the ordered rules.
func (o *Ordered) Entries() []Entry {
	out := make([]Entry, len(o.entries))
	copy(out, o.entries)
	return out
}

// IDs returns the ordered rule ids.
func (o *Ordered) IDs() []ID {
	out := make([]ID, len(o.entries))
	for i, e := range o.entries {
		out[i] = e.Meta.ID
	}
	return out
}

// Skipped records a rule left out because a rule it requires is not running.
type Skipped struct {
	Rule     ID
	Requires ID
}

// Filter returns the rules for which enabled holds, in execution order. A rule
// whose RequiresEnabled dependency is not running is dropped as well, and so
// are the rules depending on it in turn.
func (o *Ordered) Filter(enabled func(Meta) bool) ([]Entry, []Skipped) {
	active := make(map[ID]bool, len(o.entries))
	for _, e := range o.entries {
		active[e.Meta.ID] = enabled(e.Meta)
	}

	// Dependencies precede dependents, so one pass settles chains.
	var skipped []Skipped
	for _, e := range o.entries {
		if !active[e.Meta.ID] {
			continue
		}
		for _, ra := range e.Meta.RunAfter {
			if ra.Mode != RequiresEnabled {
				continue
			}
			dep := Qualify(string(ra.Rule), DefaultRuleSet)
			if !active[dep] {
				active[e.Meta.ID] = false
				skipped = append(skipped, Skipped{Rule: e.Meta.ID, Requires: dep})
				break
			}
		}
	}

	out := make([]Entry, 0, len(o.entries))
	for _, e := range o.entries {
		if active[e.Meta.ID] {
			out = append(out, e)
		}
	}
	return out, skipped
}
