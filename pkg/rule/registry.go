package rule

import (
	"fmt"
	"slices"
	"sync"
)

// Registry stores the rules loaded for a run.
type Registry struct {
	mu    sync.RWMutex
	sets  []*Set
	rules map[ID]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[ID]Entry)}
}

// Register adds rule sets. It fails without registering anything when a set
// contains an invalid rule or when a rule id is already registered.
func (r *Registry) Register(sets ...*Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make(map[ID]Entry)
	for _, s := range sets {
		entries, err := s.entries()
		if err != nil {
			return fmt.Errorf("failed to register rule set: %w", err)
		}
		for _, e := range entries {
			_, seen := pending[e.Meta.ID]
			if _, exists := r.rules[e.Meta.ID]; exists || seen {
				return fmt.Errorf("failed to register rule set %q: duplicate rule id %q", s.ID(), e.Meta.ID)
			}
			pending[e.Meta.ID] = e
		}
	}

	for id, e := range pending {
		r.rules[id] = e
	}
	r.sets = append(r.sets, sets...)
	return nil
}

// Sets returns the registered rule sets in registration order.
func (r *Registry) Sets() []*Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.sets)
}

// Lookup returns a rule by its qualified id.
func (r *Registry) Lookup(id ID) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rules[id]
	return e, ok
}

// Entries returns all registered rules sorted by id.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.rules))
	for _, e := range r.rules {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return compareIDs(a.Meta.ID, b.Meta.ID)
	})
	return out
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

func setRank(ruleSet string) int {
	if ruleSet == DefaultRuleSet {
		return 0
	}
	return 1
}

// compareIDs orders the default rule set first, then by rule set id and
// rule name.
func compareIDs(a, b ID) int {
	if ra, rb := setRank(a.RuleSet()), setRank(b.RuleSet()); ra != rb {
		return ra - rb
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
