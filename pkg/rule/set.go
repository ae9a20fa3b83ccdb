package rule

import (
	"errors"
	"fmt"
	"slices"
)

// Provider creates a fresh rule instance.
type Provider func() Rule

// Set is a named, immutable collection of rule providers.
type Set struct {
	id        string
	providers []Provider
}

// NewSet creates a rule set. Providers keep their given order.
func NewSet(id string, providers ...Provider) *Set {
	return &Set{id: id, providers: slices.Clone(providers)}
}

// ID returns the rule set id.
func (s *Set) ID() string {
	return s.id
}

// Providers returns a copy of the set's providers.
func (s *Set) Providers() []Provider {
	return slices.Clone(s.providers)
}

// Entry is a registered rule: its provider and the metadata read from a
// probe instance.
type Entry struct {
	Provider Provider
	Meta     Meta
}

// entries instantiates every provider once to read its metadata and checks
// that ids belong to the set.
func (s *Set) entries() ([]Entry, error) {
	if !validPart(s.id) {
		return nil, fmt.Errorf("invalid rule set id %q", s.id)
	}
	var errs []error
	out := make([]Entry, 0, len(s.providers))
	for _, p := range s.providers {
		if p == nil {
			errs = append(errs, fmt.Errorf("rule set %q: nil provider", s.id))
			continue
		}
		meta := p().Meta()
		if err := meta.ID.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("rule set %q: %w", s.id, err))
			continue
		}
		if meta.ID.RuleSet() != s.id {
			errs = append(errs, fmt.Errorf("rule set %q: rule %q belongs to another rule set", s.id, meta.ID))
			continue
		}
		out = append(out, Entry{Provider: p, Meta: meta})
	}
	return out, errors.Join(errs...)
}
