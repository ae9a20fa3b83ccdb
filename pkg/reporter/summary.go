package reporter

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/leaplint/pkg/engine"
	"github.com/leapstack-labs/leaplint/pkg/rule"
)

// PlainSummary prints the number of visible violations per rule once all
// files are done.
type PlainSummary struct {
	out io.Writer

	mu        sync.Mutex
	counts    map[rule.ID]int
	corrected map[rule.ID]int
}

// NewPlainSummary creates a plain-summary reporter.
func NewPlainSummary(out io.Writer) *PlainSummary {
	return &PlainSummary{out: out, counts: make(map[rule.ID]int), corrected: make(map[rule.ID]int)}
}

func (s *PlainSummary) BeforeAll()    {}
func (s *PlainSummary) Before(string) {}
func (s *PlainSummary) After(string)  {}

func (s *PlainSummary) OnLintError(_ string, v engine.Violation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case v.Status == engine.StatusCorrected:
		s.corrected[v.RuleID]++
	case visible(v):
		s.counts[v.RuleID]++
	}
}

func (s *PlainSummary) AfterAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.render("Summary error count (descending) by rule", s.counts); err != nil {
		return err
	}
	return s.render("Summary corrected count (descending) by rule", s.corrected)
}

func (s *PlainSummary) render(title string, counts map[rule.ID]int) error {
	if len(counts) == 0 {
		return nil
	}
	ids := slices.Collect(maps.Keys(counts))
	slices.SortFunc(ids, func(a, b rule.ID) int {
		return cmp.Or(cmp.Compare(counts[b], counts[a]), cmp.Compare(a, b))
	})

	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Rule", "Count"})
	total := 0
	for _, id := range ids {
		t.AppendRow(table.Row{string(id), counts[id]})
		total += counts[id]
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
	if _, err := fmt.Fprintln(s.out); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
