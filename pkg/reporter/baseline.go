package reporter

import (
	"io"

	"github.com/leapstack-labs/leaplint/pkg/baseline"
	"github.com/leapstack-labs/leaplint/pkg/engine"
)

// Baseline writes every violation that was not corrected as a baseline
// document, including those already in the current baseline. Records
// produced by the engine itself are left out.
type Baseline struct {
	out io.Writer
	collector
}

// NewBaseline creates a baseline reporter.
func NewBaseline(out io.Writer) *Baseline {
	return &Baseline{out: out}
}

func (b *Baseline) BeforeAll()    {}
func (b *Baseline) Before(string) {}
func (b *Baseline) After(string)  {}

func (b *Baseline) OnLintError(file string, v engine.Violation) {
	switch v.Status {
	case engine.StatusFoundCorrectable, engine.StatusFoundNotCorrectable, engine.StatusBaselineIgnored:
		b.add(file, v)
	}
}

func (b *Baseline) AfterAll() error {
	var entries []baseline.Entry
	for _, f := range b.sorted() {
		for _, v := range f.violations {
			entries = append(entries, baseline.Entry{File: f.name, Line: v.Line, Column: v.Column, Rule: v.RuleID})
		}
	}
	return baseline.Write(b.out, entries)
}
