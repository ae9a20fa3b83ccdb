package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/leapstack-labs/leaplint/pkg/rule"
)

// Status classifies a violation.
type Status string

// Violation statuses.
const (
	StatusFoundNotCorrectable Status = "found-not-correctable"
	StatusFoundCorrectable    Status = "found-correctable"
	StatusCorrected           Status = "corrected"
	StatusParseError          Status = "parse-error"
	StatusInternalError       Status = "internal-error"
	StatusBaselineIgnored     Status = "baseline-ignored"
	StatusNonConvergent       Status = "non-convergent"
)

// Trips reports whether a violation with this status makes the run fail.
func (s Status) Trips() bool {
	switch s {
	case StatusCorrected, StatusBaselineIgnored:
		return false
	}
	return true
}

// Rule ids of records the engine produces itself.
const (
	SyntaxRuleID rule.ID = "leaplint:syntax"
	FormatRuleID rule.ID = "leaplint:format"
	EngineRuleID rule.ID = "leaplint:engine"
)

// Violation is a single reported style issue. Line and Column are 1-based.
type Violation struct {
	Line    int
	Column  int
	RuleID  rule.ID
	Message string
	Status  Status
}

func (v Violation) String() string {
	return fmt.Sprintf("%d:%d: %s (%s) [%s]", v.Line, v.Column, v.Message, v.RuleID, v.Status)
}

func compareViolations(a, b Violation) int {
	return cmp.Or(
		cmp.Compare(a.Line, b.Line),
		cmp.Compare(a.Column, b.Column),
		cmp.Compare(a.RuleID, b.RuleID),
		cmp.Compare(a.Message, b.Message),
		cmp.Compare(a.Status, b.Status),
	)
}

// sortViolations orders by position and drops exact duplicates.
func sortViolations(vs []Violation) []Violation {
	slices.SortFunc(vs, compareViolations)
	return slices.Compact(vs)
}
