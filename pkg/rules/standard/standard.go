package standard

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// Rule ids of the standard rule set.
var (
	KeywordCaseID            = rule.NewID(rule.DefaultRuleSet, "keyword-case")
	CommaSpacingID           = rule.NewID(rule.DefaultRuleSet, "comma-spacing")
	NoTrailingSpacesID       = rule.NewID(rule.DefaultRuleSet, "no-trailing-spaces")
	NoConsecutiveBlankLineID = rule.NewID(rule.DefaultRuleSet, "no-consecutive-blank-lines")
	FinalNewlineID           = rule.NewID(rule.DefaultRuleSet, "final-newline")
	IndentationStyleID       = rule.NewID(rule.DefaultRuleSet, "indentation-style")
	MaxLineLengthID          = rule.NewID(rule.DefaultRuleSet, "max-line-length")
	NoSelectStarID           = rule.NewID(rule.DefaultRuleSet, "no-select-star")
)

// RuleSet returns the standard rule set.
func RuleSet() *rule.Set {
	return rule.NewSet(rule.DefaultRuleSet,
		KeywordCase,
		CommaSpacing,
		NoTrailingSpaces,
		NoConsecutiveBlankLines,
		FinalNewline,
		IndentationStyle,
		MaxLineLength,
		NoSelectStar,
	)
}

// removeOrSet replaces the text of leaf n, removing it when text is empty.
func removeOrSet(t *tree.Tree, n tree.NodeID, text string) error {
	if text == "" {
		return t.Remove(n)
	}
	return t.SetText(n, text)
}

// trimSpacesRight trims spaces and tabs only, leaving line breaks alone.
func trimSpacesRight(s string) string {
	return strings.TrimRight(s, " \t")
}
