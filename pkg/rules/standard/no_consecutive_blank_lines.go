package standard

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// NoConsecutiveBlankLines provides the no-consecutive-blank-lines rule. Blank
// lines at the end of the file are removed altogether.
var NoConsecutiveBlankLines = rule.Def{
	Meta: rule.Meta{
		ID:          NoConsecutiveBlankLineID,
		Description: "No more than one blank line in a row",
	},
	Before: checkBlankLines,
}.Provider()

func checkBlankLines(c *rule.Context, n tree.NodeID) []rule.Finding {
	t := c.Tree
	if t.Kind(n) != tree.KindWhitespace {
		return nil
	}
	text := t.Text(n)
	first := strings.IndexByte(text, '\n')
	if first < 0 {
		return nil
	}
	last := strings.LastIndexByte(text, '\n')
	newlines := strings.Count(text, "\n")

	keep := 2
	if t.NextLeaf(n, true) == tree.NoNode {
		keep = 1
	}
	if newlines <= keep {
		return nil
	}

	// The first redundant line starts after the kept line breaks.
	redundant := first
	for i := 1; i < keep; i++ {
		redundant += strings.IndexByte(text[redundant+1:], '\n') + 1
	}
	f := rule.Finding{
		Offset:         t.Offset(n) + redundant + 1,
		Message:        "Needless blank line(s)",
		CanAutocorrect: true,
	}
	if c.Autocorrect {
		c.Fail(t.SetText(n, text[:first]+strings.Repeat("\n", keep)+text[last+1:]))
	}
	return []rule.Finding{f}
}
