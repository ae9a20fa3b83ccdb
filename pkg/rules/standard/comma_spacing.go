package standard

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// CommaSpacing provides the comma-spacing rule: no whitespace before a comma
// on the same line and whitespace after every comma.
var CommaSpacing = rule.Def{
	Meta: rule.Meta{
		ID:          CommaSpacingID,
		Description: "Commas are followed by a space and not preceded by one",
	},
	Before: checkCommaSpacing,
}.Provider()

func checkCommaSpacing(c *rule.Context, n tree.NodeID) []rule.Finding {
	t := c.Tree
	if t.Kind(n) != tree.KindPunct || t.Text(n) != "," {
		return nil
	}

	var findings []rule.Finding
	if prev := t.PrevLeaf(n, true); prev != tree.NoNode && t.IsWhitespace(prev) &&
		!strings.Contains(t.Text(prev), "\n") && t.PrevLeaf(prev, true) != tree.NoNode {
		findings = append(findings, c.Emit(prev, "Unexpected spacing before ','", true))
		if c.Autocorrect {
			c.Fail(t.Remove(prev))
		}
	}

	next := t.NextLeaf(n, true)
	if next != tree.NoNode && !t.IsWhitespace(next) && t.Text(next) != ")" {
		findings = append(findings, rule.Finding{
			Offset:         t.Offset(n) + 1,
			Message:        "Missing spacing after ','",
			CanAutocorrect: true,
		})
		if c.Autocorrect {
			c.Fail(t.InsertAfter(n, t.NewLeaf(tree.KindWhitespace, " ")))
		}
	}
	return findings
}
