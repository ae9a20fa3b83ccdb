package standard

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// NoSelectStar provides the experimental no-select-star rule. Qualified stars
// such as t.* are allowed.
var NoSelectStar = rule.Def{
	Meta: rule.Meta{
		ID:           NoSelectStarID,
		Description:  "Select lists name their columns instead of using *",
		Experimental: true,
	},
	Before: checkSelectStar,
}.Provider()

func checkSelectStar(c *rule.Context, n tree.NodeID) []rule.Finding {
	t := c.Tree
	if t.Kind(n) != tree.KindKeyword || !strings.EqualFold(t.Text(n), "select") {
		return nil
	}
	next := t.NextCodeLeaf(n)
	for next != tree.NoNode && t.Kind(next) == tree.KindKeyword &&
		(strings.EqualFold(t.Text(next), "distinct") || strings.EqualFold(t.Text(next), "all")) {
		next = t.NextCodeLeaf(next)
	}
	if next == tree.NoNode || t.Kind(next) != tree.KindOperator || t.Text(next) != "*" {
		return nil
	}
	return []rule.Finding{c.Emit(next, "Unexpected select *, list the columns explicitly", false)}
}
