package standard

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// MaxLineLength provides the max-line-length rule. Length is counted in
// characters, not bytes. It runs late so it sees lines other rules have
// already reformatted.
func MaxLineLength() rule.Rule {
	return &maxLineLength{}
}

type maxLineLength struct {
	limit int
}

func (r *maxLineLength) Meta() rule.Meta {
	return rule.Meta{
		ID:          MaxLineLengthID,
		Description: "Lines are no longer than max_line_length",
		Priority:    rule.RunAsLateAsPossible,
		Properties:  []editorconfig.Definition{editorconfig.MaxLineLengthProperty},
	}
}

func (r *maxLineLength) BeforeFirstNode(cfg *editorconfig.Config) {
	r.limit = editorconfig.MaxLineLengthProperty.Get(cfg)
}

// BeforeVisit does nothing; lines are measured once the tree is final.
func (r *maxLineLength) BeforeVisit(*rule.Context, tree.NodeID) []rule.Finding {
	return nil
}

func (r *maxLineLength) AfterLastNode(c *rule.Context) []rule.Finding {
	if r.limit == editorconfig.MaxLineLengthOff {
		return nil
	}
	text := c.Tree.String()
	index := c.Tree.LineIndex()

	var findings []rule.Finding
	for line := 1; line <= index.LineCount(); line++ {
		span := index.LineSpan(line)
		if utf8.RuneCountInString(text[span.Start:span.End]) > r.limit {
			findings = append(findings, rule.Finding{
				Offset:  span.Start,
				Message: fmt.Sprintf("Exceeded max line length (%d)", r.limit),
			})
		}
	}
	return findings
}
