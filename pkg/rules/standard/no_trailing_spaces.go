package standard

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// NoTrailingSpaces provides the no-trailing-spaces rule.
func NoTrailingSpaces() rule.Rule {
	return &noTrailingSpaces{}
}

type noTrailingSpaces struct {
	off bool
}

func (r *noTrailingSpaces) Meta() rule.Meta {
	return rule.Meta{
		ID:          NoTrailingSpacesID,
		Description: "Lines do not end in spaces or tabs",
		RunAfter:    []rule.RunAfter{{Rule: CommaSpacingID}},
		Properties:  []editorconfig.Definition{editorconfig.TrimTrailingWhitespaceProperty},
	}
}

func (r *noTrailingSpaces) BeforeFirstNode(cfg *editorconfig.Config) {
	r.off = !editorconfig.TrimTrailingWhitespaceProperty.Get(cfg)
}

func (r *noTrailingSpaces) BeforeVisit(c *rule.Context, n tree.NodeID) []rule.Finding {
	if r.off {
		c.StopTraversal()
		return nil
	}
	t := c.Tree
	switch t.Kind(n) {
	case tree.KindWhitespace:
		return r.whitespace(c, n)
	case tree.KindLineComment:
		text := t.Text(n)
		trimmed := trimSpacesRight(text)
		if trimmed == text {
			return nil
		}
		f := rule.Finding{Offset: t.Offset(n) + len(trimmed), Message: "Trailing space(s)", CanAutocorrect: true}
		if c.Autocorrect {
			c.Fail(t.SetText(n, trimmed))
		}
		return []rule.Finding{f}
	}
	return nil
}

// whitespace trims every line of a whitespace leaf. The last line only counts
// when the leaf ends the file.
func (r *noTrailingSpaces) whitespace(c *rule.Context, n tree.NodeID) []rule.Finding {
	t := c.Tree
	text := t.Text(n)
	lines := strings.Split(text, "\n")
	last := len(lines) - 1
	if t.NextLeaf(n, true) != tree.NoNode {
		last--
	}

	var findings []rule.Finding
	start := t.Offset(n)
	for i := 0; i <= last; i++ {
		line := lines[i]
		trimmed := trimSpacesRight(line)
		if trimmed != line {
			findings = append(findings, rule.Finding{
				Offset:         start + len(trimmed),
				Message:        "Trailing space(s)",
				CanAutocorrect: true,
			})
			lines[i] = trimmed
		}
		start += len(line) + 1
	}
	if len(findings) > 0 && c.Autocorrect {
		c.Fail(removeOrSet(t, n, strings.Join(lines, "\n")))
	}
	return findings
}
