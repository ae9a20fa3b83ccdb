package standard

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// IndentationStyle provides the indentation-style rule. It checks the
// characters used for indentation, not the indentation depth.
func IndentationStyle() rule.Rule {
	return &indentationStyle{}
}

type indentationStyle struct {
	style editorconfig.IndentStyle
	width int
}

func (r *indentationStyle) Meta() rule.Meta {
	return rule.Meta{
		ID:          IndentationStyleID,
		Description: "Indentation uses the characters indent_style asks for",
		Properties: []editorconfig.Definition{
			editorconfig.IndentStyleProperty,
			editorconfig.IndentSizeProperty,
			editorconfig.TabWidthProperty,
		},
	}
}

func (r *indentationStyle) BeforeFirstNode(cfg *editorconfig.Config) {
	r.style = editorconfig.IndentStyleProperty.Get(cfg)
	r.width = editorconfig.IndentWidth(cfg)
}

func (r *indentationStyle) BeforeVisit(c *rule.Context, n tree.NodeID) []rule.Finding {
	t := c.Tree
	if t.Kind(n) != tree.KindWhitespace || t.NextLeaf(n, true) == tree.NoNode {
		return nil
	}
	text := t.Text(n)
	start := strings.LastIndexByte(text, '\n') + 1
	if start == 0 && t.PrevLeaf(n, true) != tree.NoNode {
		return nil
	}
	indent := text[start:]
	want := r.canonical(indent)
	if indent == want {
		return nil
	}

	msg := "Unexpected tab character(s)"
	if r.style == editorconfig.IndentTab {
		msg = "Unexpected space character(s)"
	}
	f := rule.Finding{Offset: t.Offset(n) + start, Message: msg, CanAutocorrect: true}
	if c.Autocorrect {
		c.Fail(t.SetText(n, text[:start]+want))
	}
	return []rule.Finding{f}
}

// canonical spells the visual width of indent with the configured
// characters. With tabs, a remainder narrower than one level stays spaces.
func (r *indentationStyle) canonical(indent string) string {
	cols := columns(indent, r.width)
	if r.style == editorconfig.IndentTab {
		return strings.Repeat("\t", cols/r.width) + strings.Repeat(" ", cols%r.width)
	}
	return strings.Repeat(" ", cols)
}

// columns returns the visual width of an indent, with tab stops every width
// columns.
func columns(indent string, width int) int {
	cols := 0
	for _, ch := range indent {
		switch ch {
		case '\t':
			cols = (cols/width + 1) * width
		default:
			cols++
		}
	}
	return cols
}
