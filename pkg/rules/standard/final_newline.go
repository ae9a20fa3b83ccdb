package standard

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// FinalNewline provides the final-newline rule.
func FinalNewline() rule.Rule {
	return &finalNewline{}
}

type finalNewline struct {
	insert bool
}

func (r *finalNewline) Meta() rule.Meta {
	return rule.Meta{
		ID:          FinalNewlineID,
		Description: "File ends with a line break, or without one when insert_final_newline is false",
		Properties:  []editorconfig.Definition{editorconfig.InsertFinalNewlineProperty},
	}
}

func (r *finalNewline) BeforeFirstNode(cfg *editorconfig.Config) {
	r.insert = editorconfig.InsertFinalNewlineProperty.Get(cfg)
}

func (r *finalNewline) BeforeVisit(*rule.Context, tree.NodeID) []rule.Finding {
	return nil
}

func (r *finalNewline) AfterLastNode(c *rule.Context) []rule.Finding {
	t := c.Tree
	text := t.String()
	if text == "" {
		return nil
	}
	root := t.Root()
	last := t.LastLeaf(root)

	if r.insert {
		if strings.HasSuffix(text, "\n") {
			return nil
		}
		f := rule.Finding{Offset: len(text), Message: "File must end with a newline (\\n)", CanAutocorrect: true}
		if c.Autocorrect {
			if t.IsWhitespace(last) {
				c.Fail(t.SetText(last, t.Text(last)+"\n"))
			} else {
				c.Fail(t.Append(root, t.NewLeaf(tree.KindWhitespace, "\n")))
			}
		}
		return []rule.Finding{f}
	}

	if !strings.HasSuffix(text, "\n") {
		return nil
	}
	f := rule.Finding{Offset: len(strings.TrimRight(text, "\n")), Message: "Redundant newline (\\n) at the end of file", CanAutocorrect: true}
	if c.Autocorrect {
		// Line breaks at the end of the file always sit in the last leaf.
		c.Fail(removeOrSet(t, last, strings.TrimRight(t.Text(last), "\n")))
	}
	return []rule.Finding{f}
}
