package standard

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// KeywordCase provides the keyword-case rule.
func KeywordCase() rule.Rule {
	return &keywordCase{}
}

// keywordCase rewrites keywords to the configured case. Casers carry state,
// so every instance builds its own.
type keywordCase struct {
	want  editorconfig.KeywordCase
	caser cases.Caser
}

func (r *keywordCase) Meta() rule.Meta {
	return rule.Meta{
		ID:          KeywordCaseID,
		Description: "Keywords are written in the configured case",
		Properties:  []editorconfig.Definition{editorconfig.KeywordCaseProperty},
	}
}

func (r *keywordCase) BeforeFirstNode(cfg *editorconfig.Config) {
	r.want = editorconfig.KeywordCaseProperty.Get(cfg)
	switch r.want {
	case editorconfig.KeywordLower:
		r.caser = cases.Lower(language.Und)
	case editorconfig.KeywordCapitalize:
		r.caser = cases.Title(language.Und)
	default:
		r.caser = cases.Upper(language.Und)
	}
}

func (r *keywordCase) BeforeVisit(c *rule.Context, n tree.NodeID) []rule.Finding {
	if c.Tree.Kind(n) != tree.KindKeyword {
		return nil
	}
	text := c.Tree.Text(n)
	want := r.caser.String(text)
	if want == text {
		return nil
	}
	f := c.Emit(n, fmt.Sprintf("Keyword '%s' must be %s case", text, r.want), true)
	if c.Autocorrect {
		c.Fail(c.Tree.SetText(n, want))
	}
	return []rule.Finding{f}
}
