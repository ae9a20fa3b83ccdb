// Package suppress locates inline suppression directives in comments and
// answers whether a rule is suppressed at a given offset.
package suppress

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// Directive keywords.
const (
	DisableDirective = "leaplint-disable"
	EnableDirective  = "leaplint-enable"
)

type action int

const (
	actionNone action = iota
	actionDisable
	actionEnable
)

// directive is a parsed suppression comment. A nil ids slice means all rules.
type directive struct {
	action action
	ids    []rule.ID
}

// commentBody strips the comment markers.
func commentBody(kind tree.Kind, text string) string {
	switch kind {
	case tree.KindLineComment:
		text = strings.TrimPrefix(text, "--")
	case tree.KindBlockComment:
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
	}
	return strings.TrimSpace(text)
}

// parseDirective recognises "leaplint-disable [id ...]" and
// "leaplint-enable [id ...]". Ids may be separated by spaces or commas;
// unqualified ids belong to defaultSet.
func parseDirective(body, defaultSet string) directive {
	var d directive
	var rest string
	switch {
	case cutKeyword(body, DisableDirective, &rest):
		d.action = actionDisable
	case cutKeyword(body, EnableDirective, &rest):
		d.action = actionEnable
	default:
		return d
	}

	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '\n' || r == '\r'
	})
	for _, f := range fields {
		d.ids = append(d.ids, rule.Qualify(f, defaultSet))
	}
	return d
}

func cutKeyword(body, keyword string, rest *string) bool {
	after, ok := strings.CutPrefix(body, keyword)
	if !ok {
		return false
	}
	if after != "" && after[0] != ' ' && after[0] != '\t' && after[0] != '\n' {
		return false
	}
	*rest = after
	return true
}
