package rule

import "github.com/leapstack-labs/leaplint/pkg/editorconfig"

// Enabled decides whether a rule runs for a file with the given
// configuration. An explicit rule execution property wins. Otherwise
// experimental rules need leaplint_experimental enabled, official-style-only
// rules need the official code style, and the rule set must not be disabled.
func Enabled(m Meta, cfg *editorconfig.Config) bool {
	if v, ok := cfg.Execution(AllRulesExecutionProperty); ok && v == editorconfig.Disabled {
		return false
	}
	if v, ok := cfg.Execution(m.ID.ExecutionPropertyName()); ok {
		return v == editorconfig.Enabled
	}
	if v, ok := cfg.Execution(RuleSetExecutionPropertyName(m.ID.RuleSet())); ok && v == editorconfig.Disabled {
		return false
	}
	if m.Experimental {
		if v, ok := cfg.Execution(ExperimentalExecutionProperty); !ok || v != editorconfig.Enabled {
			return false
		}
	}
	if m.OfficialStyleOnly && editorconfig.CodeStyleProperty.Get(cfg) != editorconfig.StyleOfficial {
		return false
	}
	return true
}

// EnabledFor returns a filter predicate bound to cfg.
func EnabledFor(cfg *editorconfig.Config) func(Meta) bool {
	return func(m Meta) bool { return Enabled(m, cfg) }
}
