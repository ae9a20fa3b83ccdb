package rule

import (
	"fmt"
	"strings"
)

// DefaultRuleSet is the rule set assumed for unqualified rule ids.
const DefaultRuleSet = "standard"

// ID identifies a rule as ruleSet:ruleName.
type ID string

// NewID joins a rule set id and a rule name.
func NewID(ruleSet, name string) ID {
	return ID(ruleSet + ":" + name)
}

// Qualify prefixes an unqualified id with ruleSet.
func Qualify(raw, ruleSet string) ID {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, ":") {
		return ID(raw)
	}
	return NewID(ruleSet, raw)
}

// IsQualified reports whether the id carries a rule set.
func (id ID) IsQualified() bool {
	return strings.Contains(string(id), ":")
}

// RuleSet returns the rule set part of the id.
func (id ID) RuleSet() string {
	set, _, _ := strings.Cut(string(id), ":")
	return set
}

// Name returns the rule name part of the id.
func (id ID) Name() string {
	_, name, ok := strings.Cut(string(id), ":")
	if !ok {
		return string(id)
	}
	return name
}

// Validate checks that the id is of the form set:name with both parts
// made of letters, digits, '-' and '_'.
func (id ID) Validate() error {
	set, name, ok := strings.Cut(string(id), ":")
	if !ok || !validPart(set) || !validPart(name) {
		return fmt.Errorf("invalid rule id %q: expected <rule-set>:<rule-name>", string(id))
	}
	return nil
}

func validPart(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func (id ID) String() string {
	return string(id)
}

// ExecutionPropertyName returns the editorconfig property that enables or
// disables the rule. Property names are lower case.
func (id ID) ExecutionPropertyName() string {
	return strings.ToLower("leaplint_" + id.RuleSet() + "_" + id.Name())
}

// RuleSetExecutionPropertyName returns the editorconfig property that
// enables or disables a whole rule set.
func RuleSetExecutionPropertyName(ruleSet string) string {
	return strings.ToLower("leaplint_" + ruleSet)
}

// Global execution properties.
const (
	AllRulesExecutionProperty     = "leaplint"
	ExperimentalExecutionProperty = "leaplint_experimental"
)
