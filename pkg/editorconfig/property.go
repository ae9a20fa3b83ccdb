package editorconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Unset is the value that removes a property set by a farther file.
const Unset = "unset"

// Definition is the type-erased view of a Property used by registries and
// generators.
type Definition interface {
	PropertyName() string
	PropertyDescription() string
	// Validate reports whether raw parses for this property.
	Validate(raw string) error
	// Effective returns the value in effect for c, formatted as it would be
	// written in a property file.
	Effective(c *Config) string
}

// Property is a typed, validated editorconfig property. A Property is
// immutable once constructed and safe for concurrent use.
type Property[T any] struct {
	Name        string
	Description string
	Parse       func(raw string) (T, error)
	// Format renders a value for generated files; fmt.Sprint when nil.
	Format  func(T) string
	Default T
	// StyleDefaults overrides Default for specific code styles.
	StyleDefaults map[CodeStyle]T
	// Derive supplies a value from other properties when this one is unset.
	Derive func(c *Config) (T, bool)
}

// PropertyName implements Definition.
func (p *Property[T]) PropertyName() string { return p.Name }

// PropertyDescription implements Definition.
func (p *Property[T]) PropertyDescription() string { return p.Description }

// Validate implements Definition.
func (p *Property[T]) Validate(raw string) error {
	_, err := p.Parse(raw)
	return err
}

// Effective implements Definition.
func (p *Property[T]) Effective(c *Config) string {
	v := p.Get(c)
	if p.Format != nil {
		return p.Format(v)
	}
	return fmt.Sprint(v)
}

// Get resolves the property for c: an explicit value (override or file),
// then a derived value, then the code style default, then Default. An
// invalid explicit value is reported once per file and Default is used.
func (p *Property[T]) Get(c *Config) T {
	if raw, ok := c.Raw(p.Name); ok {
		v, err := p.Parse(raw)
		if err == nil {
			return v
		}
		c.warnInvalid(p.Name, raw, err)
		return p.Default
	}
	if p.Derive != nil {
		if v, ok := p.Derive(c); ok {
			return v
		}
	}
	if len(p.StyleDefaults) > 0 {
		if v, ok := p.StyleDefaults[c.CodeStyle()]; ok {
			return v
		}
	}
	return p.Default
}

// ParseBool accepts true and false.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("expected true or false, got %q", raw)
}

// ParsePositiveInt accepts integers greater than zero.
func ParsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive integer, got %q", raw)
	}
	return n, nil
}

// ParseString accepts any value.
func ParseString(raw string) (string, error) {
	return raw, nil
}

// ParseEnum returns a parser accepting only the given values.
func ParseEnum[T ~string](values ...T) func(string) (T, error) {
	return func(raw string) (T, error) {
		for _, v := range values {
			if strings.EqualFold(raw, string(v)) {
				return v, nil
			}
		}
		names := make([]string, len(values))
		for i, v := range values {
			names[i] = string(v)
		}
		return "", fmt.Errorf("expected one of %s, got %q", strings.Join(names, ", "), raw)
	}
}
