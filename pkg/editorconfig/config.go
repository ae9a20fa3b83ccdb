package editorconfig

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Overrides are property values supplied by the caller. They take
// precedence over every file.
type Overrides map[string]string

// Normalize returns a copy with lowercase keys and lowercase values for the
// core editorconfig properties.
func (o Overrides) Normalize() Overrides {
	out := make(Overrides, len(o))
	for k, v := range o {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if isKnownProperty(k) {
			v = strings.ToLower(v)
		}
		out[k] = v
	}
	return out
}

// Config is the resolved property set of a single file. It is read-only
// after construction.
type Config struct {
	path   string
	props  map[string]string
	logger *slog.Logger

	mu     sync.Mutex
	warned map[string]bool
}

// NewConfig builds a Config directly from property values, as if they were
// the only file in the cascade.
func NewConfig(path string, props map[string]string, logger *slog.Logger) *Config {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	merged := make(map[string]string, len(props))
	for k, v := range Overrides(props).Normalize() {
		if v != Unset {
			merged[k] = v
		}
	}
	return &Config{path: path, props: merged, logger: logger}
}

// Path returns the file the config was resolved for.
func (c *Config) Path() string {
	return c.path
}

// Raw returns the explicit value of a property, if any.
func (c *Config) Raw(name string) (string, bool) {
	v, ok := c.props[name]
	return v, ok
}

// Names returns the names of all explicitly set properties, sorted.
func (c *Config) Names() []string {
	return slices.Sorted(maps.Keys(c.props))
}

// CodeStyle returns the active code style.
func (c *Config) CodeStyle() CodeStyle {
	return CodeStyleProperty.Get(c)
}

// Execution returns the value of a rule execution property. Invalid values
// are reported and treated as unset.
func (c *Config) Execution(name string) (Execution, bool) {
	raw, ok := c.props[name]
	if !ok {
		return "", false
	}
	v, err := ParseExecution(raw)
	if err != nil {
		c.warnInvalid(name, raw, err)
		return "", false
	}
	return v, true
}

// warnInvalid logs an invalid value once per property.
func (c *Config) warnInvalid(name, raw string, err error) {
	c.mu.Lock()
	if c.warned == nil {
		c.warned = make(map[string]bool)
	}
	seen := c.warned[name]
	c.warned[name] = true
	c.mu.Unlock()
	if seen {
		return
	}
	c.logger.Warn("invalid editorconfig value, using default",
		"file", c.path, "property", name, "value", raw, "error", err)
}

// Generate renders the effective value of every definition as a property
// file section for glob.
func Generate(glob string, defs []Definition, c *Config) string {
	var sb strings.Builder
	sb.WriteString("[" + glob + "]\n")
	seen := make(map[string]bool)
	sorted := slices.Clone(defs)
	slices.SortFunc(sorted, func(a, b Definition) int {
		return strings.Compare(a.PropertyName(), b.PropertyName())
	})
	for _, d := range sorted {
		if seen[d.PropertyName()] {
			continue
		}
		seen[d.PropertyName()] = true
		sb.WriteString(d.PropertyName() + " = " + d.Effective(c) + "\n")
	}
	return sb.String()
}
