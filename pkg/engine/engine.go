// Package engine runs ordered style rules over syntax trees. It lints files,
// formats them until the tree reaches a fixed point, and drives a worker pool
// over many files with per-file reporting.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/zeebo/blake3"

	"github.com/leapstack-labs/leaplint/pkg/baseline"
	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// DefaultMaxFormatRuns is the round cap of the format loop.
const DefaultMaxFormatRuns = 3

// StdinName is the file name reported for code read from stdin without a path.
const StdinName = "<stdin>"

// ParseFunc turns text into a tree. It must be a pure function of text.
type ParseFunc func(text string) (*tree.Tree, error)

// ConfigResolver yields the editorconfig properties of a file.
type ConfigResolver interface {
	Resolve(path string) (*editorconfig.Config, error)
}

// Config configures an Engine.
type Config struct {
	RuleSets []*rule.Set

	// Parse defaults to parser.Parse.
	Parse ParseFunc
	// Resolver defaults to a resolver reading .editorconfig files only.
	Resolver ConfigResolver
	// Baseline defaults to a disabled baseline.
	Baseline *baseline.Baseline
	// Root is the directory baseline file names are relative to. Defaults
	// to the working directory.
	Root string

	Logger *slog.Logger

	// MaxFormatRuns caps the format loop. Zero means DefaultMaxFormatRuns.
	MaxFormatRuns int
	// DetectCycles stops the format loop early when a round reproduces the
	// output of an earlier round.
	DetectCycles bool
}

// Engine lints and formats code. It is safe for concurrent use: every call
// builds its own tree and rule instances.
type Engine struct {
	registry *rule.Registry
	ordered  *rule.Ordered

	parse        ParseFunc
	resolver     ConfigResolver
	baseline     *baseline.Baseline
	root         string
	logger       *slog.Logger
	maxRuns      int
	detectCycles bool
}

// Code is a unit of input.
type Code struct {
	// Path locates the file for configuration and reporting. It may be
	// empty for stdin.
	Path    string
	Content string
	Stdin   bool
}

// New validates the rule sets and computes the rule order. An unsatisfiable
// run-after constraint is returned as a *rule.OrderError.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registry := rule.NewRegistry()
	if err := registry.Register(cfg.RuleSets...); err != nil {
		return nil, err
	}
	ordered, err := rule.Order(registry)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		registry:     registry,
		ordered:      ordered,
		parse:        cfg.Parse,
		resolver:     cfg.Resolver,
		baseline:     cfg.Baseline,
		root:         cfg.Root,
		logger:       logger,
		maxRuns:      cfg.MaxFormatRuns,
		detectCycles: cfg.DetectCycles,
	}
	if e.parse == nil {
		e.parse = parser.Parse
	}
	if e.resolver == nil {
		r, err := editorconfig.NewResolver(editorconfig.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		e.resolver = r
	}
	if e.baseline == nil {
		e.baseline = baseline.Disabled()
	}
	if e.root == "" {
		if wd, err := os.Getwd(); err == nil {
			e.root = wd
		}
	}
	if e.maxRuns <= 0 {
		e.maxRuns = DefaultMaxFormatRuns
	}
	return e, nil
}

// Rules returns all loaded rules in execution order.
func (e *Engine) Rules() []rule.Entry {
	return e.ordered.Entries()
}

// Registry returns the loaded rules.
func (e *Engine) Registry() *rule.Registry {
	return e.registry
}

// Properties returns the built-in editorconfig properties followed by those
// declared by loaded rules, without duplicates.
func (e *Engine) Properties() []editorconfig.Definition {
	seen := make(map[string]bool)
	var out []editorconfig.Definition
	add := func(d editorconfig.Definition) {
		if !seen[d.PropertyName()] {
			seen[d.PropertyName()] = true
			out = append(out, d)
		}
	}
	for _, d := range editorconfig.Builtin() {
		add(d)
	}
	for _, entry := range e.ordered.Entries() {
		for _, d := range entry.Meta.Properties {
			add(d)
		}
	}
	return out
}

// ResolveConfig returns the editorconfig properties for code.
func (e *Engine) ResolveConfig(code Code) (*editorconfig.Config, error) {
	path := code.Path
	if path == "" {
		path = filepath.Join(e.root, "stdin.sql")
	}
	cfg, err := e.resolver.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve editorconfig for %s: %w", e.DisplayName(code), err)
	}
	return cfg, nil
}

// DisplayName returns the name code is reported and baselined under.
func (e *Engine) DisplayName(code Code) string {
	if code.Path == "" {
		return StdinName
	}
	return baseline.RelativePath(code.Path, e.root)
}

// prepare resolves configuration and the enabled rules for code.
func (e *Engine) prepare(code Code) (*file, error) {
	cfg, err := e.ResolveConfig(code)
	if err != nil {
		return nil, err
	}
	logger := e.logger.With("file", e.DisplayName(code))
	entries, skipped := e.ordered.Filter(rule.EnabledFor(cfg))
	for _, s := range skipped {
		logger.Warn("rule skipped because a required rule is not enabled",
			"rule_id", string(s.Rule), "requires", string(s.Requires))
	}
	return &file{
		path:    e.DisplayName(code),
		cfg:     cfg,
		entries: entries,
		logger:  logger,
		dead:    make(map[rule.ID]bool),
	}, nil
}

// parseError converts a parser failure into a single violation.
func parseError(err error) Violation {
	v := Violation{Line: 1, Column: 1, RuleID: SyntaxRuleID, Message: err.Error(), Status: StatusParseError}
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		v.Line, v.Column, v.Message = pe.Line, pe.Column, pe.Message
	}
	return v
}

// Lint reports the violations of code without changing it.
func (e *Engine) Lint(ctx context.Context, code Code) ([]Violation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := e.prepare(code)
	if err != nil {
		return nil, err
	}
	src := normalize(code.Content)

	t, err := e.parse(src.text)
	if err != nil {
		f.logger.Debug("parse failed", "error", err)
		return []Violation{parseError(err)}, nil
	}

	var out []Violation
	for v := range f.visit(t, false) {
		out = append(out, v)
	}
	return e.applyBaseline(f, sortViolations(out)), nil
}

// Format corrects code and returns the new content with the violations that
// were corrected or remain. If the content cannot be parsed it is returned
// unchanged with a parse error.
func (e *Engine) Format(ctx context.Context, code Code) (string, []Violation, error) {
	if err := ctx.Err(); err != nil {
		return code.Content, nil, err
	}
	f, err := e.prepare(code)
	if err != nil {
		return code.Content, nil, err
	}
	src := normalize(code.Content)

	t, err := e.parse(src.text)
	if err != nil {
		f.logger.Debug("parse failed", "error", err)
		return code.Content, []Violation{parseError(err)}, nil
	}

	var out []Violation
	tripped := false
	seen := map[[32]byte]int{blake3.Sum256([]byte(src.text)): 0}
	converged := false
	cycle := false
	rounds := 0

	for !converged && !cycle && rounds < e.maxRuns {
		rounds++
		rev := t.Revision()
		for v := range f.visit(t, true) {
			tripped = true
			if v.Status == StatusCorrected || v.Status == StatusInternalError {
				out = append(out, v)
			}
		}
		if t.Revision() == rev {
			converged = true
			break
		}

		text := t.String()
		if e.detectCycles {
			sum := blake3.Sum256([]byte(text))
			if first, ok := seen[sum]; ok {
				f.logger.Warn("format is cycling between outputs", "round", rounds, "repeats_round", first)
				cycle = true
			}
			seen[sum] = rounds
		}

		// Rules in the next round see a tree built from the rendered text.
		fresh, err := e.parse(text)
		if err != nil {
			f.logger.Warn("formatted code no longer parses, continuing on the current tree",
				"round", rounds, "error", err)
			continue
		}
		t = fresh
	}

	var remaining []Violation
	if tripped {
		for v := range f.visit(t, false) {
			remaining = append(remaining, v)
		}
	}

	// Running out of rounds only counts when the last round left something
	// to correct.
	leftover := cycle || slices.ContainsFunc(remaining, func(v Violation) bool {
		return v.Status == StatusFoundCorrectable
	})
	switch {
	case !converged && leftover:
		f.logger.Warn("format was not able to resolve all violations that can be autocorrected",
			"rounds", rounds)
		out = append(out, Violation{
			Line:    1,
			Column:  1,
			RuleID:  FormatRuleID,
			Message: fmt.Sprintf("format did not converge after %d rounds", rounds),
			Status:  StatusNonConvergent,
		})
	case !converged:
		f.logger.Debug("format used every round but left nothing to correct", "rounds", rounds)
	}
	out = append(out, remaining...)
	return src.restore(t.String(), f.cfg), e.applyBaseline(f, sortViolations(out)), nil
}

func (e *Engine) applyBaseline(f *file, vs []Violation) []Violation {
	if e.baseline.Status() != baseline.StatusValid {
		return vs
	}
	for i, v := range vs {
		if v.Status != StatusFoundCorrectable && v.Status != StatusFoundNotCorrectable {
			continue
		}
		if e.baseline.Contains(f.path, v.Line, v.Column, v.RuleID) {
			vs[i].Status = StatusBaselineIgnored
		}
	}
	return vs
}
