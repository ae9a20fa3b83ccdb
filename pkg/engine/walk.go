package engine

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/suppress"
	"github.com/leapstack-labs/leaplint/pkg/token"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// file holds the state shared by all passes over one file.
type file struct {
	path    string
	cfg     *editorconfig.Config
	entries []rule.Entry
	logger  *slog.Logger

	// dead rules panicked earlier and are not called again for this file.
	dead map[rule.ID]bool
}

// instance is one rule instance for one pass.
type instance struct {
	id   rule.ID
	impl rule.Rule
	ctx  *rule.Context
}

// pass is a single walk of the tree with fresh rule instances.
type pass struct {
	f           *file
	t           *tree.Tree
	autocorrect bool
	rules       []*instance

	// index maps finding offsets to positions in the text the pass started with.
	index *token.LineIndex

	locator *suppress.Locator

	yield   func(Violation) bool
	stopped bool
}

// visit returns the violations of one pass. The walk runs when the sequence
// is ranged over; breaking out early skips the rest of the tree.
func (f *file) visit(t *tree.Tree, autocorrect bool) iter.Seq[Violation] {
	return func(yield func(Violation) bool) {
		p := &pass{f: f, t: t, autocorrect: autocorrect, yield: yield}
		p.run()
	}
}

func (p *pass) run() {
	p.index = token.NewLineIndex(p.t.String())
	p.refreshLocator()

	for _, e := range p.f.entries {
		if p.f.dead[e.Meta.ID] {
			continue
		}
		inst := &instance{
			id:  e.Meta.ID,
			ctx: &rule.Context{Tree: p.t, Config: p.f.cfg},
		}
		ok := p.guard(inst, tree.NoNode, func() []rule.Finding {
			inst.impl = e.Provider()
			if s, ok := inst.impl.(rule.FileStarter); ok {
				s.BeforeFirstNode(p.f.cfg)
			}
			return nil
		})
		if ok {
			p.rules = append(p.rules, inst)
		}
	}

	p.t.Walk(p.t.Root(), p.enter, p.exit)

	for _, inst := range p.rules {
		fin, ok := inst.impl.(rule.FileFinisher)
		if !ok || !p.live(inst) {
			continue
		}
		inst.ctx.Autocorrect = p.autocorrect && !p.suppressed(tree.NoNode, inst.id)
		p.guard(inst, tree.NoNode, func() []rule.Finding {
			return fin.AfterLastNode(inst.ctx)
		})
	}
}

func (p *pass) live(inst *instance) bool {
	return !p.stopped && !p.f.dead[inst.id] && !inst.ctx.Stopped()
}

func (p *pass) enter(n tree.NodeID) bool {
	for _, inst := range p.rules {
		if p.stopped {
			return false
		}
		if !p.t.Attached(n) {
			return false
		}
		if !p.live(inst) {
			continue
		}
		p.call(inst, n, inst.impl.BeforeVisit)
	}
	return !p.stopped && p.t.Attached(n)
}

func (p *pass) exit(n tree.NodeID) {
	for i := len(p.rules) - 1; i >= 0; i-- {
		inst := p.rules[i]
		if p.stopped || !p.t.Attached(n) {
			return
		}
		av, ok := inst.impl.(rule.AfterVisitor)
		if !ok || !p.live(inst) {
			continue
		}
		p.call(inst, n, av.AfterVisit)
	}
}

// call runs one callback with autocorrect disabled where the rule is
// suppressed.
func (p *pass) call(inst *instance, n tree.NodeID, fn func(*rule.Context, tree.NodeID) []rule.Finding) {
	inst.ctx.Autocorrect = p.autocorrect && !p.suppressed(n, inst.id)
	p.guard(inst, n, func() []rule.Finding { return fn(inst.ctx, n) })
}

// suppressed reports whether id is suppressed at n. NoNode stands for the end
// of the file, where file finishers make their corrections.
func (p *pass) suppressed(n tree.NodeID, id rule.ID) bool {
	p.refreshLocator()
	if p.locator.Empty() {
		return false
	}
	if n == tree.NoNode {
		return p.locator.Suppressed(p.t.Len(p.t.Root()), id)
	}
	return p.locator.Suppressed(p.t.Offset(n), id)
}

// guard runs fn, converting a panic or a failed correction into an internal
// error that disables the rule for the rest of the file. It returns false if
// fn failed.
func (p *pass) guard(inst *instance, n tree.NodeID, fn func() []rule.Finding) bool {
	findings, failure := protect(fn)
	if failure == nil && inst.ctx.Err() != nil {
		failure = fmt.Errorf("autocorrect: %w", inst.ctx.Err())
	}
	if failure != nil {
		p.f.dead[inst.id] = true
		p.f.logger.Error("rule failed", "rule_id", string(inst.id), "error", failure)
		line, col := 1, 1
		if n != tree.NoNode && p.t.Attached(n) {
			pos := p.index.Position(p.t.Offset(n))
			line, col = pos.Line, pos.Column
		}
		p.emit(Violation{
			Line:    line,
			Column:  col,
			RuleID:  inst.id,
			Message: fmt.Sprintf("rule execution failed: %v", failure),
			Status:  StatusInternalError,
		})
		return false
	}

	if len(findings) > 0 {
		p.refreshLocator()
	}
	for _, f := range findings {
		if p.locator.Suppressed(f.Offset, inst.id) {
			continue
		}
		pos := p.index.Position(f.Offset)
		status := StatusFoundNotCorrectable
		if f.CanAutocorrect {
			status = StatusFoundCorrectable
			if inst.ctx.Autocorrect {
				status = StatusCorrected
			}
		}
		p.emit(Violation{
			Line:    pos.Line,
			Column:  pos.Column,
			RuleID:  inst.id,
			Message: f.Message,
			Status:  status,
		})
	}
	return true
}

func protect(fn func() []rule.Finding) (findings []rule.Finding, failure error) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				failure = err
				return
			}
			failure = fmt.Errorf("%v", r)
		}
	}()
	return fn(), nil
}

func (p *pass) emit(v Violation) {
	if p.stopped {
		return
	}
	if !p.yield(v) {
		p.stopped = true
	}
}

// refreshLocator brings the suppression ranges up to date with the tree.
func (p *pass) refreshLocator() {
	if p.locator == nil {
		p.locator = suppress.Build(p.t, p.f.cfg, rule.DefaultRuleSet)
		return
	}
	p.locator.Refresh(p.t)
}
