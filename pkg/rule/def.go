package rule

import (
	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// VisitFunc inspects (and with c.Autocorrect, fixes) node n.
type VisitFunc func(c *Context, n tree.NodeID) []Finding

// Def is a data-driven rule definition for rules that need no per-file state
// beyond what the callbacks close over. Nil callbacks are skipped.
type Def struct {
	Meta Meta

	Start  func(cfg *editorconfig.Config)
	Before VisitFunc
	After  VisitFunc
	Finish func(c *Context) []Finding
}

// Provider returns a provider that wraps the definition.
func (d Def) Provider() Provider {
	return func() Rule { return &wrappedDef{def: d} }
}

// wrappedDef adapts a Def to Rule and every optional capability.
type wrappedDef struct {
	def Def
}

func (w *wrappedDef) Meta() Meta { return w.def.Meta }

func (w *wrappedDef) BeforeVisit(c *Context, n tree.NodeID) []Finding {
	if w.def.Before == nil {
		return nil
	}
	return w.def.Before(c, n)
}

func (w *wrappedDef) AfterVisit(c *Context, n tree.NodeID) []Finding {
	if w.def.After == nil {
		return nil
	}
	return w.def.After(c, n)
}

func (w *wrappedDef) BeforeFirstNode(cfg *editorconfig.Config) {
	if w.def.Start != nil {
		w.def.Start(cfg)
	}
}

func (w *wrappedDef) AfterLastNode(c *Context) []Finding {
	if w.def.Finish == nil {
		return nil
	}
	return w.def.Finish(c)
}

// Unwrap returns the underlying Def.
func (w *wrappedDef) Unwrap() Def {
	return w.def
}
