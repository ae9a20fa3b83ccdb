// Package rule defines the capability interfaces style rules implement, the
// rule sets that group them, and the registry that orders them.
package rule

import (
	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// =============================================================================
// Rule Interfaces
// =============================================================================

// Rule is a unit of style checking. A fresh instance is created per file, so
// implementations may keep per-file state.
type Rule interface {
	Meta() Meta

	// BeforeVisit is called when the walk enters n. It returns the
	// violations found at n. With c.Autocorrect set, a rule that can fix a
	// violation mutates the tree and still returns the finding.
	BeforeVisit(c *Context, n tree.NodeID) []Finding
}

// AfterVisitor is implemented by rules that also observe node exit.
type AfterVisitor interface {
	AfterVisit(c *Context, n tree.NodeID) []Finding
}

// FileStarter is implemented by rules that read configuration before the
// walk starts.
type FileStarter interface {
	BeforeFirstNode(cfg *editorconfig.Config)
}

// FileFinisher is implemented by rules that report after the walk ends.
type FileFinisher interface {
	AfterLastNode(c *Context) []Finding
}

// =============================================================================
// Metadata
// =============================================================================

// Priority is a coarse ordering hint applied between otherwise unordered rules.
type Priority int

// Priorities.
const (
	RunAsEarlyAsPossible Priority = -1
	RunNormal            Priority = 0
	RunAsLateAsPossible  Priority = 1
)

// RunAfterMode controls what happens when the referenced rule is absent.
type RunAfterMode int

// Run-after modes.
const (
	// Regardless ignores the constraint when the other rule is not loaded
	// or not enabled.
	Regardless RunAfterMode = iota
	// RequiresEnabled skips the constrained rule when the other rule is not
	// loaded or not enabled.
	RequiresEnabled
)

// RunAfter declares that the owning rule executes after Rule.
type RunAfter struct {
	Rule ID
	Mode RunAfterMode
}

// Meta describes a rule. It must not change between instances.
type Meta struct {
	ID          ID
	Description string
	DocURL      string

	// Experimental rules run only when leaplint_experimental is enabled.
	Experimental bool
	// OfficialStyleOnly rules run only under the leaplint_official code style.
	OfficialStyleOnly bool

	RunAfter []RunAfter
	Priority Priority

	// Properties lists the editorconfig properties the rule reads.
	Properties []editorconfig.Definition
}

// =============================================================================
// Execution
// =============================================================================

// Finding is a violation reported by a rule.
type Finding struct {
	Offset         int
	Message        string
	CanAutocorrect bool
}

// Context is handed to every callback of one rule instance for one file.
type Context struct {
	Tree   *tree.Tree
	Config *editorconfig.Config

	// Autocorrect is set when the rule may mutate the tree for this call.
	Autocorrect bool

	stopped bool
	err     error
}

// StopTraversal tells the engine not to call the rule again for this file.
func (c *Context) StopTraversal() {
	c.stopped = true
}

// Stopped reports whether StopTraversal was called.
func (c *Context) Stopped() bool {
	return c.stopped
}

// Fail records err from a tree mutation. The engine reports the first
// recorded error as an internal error of the rule and stops calling it for the
// file. A nil err is ignored, so mutations can be passed straight through.
func (c *Context) Fail(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

// Err returns the first error passed to Fail.
func (c *Context) Err() error {
	return c.err
}

// Emit is a convenience for building a finding at node n.
func (c *Context) Emit(n tree.NodeID, message string, canAutocorrect bool) Finding {
	return Finding{Offset: c.Tree.Offset(n), Message: message, CanAutocorrect: canAutocorrect}
}
