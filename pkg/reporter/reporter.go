// Package reporter renders engine results: human readable text, per-rule
// summaries, JSON, checkstyle XML and baseline files.
package reporter

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"sync"

	"github.com/leapstack-labs/leaplint/pkg/engine"
)

// Reporter names.
const (
	NamePlain        = "plain"
	NamePlainSummary = "plain-summary"
	NameJSON         = "json"
	NameCheckstyle   = "checkstyle"
	NameBaseline     = "baseline"
)

// Names lists the available reporters.
func Names() []string {
	return []string{NamePlain, NamePlainSummary, NameJSON, NameCheckstyle, NameBaseline}
}

// Options configure a reporter created by New.
type Options struct {
	// Out receives the report. The baseline reporter writes to Out as well.
	Out io.Writer
	// Color enables styled plain output.
	Color bool
	// GroupByFile prints a header per file instead of a path per line.
	GroupByFile bool
}

// New creates the reporter called name.
func New(name string, opts Options) (engine.Reporter, error) {
	if opts.Out == nil {
		return nil, errors.New("reporter output is required")
	}
	switch name {
	case NamePlain:
		return NewPlain(opts.Out, opts.Color, opts.GroupByFile), nil
	case NamePlainSummary:
		return NewPlainSummary(opts.Out), nil
	case NameJSON:
		return NewJSON(opts.Out), nil
	case NameCheckstyle:
		return NewCheckstyle(opts.Out), nil
	case NameBaseline:
		return NewBaseline(opts.Out), nil
	}
	return nil, fmt.Errorf("unknown reporter %q (available: %v)", name, Names())
}

// collector keeps violations per file. Calls for one file are serial; calls
// for different files may be concurrent.
type collector struct {
	mu    sync.Mutex
	files map[string][]engine.Violation
}

func (c *collector) before(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.files == nil {
		c.files = make(map[string][]engine.Violation)
	}
	if _, ok := c.files[file]; !ok {
		c.files[file] = nil
	}
}

func (c *collector) add(file string, v engine.Violation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.files == nil {
		c.files = make(map[string][]engine.Violation)
	}
	c.files[file] = append(c.files[file], v)
}

// take removes and returns the violations of file.
func (c *collector) take(file string) []engine.Violation {
	c.mu.Lock()
	defer c.mu.Unlock()
	vs := c.files[file]
	delete(c.files, file)
	return vs
}

// sorted returns every file with its violations, files in name order.
func (c *collector) sorted() []fileViolations {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]fileViolations, 0, len(c.files))
	for name, vs := range c.files {
		out = append(out, fileViolations{name: name, violations: slices.Clone(vs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

type fileViolations struct {
	name       string
	violations []engine.Violation
}

// visible reports whether a violation is shown to users. Corrected and
// baselined violations are not.
func visible(v engine.Violation) bool {
	return v.Status != engine.StatusCorrected && v.Status != engine.StatusBaselineIgnored
}

// Multi fans every call out to several reporters.
type Multi []engine.Reporter

func (m Multi) BeforeAll() {
	for _, r := range m {
		r.BeforeAll()
	}
}

func (m Multi) Before(file string) {
	for _, r := range m {
		r.Before(file)
	}
}

func (m Multi) OnLintError(file string, v engine.Violation) {
	for _, r := range m {
		r.OnLintError(file, v)
	}
}

func (m Multi) After(file string) {
	for _, r := range m {
		r.After(file)
	}
}

// AfterAll finishes every reporter and joins their errors.
func (m Multi) AfterAll() error {
	var errs []error
	for _, r := range m {
		if err := r.AfterAll(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
