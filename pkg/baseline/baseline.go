// Package baseline reads and writes the baseline file: a list of accepted
// violations, identified by file, line, column and rule, that later runs
// report as baseline-ignored.
package baseline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/leapstack-labs/leaplint/pkg/rule"
)

// Status describes the outcome of loading a baseline.
type Status string

// Load statuses.
const (
	StatusValid    Status = "valid"
	StatusNotFound Status = "not-found"
	StatusInvalid  Status = "invalid"
	StatusDisabled Status = "disabled"
)

// Version is written to the root element.
const Version = "1.0"

var fileExpr = xpath.MustCompile("/baseline/file")

// Entry is one accepted violation.
type Entry struct {
	File   string
	Line   int
	Column int
	Rule   rule.ID
}

type key struct {
	line, column int
	rule         rule.ID
}

// Baseline is the loaded table. It is read-only after Load and safe to share
// between file workers.
type Baseline struct {
	path   string
	status Status
	files  map[string]map[key]bool
}

// Disabled returns a baseline that suppresses nothing.
func Disabled() *Baseline {
	return &Baseline{status: StatusDisabled}
}

// Path returns the file the baseline was read from.
func (b *Baseline) Path() string {
	return b.path
}

// Status returns the load status.
func (b *Baseline) Status() Status {
	return b.status
}

// Len returns the number of entries.
func (b *Baseline) Len() int {
	n := 0
	for _, f := range b.files {
		n += len(f)
	}
	return n
}

// Contains reports whether the violation was accepted. file must be in the
// form produced by RelativePath.
func (b *Baseline) Contains(file string, line, column int, id rule.ID) bool {
	if b == nil || b.files == nil {
		return false
	}
	return b.files[file][key{line: line, column: column, rule: id}]
}

// HasFile reports whether the baseline lists any violation for file.
func (b *Baseline) HasFile(file string) bool {
	if b == nil {
		return false
	}
	_, ok := b.files[file]
	return ok
}

// Load reads the baseline at path. An empty path disables the baseline. A
// missing or unreadable file is not an error: the returned status says so
// and the baseline suppresses nothing.
func Load(path string, logger *slog.Logger) *Baseline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if path == "" {
		return Disabled()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Baseline{path: path, status: StatusNotFound}
		}
		logger.Warn("failed to open baseline", "path", path, "error", err)
		return &Baseline{path: path, status: StatusInvalid}
	}
	defer f.Close()

	b, err := Read(f, logger)
	if err != nil {
		logger.Warn("baseline is invalid and is ignored", "path", path, "error", err)
		return &Baseline{path: path, status: StatusInvalid}
	}
	b.path = path
	return b
}

// Read parses a baseline document. Rule ids without a rule set are taken to
// belong to the default rule set; one warning is logged if any are found.
func Read(r io.Reader, logger *slog.Logger) (*Baseline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse baseline: %w", err)
	}
	if xmlquery.FindOne(doc, "/baseline") == nil {
		return nil, errors.New("failed to parse baseline: missing baseline element")
	}

	b := &Baseline{status: StatusValid, files: make(map[string]map[key]bool)}
	unqualified := 0
	for _, fileNode := range xmlquery.QuerySelectorAll(doc, fileExpr) {
		name := fileNode.SelectAttr("name")
		if name == "" {
			return nil, errors.New("failed to parse baseline: file element without name")
		}
		entries := b.files[name]
		if entries == nil {
			entries = make(map[key]bool)
			b.files[name] = entries
		}
		for _, errNode := range xmlquery.Find(fileNode, "error") {
			line, err := strconv.Atoi(errNode.SelectAttr("line"))
			if err != nil {
				return nil, fmt.Errorf("failed to parse baseline: file %s: invalid line: %w", name, err)
			}
			col, err := strconv.Atoi(errNode.SelectAttr("column"))
			if err != nil {
				return nil, fmt.Errorf("failed to parse baseline: file %s: invalid column: %w", name, err)
			}
			source := strings.TrimSpace(errNode.SelectAttr("source"))
			id := rule.Qualify(source, rule.DefaultRuleSet)
			if !rule.ID(source).IsQualified() {
				unqualified++
			}
			entries[key{line: line, column: col, rule: id}] = true
		}
	}

	if unqualified > 0 {
		logger.Warn("baseline contains rule ids without a rule set; regenerate the baseline",
			"count", unqualified, "default_rule_set", rule.DefaultRuleSet)
	}
	return b, nil
}

// RelativePath renders path relative to root with forward slashes, the form
// used for file names in the baseline. Paths outside root stay absolute.
func RelativePath(path, root string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	if root != "" {
		if rootAbs, err := filepath.Abs(root); err == nil {
			if rel, err := filepath.Rel(rootAbs, abs); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.ToSlash(abs)
}
