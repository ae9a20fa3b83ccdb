package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/engine"
	"github.com/leapstack-labs/leaplint/pkg/reporter"
)

// reporterSpec is a reporter name with an optional output file, written as
// name or name:path.
type reporterSpec struct {
	name string
	path string
}

func parseReporterSpec(s string) reporterSpec {
	name, path, _ := strings.Cut(s, ":")
	return reporterSpec{name: strings.TrimSpace(name), path: strings.TrimSpace(path)}
}

// reportOptions configure the reporters of one run.
type reportOptions struct {
	specs []string
	// out receives reports without an output file.
	out   io.Writer
	color string
	root  string
	// relative keeps paths relative to root in reports.
	relative    bool
	groupByFile bool
	// baselinePath adds a baseline reporter writing to this file.
	baselinePath string
}

// openReporters creates the reporters of one run. The returned function
// closes the report files and must be called after the run.
func openReporters(opts reportOptions) (engine.Reporter, func() error, error) {
	var (
		multi   reporter.Multi
		closers []io.Closer
	)
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	specs := make([]reporterSpec, 0, len(opts.specs)+1)
	for _, s := range opts.specs {
		specs = append(specs, parseReporterSpec(s))
	}
	if opts.baselinePath != "" {
		specs = append(specs, reporterSpec{name: reporter.NameBaseline, path: opts.baselinePath})
	}

	for _, spec := range specs {
		w := opts.out
		if spec.path != "" {
			if err := os.MkdirAll(filepath.Dir(spec.path), 0o755); err != nil {
				_ = closeAll()
				return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
			}
			f, err := os.Create(spec.path)
			if err != nil {
				_ = closeAll()
				return nil, nil, fmt.Errorf("failed to create report file: %w", err)
			}
			closers = append(closers, f)
			w = f
		}

		r, err := reporter.New(spec.name, reporter.Options{
			Out:         w,
			Color:       useColor(opts.color, w),
			GroupByFile: opts.groupByFile,
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		// Baseline entries are always relative to the project root.
		if !opts.relative && spec.name != reporter.NameBaseline {
			r = absolutePaths{Reporter: r, root: opts.root}
		}
		multi = append(multi, r)
	}
	return multi, closeAll, nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return output.IsTerminal(w)
}

// absolutePaths reports files under their absolute path.
type absolutePaths struct {
	engine.Reporter
	root string
}

func (a absolutePaths) name(file string) string {
	if file == engine.StdinName || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(a.root, filepath.FromSlash(file))
}

func (a absolutePaths) Before(file string) {
	a.Reporter.Before(a.name(file))
}

func (a absolutePaths) OnLintError(file string, v engine.Violation) {
	a.Reporter.OnLintError(a.name(file), v)
}

func (a absolutePaths) After(file string) {
	a.Reporter.After(a.name(file))
}
