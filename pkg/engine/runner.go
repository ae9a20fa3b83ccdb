package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Source is a file to process.
type Source struct {
	Path  string
	Stdin bool
	// Read returns the content. Nil reads Path from disk.
	Read func() (string, error)
}

// FileSource returns a source read from disk.
func FileSource(path string) Source {
	return Source{Path: path}
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Engine   *Engine
	Reporter Reporter
	Logger   *slog.Logger

	// Format rewrites files instead of only linting them.
	Format bool
	// Workers bounds concurrent files. Zero means GOMAXPROCS.
	Workers int
	// ErrorLimit stops starting new files once this many failing violations
	// were reported. Zero means no limit. Files already started finish.
	ErrorLimit int

	// Stdout receives formatted stdin content. Defaults to os.Stdout.
	Stdout io.Writer
	// WriteFile persists formatted content. Defaults to os.WriteFile
	// keeping the file mode.
	WriteFile func(path, content string) error
}

// Summary describes a finished run.
type Summary struct {
	RunID   string
	Files   int
	Skipped int
	// Formatted counts files whose content changed on disk.
	Formatted int
	Counts    map[Status]int
	// Tripped is set when any violation requires attention.
	Tripped bool
	// Truncated is set when ErrorLimit stopped the run early.
	Truncated bool
}

// Runner processes many files over a bounded worker pool.
type Runner struct {
	cfg RunnerConfig
}

// NewRunner creates a runner.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Reporter == nil {
		cfg.Reporter = NopReporter{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.WriteFile == nil {
		cfg.WriteFile = writeFilePreservingMode
	}
	return &Runner{cfg: cfg}
}

func writeFilePreservingMode(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(content), mode)
}

// Run processes sources and reports every file. The returned error is set
// only when the reporters fail or ctx is cancelled; violations are reported
// through the summary.
func (r *Runner) Run(ctx context.Context, sources []Source) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), Counts: make(map[Status]int)}
	logger := r.cfg.Logger.With("run_id", summary.RunID)
	logger.Debug("run started", "files", len(sources), "workers", r.cfg.Workers, "format", r.cfg.Format)

	var mu sync.Mutex
	failures := 0

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.cfg.Reporter.BeforeAll()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(max(1, min(r.cfg.Workers, len(sources))))

	for _, src := range sources {
		g.Go(func() error {
			// Files that have not started are skipped once cancelled.
			if gctx.Err() != nil {
				mu.Lock()
				summary.Skipped++
				mu.Unlock()
				return nil
			}

			// A started file runs to completion.
			vs, changed := r.process(context.WithoutCancel(gctx), src, logger)

			mu.Lock()
			defer mu.Unlock()
			summary.Files++
			if changed {
				summary.Formatted++
			}
			for _, v := range vs {
				summary.Counts[v.Status]++
				if v.Status.Trips() {
					summary.Tripped = true
					failures++
				}
			}
			if r.cfg.ErrorLimit > 0 && failures >= r.cfg.ErrorLimit && !summary.Truncated {
				summary.Truncated = true
				logger.Info("error limit reached, skipping remaining files", "limit", r.cfg.ErrorLimit)
				cancel()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := r.cfg.Reporter.AfterAll(); err != nil {
		return summary, fmt.Errorf("failed to finish reporting: %w", err)
	}
	logger.Debug("run finished", "files", summary.Files, "skipped", summary.Skipped, "tripped", summary.Tripped)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// process handles one file and reports it. Failures outside rule execution
// are reported as internal errors of the engine.
func (r *Runner) process(ctx context.Context, src Source, logger *slog.Logger) ([]Violation, bool) {
	e := r.cfg.Engine
	name := StdinName
	if src.Path != "" {
		name = e.DisplayName(Code{Path: src.Path})
	}
	flog := logger.With("file", name)

	vs, changed := r.check(ctx, src, flog)

	rep := r.cfg.Reporter
	rep.Before(name)
	for _, v := range vs {
		rep.OnLintError(name, v)
	}
	rep.After(name)
	return vs, changed
}

func (r *Runner) check(ctx context.Context, src Source, logger *slog.Logger) ([]Violation, bool) {
	internal := func(err error) []Violation {
		logger.Error("failed to process file", "error", err)
		return []Violation{{Line: 1, Column: 1, RuleID: EngineRuleID, Message: err.Error(), Status: StatusInternalError}}
	}

	content, err := r.read(src)
	if err != nil {
		return internal(err), false
	}
	code := Code{Path: src.Path, Content: content, Stdin: src.Stdin}

	if !r.cfg.Format {
		vs, err := r.cfg.Engine.Lint(ctx, code)
		if err != nil {
			return internal(err), false
		}
		return vs, false
	}

	out, vs, err := r.cfg.Engine.Format(ctx, code)
	if err != nil {
		return internal(err), false
	}
	if src.Stdin {
		if _, err := io.WriteString(r.cfg.Stdout, out); err != nil {
			return append(vs, internal(fmt.Errorf("failed to write formatted output: %w", err))...), false
		}
		return vs, false
	}
	if out == content {
		return vs, false
	}
	if err := r.cfg.WriteFile(src.Path, out); err != nil {
		return append(vs, internal(fmt.Errorf("failed to write %s: %w", src.Path, err))...), false
	}
	logger.Debug("file formatted")
	return vs, true
}

func (r *Runner) read(src Source) (string, error) {
	if src.Read != nil {
		return src.Read()
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src.Path, err)
	}
	return string(data), nil
}
