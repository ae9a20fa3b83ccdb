package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leaplint/pkg/baseline"
	"github.com/leapstack-labs/leaplint/pkg/engine"
	"github.com/leapstack-labs/leaplint/pkg/reporter"
	"github.com/spf13/cobra"
)

// ErrViolationsFound is returned when a run reports violations that need
// attention. The process exits non-zero without printing it.
var ErrViolationsFound = errors.New("lint issues found")

// CheckOptions holds options shared by the lint and format commands.
type CheckOptions struct {
	Format    bool
	Stdin     bool
	StdinPath string
	Watch     bool
}

// addCheckFlags registers the flags shared by lint and format. Flags that
// mirror configuration keys are picked up by the config loader.
func addCheckFlags(cmd *cobra.Command, opts *CheckOptions) {
	f := cmd.Flags()
	f.StringSlice("reporter", nil, fmt.Sprintf("Reporters as name[:path], one of %v", reporter.Names()))
	f.String("baseline", "", "Baseline file; created when missing")
	f.Int("workers", 0, "Files processed concurrently (0 = number of CPUs)")
	f.Int("limit", 0, "Stop after this many violations (0 = no limit)")
	f.Bool("relative", true, "Print paths relative to the project root")
	f.Bool("group-by-file", false, "Group plain output under a header per file")
	f.String("editorconfig-default", "", "Default .editorconfig applied below the project files")
	f.StringSlice("disable", nil, "Rule ids to disable")
	f.Int("max-format-runs", 0, "Format rounds before a file is reported as not converging")
	f.BoolVar(&opts.Stdin, "stdin", false, "Read code from stdin")
	f.StringVar(&opts.StdinPath, "stdin-path", "", "Path used to resolve .editorconfig for stdin")
	f.BoolVar(&opts.Watch, "watch", false, "Check again when files change")

	_ = cmd.RegisterFlagCompletionFunc("reporter", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return reporter.Names(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if opts.Stdin && opts.Watch {
		return errors.New("--stdin cannot be combined with --watch")
	}
	if opts.Stdin && len(args) > 0 {
		return errors.New("file patterns cannot be combined with --stdin")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	if opts.Stdin {
		src := stdinSource(cmd.InOrStdin(), cwd, opts.StdinPath)
		return check(cmd.Context(), cmdCtx, cmd, opts, []engine.Source{src})
	}

	pats := newPatterns(cwd, args)
	files, err := pats.Expand()
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("files selected", "count", len(files))

	sources := make([]engine.Source, 0, len(files))
	for _, path := range files {
		sources = append(sources, engine.FileSource(path))
	}

	if opts.Watch {
		return watch(cmd.Context(), cmdCtx, pats, func(ctx context.Context, changed []string) error {
			srcs := make([]engine.Source, 0, len(changed))
			for _, path := range changed {
				srcs = append(srcs, engine.FileSource(path))
			}
			err := check(ctx, cmdCtx, cmd, opts, srcs)
			if errors.Is(err, ErrViolationsFound) {
				return nil
			}
			return err
		}, sources)
	}

	if len(sources) == 0 {
		cmdCtx.Renderer.Warning("no files matched")
		return nil
	}
	return check(cmd.Context(), cmdCtx, cmd, opts, sources)
}

func stdinSource(in io.Reader, cwd, stdinPath string) engine.Source {
	src := engine.Source{
		Stdin: true,
		Read: func() (string, error) {
			data, err := io.ReadAll(in)
			if err != nil {
				return "", fmt.Errorf("failed to read stdin: %w", err)
			}
			return string(data), nil
		},
	}
	if stdinPath != "" {
		if !filepath.IsAbs(stdinPath) {
			stdinPath = filepath.Join(cwd, stdinPath)
		}
		src.Path = stdinPath
	}
	return src
}

// check runs the engine once over sources.
func check(ctx context.Context, cmdCtx *CommandContext, cmd *cobra.Command, opts *CheckOptions, sources []engine.Source) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	bl := baseline.Load(cfg.Baseline, logger)
	var createBaseline string
	switch bl.Status() {
	case baseline.StatusNotFound:
		createBaseline = cfg.Baseline
	case baseline.StatusInvalid:
		cmdCtx.Renderer.Warning(fmt.Sprintf("baseline %s is invalid and is ignored", cfg.Baseline))
	}

	eng, err := newEngine(cfg, bl, logger)
	if err != nil {
		return err
	}

	// Formatted stdin owns stdout.
	out := cmd.OutOrStdout()
	if opts.Format && opts.Stdin {
		out = cmd.ErrOrStderr()
	}
	rep, closeReports, err := openReporters(reportOptions{
		specs:        cfg.Reporters,
		out:          out,
		color:        cfg.Color,
		root:         cfg.ProjectRoot,
		relative:     cfg.Relative,
		groupByFile:  cfg.GroupByFile,
		baselinePath: createBaseline,
	})
	if err != nil {
		return err
	}

	runner := engine.NewRunner(engine.RunnerConfig{
		Engine:     eng,
		Reporter:   rep,
		Logger:     logger,
		Format:     opts.Format,
		Workers:    cfg.Workers,
		ErrorLimit: cfg.Limit,
		Stdout:     cmd.OutOrStdout(),
	})
	summary, runErr := runner.Run(ctx, sources)
	if err := closeReports(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to close reports: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	logger.Debug("check finished",
		"run_id", summary.RunID,
		"files", summary.Files,
		"formatted", summary.Formatted,
		"skipped", summary.Skipped)
	if summary.Truncated {
		cmdCtx.Renderer.Warning(fmt.Sprintf("violation limit of %d reached, %d file(s) skipped", cfg.Limit, summary.Skipped))
	}
	if createBaseline != "" {
		cmdCtx.Renderer.Warning("baseline created at " + createBaseline)
	}
	if summary.Tripped {
		return ErrViolationsFound
	}
	return nil
}
