package commands

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/baseline"
	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/engine"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/rules/standard"
	"github.com/spf13/cobra"
)

// configKey is used to store the loaded config in context.
type configKey struct{}

// WithConfig stores cfg in ctx for commands to pick up.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer of cmd. When
// the command runs without the root command, as in tests, the config is
// loaded from the command's own flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		var err error
		if cfg, err = config.Load("", cmd.Flags()); err != nil {
			return nil, err
		}
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}, nil
}

// RuleSets returns the rule sets the binary ships with.
func RuleSets() []*rule.Set {
	return []*rule.Set{standard.RuleSet()}
}

// overrides merges the configured editorconfig overrides with the execution
// properties of disabled rules.
func overrides(cfg *config.Config) editorconfig.Overrides {
	out := make(editorconfig.Overrides, len(cfg.EditorConfigOverrides)+len(cfg.DisabledRules))
	maps.Copy(out, cfg.EditorConfigOverrides)
	for _, id := range cfg.DisabledRules {
		qualified := rule.Qualify(id, rule.DefaultRuleSet)
		out[qualified.ExecutionPropertyName()] = string(editorconfig.Disabled)
	}
	return out
}

// newResolver creates the editorconfig resolver for cfg.
func newResolver(cfg *config.Config, logger *slog.Logger) (*editorconfig.Resolver, error) {
	r, err := editorconfig.NewResolver(editorconfig.Options{
		DefaultFile: cfg.EditorConfig,
		Overrides:   overrides(cfg),
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create editorconfig resolver: %w", err)
	}
	return r, nil
}

// newEngine creates the lint engine for cfg with the baseline bl.
func newEngine(cfg *config.Config, bl *baseline.Baseline, logger *slog.Logger) (*engine.Engine, error) {
	resolver, err := newResolver(cfg, logger)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(engine.Config{
		RuleSets:      RuleSets(),
		Resolver:      resolver,
		Baseline:      bl,
		Root:          cfg.ProjectRoot,
		Logger:        logger,
		MaxFormatRuns: cfg.MaxFormatRuns,
		DetectCycles:  cfg.DetectCycles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return eng, nil
}
