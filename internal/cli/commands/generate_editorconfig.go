package commands

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leaplint/pkg/baseline"
	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/engine"
	"github.com/spf13/cobra"
)

// GenerateOptions holds options for the generate-editorconfig command.
type GenerateOptions struct {
	CodeStyle string
	Path      string
	Glob      string
	Output    string
}

// NewGenerateEditorConfigCommand creates the generate-editorconfig command.
func NewGenerateEditorConfigCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate-editorconfig",
		Short: "Print the effective .editorconfig properties",
		Long: `Print an .editorconfig section with the value in effect for every property
used by the loaded rules.

Values are resolved for --path, which defaults to a SQL file in the working
directory, so existing .editorconfig files and overrides are reflected.`,
		Example: `  # Print the properties of the official code style
  leaplint generate-editorconfig

  # Start a dbt style .editorconfig
  leaplint generate-editorconfig --code-style dbt --output .editorconfig`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerateEditorConfig(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.CodeStyle, "code-style", "", "Code style: leaplint_official, dbt")
	cmd.Flags().StringVar(&opts.Path, "path", "", "File whose properties are resolved")
	cmd.Flags().StringVar(&opts.Glob, "glob", "*.sql", "Section glob of the generated properties")
	cmd.Flags().StringVar(&opts.Output, "output-file", "", "Write to this file instead of stdout")

	_ = cmd.RegisterFlagCompletionFunc("code-style", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(editorconfig.StyleOfficial), string(editorconfig.StyleDBT)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runGenerateEditorConfig(cmd *cobra.Command, opts *GenerateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cfg := *cmdCtx.Cfg
	if opts.CodeStyle != "" {
		if err := editorconfig.CodeStyleProperty.Validate(opts.CodeStyle); err != nil {
			return fmt.Errorf("invalid code style: %w", err)
		}
		cfg.EditorConfigOverrides = maps.Clone(cfg.EditorConfigOverrides)
		if cfg.EditorConfigOverrides == nil {
			cfg.EditorConfigOverrides = make(map[string]string)
		}
		cfg.EditorConfigOverrides[editorconfig.CodeStyleProperty.PropertyName()] = opts.CodeStyle
	}

	eng, err := newEngine(&cfg, baseline.Disabled(), cmdCtx.Logger)
	if err != nil {
		return err
	}

	path := opts.Path
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(cwd, "file.sql")
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.Path, err)
	}
	resolved, err := eng.ResolveConfig(engine.Code{Path: path})
	if err != nil {
		return err
	}

	content := "root = true\n\n" + editorconfig.Generate(opts.Glob, eng.Properties(), resolved)
	if opts.Output == "" {
		cmdCtx.Renderer.Printf("%s", content)
		return nil
	}
	if err := os.WriteFile(opts.Output, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Output, err)
	}
	cmdCtx.Renderer.Success("Wrote " + opts.Output)
	return nil
}
