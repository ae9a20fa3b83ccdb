package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starterConfig is the .leaplint.yaml written by init.
type starterConfig struct {
	Reporter      []string `yaml:"reporter"`
	Baseline      string   `yaml:"baseline,omitempty"`
	Workers       int      `yaml:"workers"`
	Limit         int      `yaml:"limit"`
	MaxFormatRuns int      `yaml:"max_format_runs"`
	DisabledRules []string `yaml:"disabled_rules"`
}

const starterEditorConfig = `root = true

[*]
end_of_line = lf
insert_final_newline = true
charset = utf-8

[*.sql]
indent_style = space
indent_size = 4
trim_trailing_whitespace = true
max_line_length = 120
leaplint_code_style = leaplint_official
leaplint_keyword_case = upper
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize leaplint configuration",
		Long: `Write a starter configuration for leaplint.

This creates:
  - .leaplint.yaml with the process settings
  - .editorconfig with the style properties the rules read`,
		Example: `  # Initialize in current directory
  leaplint init

  # Overwrite existing files
  leaplint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			mode := output.ModeAuto
			if f := cmd.Flag("output"); f != nil {
				mode = output.Mode(f.Value.String())
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(starterConfig{
		Reporter:      []string{config.DefaultReporter},
		MaxFormatRuns: config.DefaultMaxFormatRuns,
		DisabledRules: []string{},
	})
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	files := []struct {
		name    string
		content []byte
	}{
		{config.FileName, data},
		{editorconfig.FileName, []byte(starterEditorConfig)},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists. Use --force to overwrite", f.name)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.Success("Created " + f.name)
	}

	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Adjust the style properties in .editorconfig")
	r.Println("  2. Run 'leaplint lint' to check your SQL files")
	r.Println("  3. Run 'leaplint format' to fix what can be fixed")
	return nil
}
