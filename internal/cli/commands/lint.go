package commands

import (
	"github.com/spf13/cobra"
)

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "lint [patterns...]",
		Short: "Check SQL files against the style rules",
		Long: `Check SQL files against the style rules and report violations.

Patterns are globs relative to the working directory and default to **/*.sql.
A pattern starting with ! excludes files. Style properties are read from
.editorconfig files; process settings from .leaplint.yaml.

The command exits non-zero when any violation needs attention.`,
		Example: `  # Lint every SQL file below the working directory
  leaplint lint

  # Lint one directory, skipping generated files
  leaplint lint models '!models/generated/**'

  # Write a checkstyle report next to the plain output
  leaplint lint --reporter plain --reporter checkstyle:build/leaplint.xml

  # Lint code from stdin as if it were models/orders.sql
  cat orders.sql | leaplint lint --stdin --stdin-path models/orders.sql

  # Accept the current violations
  leaplint lint --baseline leaplint-baseline.xml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}
	addCheckFlags(cmd, opts)
	return cmd
}
