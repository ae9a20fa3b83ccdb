package commands

import (
	"github.com/spf13/cobra"
)

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	opts := &CheckOptions{Format: true}
	cmd := &cobra.Command{
		Use:   "format [patterns...]",
		Short: "Fix style violations in SQL files",
		Long: `Rewrite SQL files so that they follow the style rules.

Correctable violations are fixed in place. Violations that cannot be fixed
are reported the same way lint reports them, and the command exits non-zero.
With --stdin the formatted code is written to stdout and reports go to
stderr.`,
		Example: `  # Format every SQL file below the working directory
  leaplint format

  # Format code from an editor
  leaplint format --stdin --stdin-path models/orders.sql < orders.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}
	addCheckFlags(cmd, opts)
	return cmd
}
