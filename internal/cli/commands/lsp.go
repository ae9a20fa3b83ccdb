package commands

import (
	"github.com/leapstack-labs/leaplint/internal/lsp"
	"github.com/leapstack-labs/leaplint/pkg/baseline"
	"github.com/leapstack-labs/leaplint/pkg/engine"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server",
		Long: `Start a Language Server Protocol server over stdio.

The server lints open SQL documents as they change and publishes the
violations as diagnostics. Document formatting and the fix-all code action
apply the same corrections as the format command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cfg := cmdCtx.Cfg
			logger := cmdCtx.Logger

			server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
				NewEngine: func(root string) (*engine.Engine, error) {
					wcfg := *cfg
					// Without a config file the workspace root is the project root.
					if cfg.File == "" && root != "" {
						wcfg.ProjectRoot = root
					}
					return newEngine(&wcfg, baseline.Load(wcfg.Baseline, logger), logger)
				},
				Root:    cfg.ProjectRoot,
				Version: version,
				Logger:  logger,
			})
			return server.Run(cmd.Context())
		},
	}
}
