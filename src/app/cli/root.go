// Package cli defines the contactsapi command line.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"contactsapi/src/infra/config"
	"contactsapi/src/infra/logger"
)

// env is populated by the root command before any subcommand runs.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

// Execute runs the root command. Without a subcommand it serves the API.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "contactsapi",
		Short:         "Contact management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.New(cfg.Log)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), e)
		},
	}

	root.AddCommand(serveCmd(e), migrateCmd(e), seedCmd(e))
	return root
}
