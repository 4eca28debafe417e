package cli

import (
	"github.com/spf13/cobra"

	"contactsapi/src/infra/db"
	"contactsapi/src/infra/db/seed"
)

func seedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the bundled area codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := openBackend(ctx, e.cfg, e.log)
			if err != nil {
				return err
			}
			defer b.close()

			if b.schema != nil {
				if err := b.schema.Migrate(ctx, db.MigrateUp); err != nil {
					return err
				}
			}
			return seed.Run(ctx, b.seeder, e.log)
		},
	}
}
