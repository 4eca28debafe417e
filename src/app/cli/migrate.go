package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"contactsapi/src/infra/db"
)

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{db.MigrateUp, db.MigrateDown, db.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := db.MigrateUp
			if len(args) == 1 {
				direction = args[0]
			}

			b, err := openBackend(cmd.Context(), e.cfg, e.log)
			if err != nil {
				return err
			}
			defer b.close()

			if b.schema == nil {
				return fmt.Errorf("driver %q has no schema to migrate", e.cfg.Database.Driver)
			}
			return b.schema.Migrate(cmd.Context(), direction)
		},
	}
}
