package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"contactsapi/src/app/server"
	"contactsapi/src/infra/db"
	"contactsapi/src/infra/db/seed"
	"contactsapi/src/infra/telemetry"
)

func serveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), e)
		},
	}
}

func runServe(ctx context.Context, e *env) (err error) {
	e.log.Info("starting application",
		"port", e.cfg.Server.Port,
		"driver", e.cfg.Database.Driver,
		"log_level", e.cfg.Log.Level,
	)

	shutdownTracing, err := telemetry.Init(ctx, e.cfg.Telemetry, e.log)
	if err != nil {
		return err
	}
	defer func() {
		// The serve context is already canceled at this point.
		err = errors.Join(err, shutdownTracing(context.WithoutCancel(ctx)))
	}()

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
	if e.cfg.Database.Seed {
		if err := seed.Run(ctx, b.seeder, e.log); err != nil {
			return err
		}
	}

	return server.New(e.cfg, e.log, b.store).Run(ctx)
}
