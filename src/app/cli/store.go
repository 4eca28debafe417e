package cli

import (
	"context"
	"fmt"
	"log/slog"

	"contactsapi/src/core/ports"
	"contactsapi/src/infra/config"
	"contactsapi/src/infra/db"
	"contactsapi/src/infra/repo"
)

// migrator is implemented by backends with a schema.
type migrator interface {
	Migrate(ctx context.Context, direction string) error
}

// backend bundles an opened store with what the commands need from it.
type backend struct {
	store  ports.ContactStore
	seeder ports.AreaCodeSeeder
	// schema is nil for the memory driver.
	schema migrator
	close  func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := db.New(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		store := repo.NewPostgresStore(pg, log)
		return &backend{store: store, seeder: store, schema: store, close: pg.Close}, nil

	case config.DriverSQLite:
		sq, err := db.NewSQLite(ctx, cfg.Database.SQLitePath, cfg.Log.Level == "debug", log)
		if err != nil {
			return nil, err
		}
		store := repo.NewSQLiteStore(sq, log)
		return &backend{store: store, seeder: store, schema: store, close: sq.Close}, nil

	case config.DriverMemory:
		store := repo.NewMemoryStore(log)
		return &backend{store: store, seeder: store, close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
