// Package db provides database connections and schema management.
//
// This package is responsible for:
//   - PostgreSQL connection pool initialization (pgx)
//   - SQLite connection initialization (gorm)
//   - Connection health checks
//   - Versioned Postgres migrations (goose, embedded SQL)
//
// Example usage:
//
//	pg, err := db.New(ctx, cfg.Database, log)
//	if err != nil {
//	    return err
//	}
//	defer pg.Close()
//	if err := pg.Migrate(ctx, db.MigrateUp); err != nil {
//	    return err
//	}
package db
