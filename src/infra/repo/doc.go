// Package repo contains the storage adapters behind ports.ContactStore.
//
// Every backend hands out sessions built on the same unit of work:
//   - Create and Delete stage changes in memory
//   - FindContact tracks what it returns so later mutations become updates
//   - Commit flushes inserts, updates and deletes in one transaction
//
// Backends:
//   - PostgresStore: pgx/v5 connection pool, schema managed by goose
//   - SQLiteStore: gorm with the sqlite driver, schema managed by AutoMigrate
//   - MemoryStore: mutex guarded maps, for local runs and tests
//
// Store failures surface as *domain.PersistenceError; a commit that finds a
// row missing or duplicated additionally classifies as domain.ErrConflict.
package repo
