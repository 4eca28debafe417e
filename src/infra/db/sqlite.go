package db

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"contactsapi/src/infra/config"
)

// SQLite wraps a gorm handle on a SQLite database file.
type SQLite struct {
	DB  *gorm.DB
	log *slog.Logger
}

// NewSQLite opens (creating if needed) the database at path with foreign keys on.
// Use ":memory:" for a private in-memory database.
func NewSQLite(ctx context.Context, path string, debug bool, log *slog.Logger) (*SQLite, error) {
	mode := gormLogger.Silent
	if debug {
		mode = gormLogger.Info
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(mode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
	}
	// SQLite serialises writers anyway, and ":memory:" databases live per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	log.Info("database connection established",
		"driver", config.DriverSQLite,
		"path", path,
	)
	return &SQLite{DB: gdb, log: log}, nil
}

// Close releases the underlying connection.
func (s *SQLite) Close() {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err == nil {
		s.log.Info("database connection closed")
	}
}

// Health checks if the database is reachable.
func (s *SQLite) Health(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
