package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"contactsapi/src/infra/config"
)

// pingTimeout bounds startup and health pings.
const pingTimeout = 5 * time.Second

// Postgres owns the pgx pool backing the contact store.
type Postgres struct {
	Pool *pgxpool.Pool
	log  *slog.Logger
}

// New opens a pool from cfg and fails fast when the server is unreachable.
// Sessions run in UTC so timestamps round-trip unchanged.
func New(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "contactsapi"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pg := &Postgres{Pool: pool, log: log}
	if err := pg.Health(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established",
		"driver", config.DriverPostgres,
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Name,
		"max_conns", poolCfg.MaxConns,
	)
	return pg, nil
}

// Close drains the pool. Safe to call more than once.
func (p *Postgres) Close() {
	if p.Pool == nil {
		return
	}
	p.Pool.Close()
	p.Pool = nil
	p.log.Info("database connection closed", "driver", config.DriverPostgres)
}

// Health pings the server, giving up after pingTimeout.
func (p *Postgres) Health(ctx context.Context) error {
	if p.Pool == nil {
		return fmt.Errorf("postgres pool is closed")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.Pool.Ping(ctx)
}
