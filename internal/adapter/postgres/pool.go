package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/imagehub-sweeper/internal/config"
	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

// NewPool creates a PostgreSQL connection pool configured from PostgresConfig.
// It builds the DSN, pings the database for fail-fast validation, and returns
// the ready pool. A sweep issues one statement, so the pool holds at most one
// connection.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config for %s: %w: %w", cfg.Redacted(), domain.ErrConfiguration, err)
	}

	poolCfg.MaxConns = 1
	poolCfg.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w: %w", domain.ErrConnection, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w: %w", cfg.Redacted(), domain.ErrConnection, err)
	}

	return pool, nil
}
