package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tubemetrics/internal/config/configs"
)

// NewPostgresPool creates a pgx connection pool from the configuration and
// verifies connectivity with a 5 second ping. The caller owns the returned
// pool and must close it.
func NewPostgresPool(ctx context.Context, cfg configs.Postgres) (*pgxpool.Pool, error) {
	poolConf, err := pgxpool.ParseConfig(cfg.Addr.String())
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConf)
	if err != nil {
		return nil, err
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
