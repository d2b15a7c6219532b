package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/logger"
)

type DB struct {
	ctx   context.Context
	cfg   config.Postgres
	mylog logger.Logger
	pool  *pgxpool.Pool
}

// Start opens a connection pool and pings it once.
func Start(ctx context.Context, dbCfg config.Postgres, mylog logger.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = dbCfg.MaxConns

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	mylog.Action("db_pool_ready").Debug("Connection pool ready", "host", dbCfg.Host, "database", dbCfg.Database, "max_conns", dbCfg.MaxConns)
	return &DB{ctx: ctx, cfg: dbCfg, mylog: mylog, pool: pool}, nil
}

func (d *DB) GetConn() *pgxpool.Pool {
	return d.pool
}

func (d *DB) Close() error {
	if d.pool != nil {
		d.pool.Close()
	}
	return nil
}

// IsAlive pings the pool with a short deadline.
func (d *DB) IsAlive() error {
	if d.pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	ctx, cancel := context.WithTimeout(d.ctx, 3*time.Second)
	defer cancel()
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
