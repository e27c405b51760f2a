// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"

	"github.com/gnames/geopephub/pkg/config"
	"github.com/gnames/geopephub/pkg/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Work is sequential, a lock connection and a few queries at a
	// time are all that is needed.
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists checks if a table exists in the current
// database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// HasTables checks if any of the given tables exist in the public
// schema.
func (p *pgxOperator) HasTables(
	ctx context.Context,
	tables ...string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = ANY($1)
		)
	`

	var hasTables bool
	err := p.pool.QueryRow(ctx, query, tables).Scan(&hasTables)
	if err != nil {
		return false, TableCheckError(err)
	}

	return hasTables, nil
}

// DropTables drops the given tables in the public schema.
func (p *pgxOperator) DropTables(ctx context.Context, tables ...string) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	for _, table := range tables {
		dropSQL := fmt.Sprintf(
			"DROP TABLE IF EXISTS %s CASCADE",
			pgx.Identifier{table}.Sanitize(),
		)
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}

	return nil
}

// TryLock takes a PostgreSQL session advisory lock. A session lock
// belongs to a connection, so the connection is held until unlock.
func (p *pgxOperator) TryLock(
	ctx context.Context,
	key string,
) (func() error, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, LockError(key, err)
	}

	var ok bool
	err = conn.QueryRow(ctx,
		"SELECT pg_try_advisory_lock(hashtext($1))", key,
	).Scan(&ok)
	if err != nil {
		conn.Release()
		return nil, LockError(key, err)
	}
	if !ok {
		conn.Release()
		return nil, LockHeldError(key)
	}

	unlock := func() error {
		defer conn.Release()
		_, err := conn.Exec(context.Background(),
			"SELECT pg_advisory_unlock(hashtext($1))", key,
		)
		if err != nil {
			return LockError(key, err)
		}
		return nil
	}
	return unlock, nil
}
