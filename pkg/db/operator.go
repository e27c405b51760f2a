// Package db declares the database operator shared by schema, store
// and catalog components.
package db

import (
	"context"

	"github.com/gnames/geopephub/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool
// for components that run their own SQL.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if any of the given tables exist.
	HasTables(ctx context.Context, tables ...string) (bool, error)

	// DropTables drops the given tables if they exist.
	DropTables(ctx context.Context, tables ...string) error

	// TryLock takes a session advisory lock for the key without
	// waiting. The returned function releases the lock.
	TryLock(ctx context.Context, key string) (func() error, error)
}
