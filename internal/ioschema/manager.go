// Package ioschema implements the SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/gnames/geopephub/pkg/db"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the db.SchemaManager interface. Status tables
// are handled by GORM AutoMigrate, the catalog table by plain DDL.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) db.SchemaManager {
	return &manager{operator: op}
}

// OpenGORM wraps the operator's pool into a GORM handle. The handle
// shares connections with the pool, closing the pool closes it too.
func OpenGORM(op db.Operator) (*gorm.DB, error) {
	pool := op.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB, nil
}

// Create creates the status tables with GORM AutoMigrate and the
// catalog table with its indexes.
func (m *manager) Create(ctx context.Context) error {
	gormDB, err := OpenGORM(m.operator)
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	return m.createCatalog(ctx)
}

// Migrate updates the status tables to the latest version. The
// catalog table is created if it is missing.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := OpenGORM(m.operator)
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	return m.createCatalog(ctx)
}

func (m *manager) createCatalog(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	var p schema.Project
	stmts := append([]string{p.TableDDL()}, p.IndexDDL()...)
	for _, q := range stmts {
		if _, err := pool.Exec(ctx, q); err != nil {
			return CatalogSchemaError(p.TableName(), err)
		}
	}

	return nil
}
