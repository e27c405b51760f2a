package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geopephub/pkg/errcode"
)

// NotConnectedError is returned when a schema operation is called
// before the operator connected to PostgreSQL.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Cannot change schema, database is not connected",
		Err:  fmt.Errorf("schema: pool is nil"),
	}
}

// GORMConnectionError is returned when GORM cannot be opened on top
// of the pgx pool.
func GORMConnectionError(err error) error {
	msg := `Cannot open GORM session for status tables
   Check <em>database</em> settings in config.yaml.`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Err:  fmt.Errorf("open gorm: %w", err),
	}
}

// CreateSchemaError is returned when status tables cannot be created.
func CreateSchemaError(err error) error {
	msg := `Cannot create <em>geo_cycle_status</em> and <em>geo_sample_status</em>
   The database user needs CREATE permission on the schema.`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("create status tables: %w", err),
	}
}

// MigrateSchemaError is returned when AutoMigrate of status tables
// fails. Existing rows are not touched.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate status tables
   If columns changed type, back up the history and run
   <em>geopephub create --force</em>.`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("migrate status tables: %w", err),
	}
}

// CatalogSchemaError creates an error for failures of the
// catalog table or index creation.
func CatalogSchemaError(table string, err error) error {
	msg := `Cannot create catalog table <em>%s</em>

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Check database logs for details`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.CatalogSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to create %s: %w", table, err),
	}
}
