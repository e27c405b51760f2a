package iodb

import (
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify the database <em>%s</em> exists and user <em>%s</em> can
     access it
  3. Check ~/.config/geopephub/config.yaml or GEOPEPHUB_DATABASE_*
     environment variables`
	vars := []any{host, port, database, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"connection to %s:%d/%s failed: %w",
			host, port, database, err,
		),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without a connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError is returned when existing tables cannot be listed.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Cannot check database tables",
		Err:  fmt.Errorf("checking tables: %w", err),
	}
}

// TableExistsCheckError is returned when a table lookup fails.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("checking table %s: %w", table, err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("dropping table %s: %w", table, err),
	}
}

// LockError is returned when an advisory lock query fails.
func LockError(key string, err error) error {
	msg := "Cannot use advisory lock <em>%s</em>"
	vars := []any{key}

	return &gn.Error{
		Code: errcode.DBLockError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("advisory lock %s: %w", key, err),
	}
}

// LockHeldError is returned when another process works on the same
// target window.
func LockHeldError(key string) error {
	msg := `Another process is working on <em>%s</em>

Wait for it to finish or check for stuck processes.`
	vars := []any{key}

	return &gn.Error{
		Code: errcode.DBLockHeldError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("advisory lock %s is held", key),
	}
}
