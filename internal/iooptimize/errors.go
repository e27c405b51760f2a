package iooptimize

import (
	"errors"
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

func notConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database not connected",
		Err:  errors.New("pool is nil"),
	}
}

// VacuumError is returned when VACUUM ANALYZE of a table fails.
func VacuumError(table string, err error) error {
	msg := `Cannot run VACUUM ANALYZE on <em>%s</em>
   The database user must own the table.`
	vars := []any{table}

	return &gn.Error{
		Code: errcode.OptimizerVacuumError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("vacuum %s: %w", table, err),
	}
}

// SizeError is returned when the size of a table cannot be read.
func SizeError(table string, err error) error {
	msg := "Cannot read size of <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.OptimizerSizeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("size of %s: %w", table, err),
	}
}
