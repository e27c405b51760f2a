package iostore

import (
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
)

// SaveCycleError is returned when a cycle cannot be written.
func SaveCycleError(id uint, err error) error {
	msg := "Cannot save upload cycle <em>%d</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.StoreSaveCycleError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("saving cycle %d: %w", id, err),
	}
}

// SaveItemError is returned when an item cannot be written.
func SaveItemError(gse string, cycleID uint, err error) error {
	msg := "Cannot save status of <em>%s</em> in cycle <em>%d</em>"
	vars := []any{gse, cycleID}

	return &gn.Error{
		Code: errcode.StoreSaveItemError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("saving item %s of cycle %d: %w", gse, cycleID, err),
	}
}

// QueryError is returned when a status query fails.
func QueryError(what string, err error) error {
	msg := "Cannot query <em>%s</em>"
	vars := []any{what}

	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("querying %s: %w", what, err),
	}
}

// CountError is returned when items of a cycle cannot be counted.
func CountError(cycleID uint, what string, err error) error {
	msg := "Cannot count <em>%s</em> items of cycle <em>%d</em>"
	vars := []any{what, cycleID}

	return &gn.Error{
		Code: errcode.StoreCountError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("counting %s of cycle %d: %w", what, cycleID, err),
	}
}
