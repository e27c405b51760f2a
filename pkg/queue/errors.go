package queue

import (
	"fmt"

	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/gn"
)

// ConfigurationError is returned when a cycle cannot run because of
// its target. The cycle is marked as failed.
func ConfigurationError(cycleID uint, err error) error {
	msg := `Cycle <em>%d</em> cannot run with the given target

<em>How to fix:</em>
  Use one of the known targets with --target`
	vars := []any{cycleID}

	return &gn.Error{
		Code: errcode.UnknownTargetError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cycle %d: %w", cycleID, err),
	}
}

// PeriodError is returned for an invalid window or period length.
func PeriodError(start, end string, err error) error {
	msg := `Invalid period <em>%s - %s</em>

Dates use YYYY/MM/DD format and start cannot be after end.`
	vars := []any{start, end}

	return &gn.Error{
		Code: errcode.InvalidDateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid period %s-%s: %w", start, end, err),
	}
}

// PeriodLengthError is returned for a non-positive period length or a
// negative number of cycles.
func PeriodLengthError(period, cycles int) error {
	msg := "Invalid period length <em>%d</em> or cycle count <em>%d</em>"
	vars := []any{period, cycles}

	return &gn.Error{
		Code: errcode.InvalidPeriodError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"period must be positive and cycles non-negative, got %d and %d",
			period, cycles,
		),
	}
}

// DiscoveryError is returned when accessions of a window could not be
// enumerated. The cycle is marked as failed and can be picked up by
// reconciliation later.
func DiscoveryError(target string, w pipeline.Window, err error) error {
	msg := `Discovery failed for <em>%s</em> window <em>%s</em>

The cycle is marked as failed, run the checker for this window later.`
	vars := []any{target, w.String()}

	return &gn.Error{
		Code: errcode.DiscoverySearchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("discovery %s %s: %w", target, w, err),
	}
}
