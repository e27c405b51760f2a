// Package iooptimize implements the Optimizer interface. It refreshes
// statistics of the status and catalog tables and reports their size.
// Rows are never deleted, item history stays intact.
package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/geopephub/pkg/db"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// optimizer implements the Optimizer interface.
type optimizer struct {
	operator db.Operator
	logger   *slog.Logger
}

// NewOptimizer creates a new Optimizer.
func NewOptimizer(op db.Operator, logger *slog.Logger) db.Optimizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &optimizer{
		operator: op,
		logger:   logger,
	}
}

// tables returns tables touched by the optimizer.
func tables() []string {
	return []string{
		schema.Cycle{}.TableName(),
		schema.Item{}.TableName(),
		schema.Project{}.TableName(),
	}
}

// Optimize runs the steps:
//  1. Run VACUUM ANALYZE on every table
//  2. Report table sizes
func (o *optimizer) Optimize(ctx context.Context) error {
	if o.operator.Pool() == nil {
		return notConnectedError()
	}
	timeStart := time.Now()
	o.logger.Info("Starting database optimization")

	for _, v := range tables() {
		if err := vacuumAnalyze(ctx, o.operator.Pool(), v); err != nil {
			return err
		}
		o.logger.Info("VACUUM ANALYZE completed", "table", v)
	}

	sizes, err := tableSizes(ctx, o.operator.Pool(), tables())
	if err != nil {
		return err
	}
	for _, v := range tables() {
		gn.Info("%s: <em>%s</em>", v, humanize.Bytes(uint64(sizes[v])))
	}

	dur := gnfmt.TimeString(time.Since(timeStart).Seconds())
	o.logger.Info("Database optimization completed", "duration", dur)
	return nil
}
