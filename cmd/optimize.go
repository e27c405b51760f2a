/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/geopephub/internal/iooptimize"
	"github.com/spf13/cobra"
)

// getOptimizeCmd returns the optimize command.
func getOptimizeCmd() *cobra.Command {
	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Refresh statistics of status and catalog tables",
		Long: `Optimize runs VACUUM ANALYZE on the status and catalog tables
and reports their sizes. Run it after large cycles so the planner
picks good plans for latest-row queries.

Rows are never deleted, the history of every item is kept.

Prerequisites:
  - Database must be created (run 'geopephub create' first)

Examples:
  geopephub optimize`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize()
		},
	}

	return optimizeCmd
}

func runOptimize() error {
	ctx := context.Background()

	op, err := connect(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	optimizer := iooptimize.NewOptimizer(op, logger)
	if err := optimizer.Optimize(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Database optimization is complete!")

	return nil
}
