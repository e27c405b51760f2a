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
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/geopephub/internal/iodb"
	"github.com/gnames/geopephub/internal/ioschema"
	"github.com/gnames/geopephub/pkg/db"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/spf13/cobra"
)

// getMigrateCmd returns the migrate command.
func getMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring status and catalog tables up to date",
		Long: `Add columns and indexes introduced by a newer geopephub release to
geo_cycle_status and geo_sample_status, and create the projects
catalog table when it is missing.

Upload history is kept: migration does NOT delete rows, columns or
tables. A database without status tables is left alone, use
'geopephub create' for it.

Examples:
  geopephub migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMigrate()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func runMigrate() error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	ok, err := op.HasTables(ctx, schema.Cycle{}.TableName())
	if err != nil {
		return err
	}
	if !ok {
		gn.Warn("No upload history in <em>%s</em>, run 'geopephub create' first",
			cfg.Database.Database)
		return nil
	}

	before, err := missingTables(ctx, op)
	if err != nil {
		return err
	}

	if err = ioschema.NewManager(op).Migrate(ctx); err != nil {
		return err
	}
	logger.Info("Schema migrated", "created", before)

	if len(before) > 0 {
		gn.Info("Created tables: <em>%s</em>", strings.Join(before, ", "))
	}
	gn.Info("Status and catalog tables of <em>%s</em> are up to date",
		cfg.Database.Database)
	return nil
}

// missingTables returns managed tables that do not exist yet.
func missingTables(ctx context.Context, op db.Operator) ([]string, error) {
	var res []string
	for _, v := range managedTables() {
		ok, err := op.TableExists(ctx, v)
		if err != nil {
			return nil, err
		}
		if !ok {
			res = append(res, v)
		}
	}
	return res, nil
}
