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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/geopephub/internal/iodb"
	"github.com/gnames/geopephub/internal/ioschema"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/spf13/cobra"
)

// managedTables lists tables created by geopephub. Items go first,
// they refer to cycles.
func managedTables() []string {
	return []string{
		schema.Item{}.TableName(),
		schema.Cycle{}.TableName(),
		schema.Project{}.TableName(),
	}
}

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema",
		Long: `Create the status and catalog tables from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing geopephub tables and prompts for confirmation
  3. Creates status tables using GORM AutoMigrate
  4. Creates the projects catalog table and its unique index

Only tables managed by geopephub are dropped, other tables of the
database are left alone.

Use --force to skip confirmation and drop existing tables.

Examples:
  geopephub create
  geopephub create --force
  geopephub create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, forceCreate)
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")

	return createCmd
}

func runCreate(
	_ *cobra.Command,
	_ []string,
	force bool,
) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: %s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	tables := managedTables()
	var existing []string
	for _, v := range tables {
		ok, err := op.TableExists(ctx, v)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		if ok {
			existing = append(existing, v)
		}
	}

	if len(existing) > 0 {
		if !force {
			gn.Warn("\nWarning: Database contains geopephub tables: %s",
				strings.Join(existing, ", "))
			gn.Warn("Creating schema will drop them with all " +
				"upload history and catalog projects.")
			fmt.Print("\nDo you want to continue? (yes/no): ")

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				gn.Warn("Failed to read user input")
				return err
			}

			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}

		gn.Info("Dropping existing tables...")
		if err := op.DropTables(ctx, existing...); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		logger.Info("Tables dropped", "tables", existing)
	}

	sm := ioschema.NewManager(op)

	gn.Info("Creating schema...")
	if err := sm.Create(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	logger.Info("Schema created", "tables", tables)

	gn.Info("\nDatabase schema creation complete!")
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'geopephub run-queuer' to enumerate a window")
	gn.Info("  - Run 'geopephub run-uploader' to process queued cycles")

	return nil
}
