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
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/geopephub/internal/iocatalog"
	"github.com/gnames/geopephub/internal/iodb"
	"github.com/gnames/geopephub/pkg/target"
	"github.com/spf13/cobra"
)

// getStatsCmd returns the stats command.
func getStatsCmd() *cobra.Command {
	var tgt string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count projects of catalog namespaces",
		Long: `Print the number of projects in catalog namespaces.

Examples:
  geopephub stats
  geopephub stats --target bedbase`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runStats(os.Stdout, tgt)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&tgt, "target", "t", "", "namespace, empty for all")
	return cmd
}

func runStats(w io.Writer, tgt string) error {
	names := target.Names()
	if tgt != "" {
		t, err := target.Parse(tgt)
		if err != nil {
			return err
		}
		names = []string{t.String()}
	}

	ctx := context.Background()
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	c := iocatalog.New(op, cfg.Catalog)
	for _, v := range names {
		n, err := c.Count(ctx, v)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s projects\n", v, humanize.Comma(int64(n)))
	}
	return nil
}
