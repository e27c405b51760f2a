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
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/geopephub/internal/iostore"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// cycleView is a cycle as shown to a user.
type cycleView struct {
	ID        uint   `json:"id" yaml:"id"`
	Target    string `json:"target" yaml:"target"`
	Status    string `json:"status" yaml:"status"`
	Start     string `json:"startPeriod" yaml:"start_period"`
	End       string `json:"endPeriod" yaml:"end_period"`
	Projects  int    `json:"numberOfProjects" yaml:"number_of_projects"`
	Successes int    `json:"numberOfSuccesses" yaml:"number_of_successes"`
	Failures  int    `json:"numberOfFailures" yaml:"number_of_failures"`
	Date      string `json:"statusDate" yaml:"status_date"`
}

// itemView is an item as shown to a user.
type itemView struct {
	ID           uint   `json:"id" yaml:"id"`
	GSE          string `json:"gse" yaml:"gse"`
	Status       string `json:"status" yaml:"status"`
	LogStage     int    `json:"logStage" yaml:"log_stage"`
	StatusInfo   string `json:"statusInfo,omitempty" yaml:"status_info,omitempty"`
	RegistryPath string `json:"registryPath,omitempty" yaml:"registry_path,omitempty"`
	Info         string `json:"info,omitempty" yaml:"info,omitempty"`
}

// getStatusCmd returns the status command.
func getStatusCmd() *cobra.Command {
	var (
		tgt     string
		limit   int
		format  string
		cycleID uint
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent upload cycles",
		Long: `Show recent upload cycles, newest first. With --cycle the items
of one cycle are shown instead.

Examples:
  geopephub status
  geopephub status -t bedbase -n 5 -f yaml
  geopephub status --cycle 42 -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runStatus(os.Stdout, tgt, limit, format, cycleID)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&tgt, "target", "t", "", "namespace, empty for all")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of cycles")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "text, json or yaml")
	cmd.Flags().UintVar(&cycleID, "cycle", 0, "show items of the cycle")
	return cmd
}

func runStatus(w io.Writer, tgt string, limit int, format string, cycleID uint) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "text" && format != "json" && format != "yaml" {
		return invalidFormatError(format)
	}

	ctx := context.Background()
	op, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	st, err := iostore.New(op)
	if err != nil {
		return err
	}

	if cycleID > 0 {
		items, err := st.Items(ctx, cycleID)
		if err != nil {
			return err
		}
		return writeItems(w, items, format)
	}

	cycles, err := st.Cycles(ctx, tgt, limit)
	if err != nil {
		return err
	}
	return writeCycles(w, cycles, format)
}

func writeCycles(w io.Writer, cycles []schema.Cycle, format string) error {
	views := make([]cycleView, 0, len(cycles))
	for _, v := range cycles {
		views = append(views, cycleView{
			ID:        v.ID,
			Target:    v.Target,
			Status:    string(v.Status),
			Start:     v.StartPeriod,
			End:       v.EndPeriod,
			Projects:  v.NumberOfProjects,
			Successes: v.NumberOfSuccesses,
			Failures:  v.NumberOfFailures,
			Date:      v.StatusDate.Format(time.RFC3339),
		})
	}
	if format != "text" {
		return encode(w, views, format)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTARGET\tSTATUS\tWINDOW\tPROJECTS\tSUCCESSES\tFAILURES\tDATE")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s-%s\t%d\t%d\t%d\t%s\n",
			v.ID, v.Target, v.Status, v.Start, v.End,
			v.Projects, v.Successes, v.Failures, v.Date)
	}
	return tw.Flush()
}

func writeItems(w io.Writer, items []schema.Item, format string) error {
	views := make([]itemView, 0, len(items))
	for _, v := range items {
		views = append(views, itemView{
			ID:           v.ID,
			GSE:          v.GSE,
			Status:       string(v.Status),
			LogStage:     int(v.LogStage),
			StatusInfo:   v.StatusInfo,
			RegistryPath: v.RegistryPath,
			Info:         v.Info,
		})
	}
	if format != "text" {
		return encode(w, views, format)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tGSE\tSTATUS\tSTAGE\tPATH\tINFO")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			v.ID, v.GSE, v.Status, v.LogStage, v.RegistryPath, v.Info)
	}
	return tw.Flush()
}

func encode(w io.Writer, data any, format string) error {
	var res []byte
	var err error
	switch format {
	case "yaml":
		res, err = yaml.Marshal(data)
	default:
		res, err = gnfmt.GNjson{Pretty: true}.Encode(data)
		res = append(res, '\n')
	}
	if err != nil {
		return err
	}
	_, err = w.Write(res)
	return err
}
