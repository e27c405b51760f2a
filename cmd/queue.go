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
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/spf13/cobra"
)

// getRunQueuerCmd returns the run-queuer command.
func getRunQueuerCmd() *cobra.Command {
	var f queueFlags

	cmd := &cobra.Command{
		Use:   "run-queuer",
		Short: "Queue GEO series published in the last days",
		Long: `Find GEO series published from today minus period days until
today and create an upload cycle with a queued item for each of them.

Examples:
  geopephub run-queuer --target geo --period 1
  geopephub run-queuer -t bedbase -p 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitError(runQueuer(cmd, &f))
		},
	}
	f.addFlags(cmd, targetFlag, tagFlag, periodFlag)
	return cmd
}

func runQueuer(cmd *cobra.Command, f *queueFlags) error {
	cfg.Update(f.options(cmd))
	ctx, stop := runContext()
	defer stop()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	q := cfg.Queue
	cycle, err := svc.runner.RunQueuerForPeriod(ctx, q.Target, q.Tag, q.Period)
	if err != nil {
		return err
	}
	printCycle("Queued", cycle)
	return nil
}

// getRunUploaderCmd returns the run-uploader command.
func getRunUploaderCmd() *cobra.Command {
	var f queueFlags

	cmd := &cobra.Command{
		Use:   "run-uploader",
		Short: "Upload all queued cycles of a target",
		Long: `Process queued cycles of a target one by one, oldest first.
Every queued item is fetched from GEO and written to the catalog.
Failures of single items are recorded and do not stop the cycle.

Examples:
  geopephub run-uploader --target geo
  geopephub run-uploader -t bedbase`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitError(runUploader(cmd, &f))
		},
	}
	f.addFlags(cmd, targetFlag, tagFlag)
	return cmd
}

func runUploader(cmd *cobra.Command, f *queueFlags) error {
	cfg.Update(f.options(cmd))
	ctx, stop := runContext()
	defer stop()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	if err = svc.runner.RunUploader(ctx, cfg.Queue.Target, cfg.Queue.Tag); err != nil {
		return err
	}
	gn.Info("Upload of <em>%s</em> queue is complete", cfg.Queue.Target)
	return nil
}

// getRunCheckerCmd returns the run-checker command.
func getRunCheckerCmd() *cobra.Command {
	var f queueFlags

	cmd := &cobra.Command{
		Use:   "run-checker",
		Short: "Finish an earlier window",
		Long: `Check the window of period days that ended period * cycle-count
days ago. A missing or incomplete cycle is enumerated and uploaded,
items that did not succeed are processed again.

Examples:
  geopephub run-checker --target geo --period 1 --cycle-count 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitError(runChecker(cmd, &f))
		},
	}
	f.addFlags(cmd, targetFlag, tagFlag, periodFlag, cycleCountFlag)
	return cmd
}

func runChecker(cmd *cobra.Command, f *queueFlags) error {
	cfg.Update(f.options(cmd))
	ctx, stop := runContext()
	defer stop()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	q := cfg.Queue
	return svc.checker.RunUploadChecker(ctx, q.Target, q.Tag, q.Period, q.CycleCount)
}

// getCheckByDateCmd returns the check-by-date command.
func getCheckByDateCmd() *cobra.Command {
	var f queueFlags

	cmd := &cobra.Command{
		Use:   "check-by-date",
		Short: "Finish a window given by dates",
		Long: `Make sure every series published in the window was uploaded.
Both dates are inclusive.

Examples:
  geopephub check-by-date -t geo -s 2023/10/22 -e 2023/10/24`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitError(runCheckByDate(cmd, &f))
		},
	}
	f.addFlags(cmd, targetFlag, tagFlag, windowFlags)
	return cmd
}

func runCheckByDate(cmd *cobra.Command, f *queueFlags) error {
	cfg.Update(f.options(cmd))
	ctx, stop := runContext()
	defer stop()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	q := cfg.Queue
	start, end := q.StartPeriod, q.EndPeriod
	// invalid dates are dropped by config, the queue reports raw values
	if start == "" {
		start = f.start
	}
	if end == "" {
		end = f.end
	}
	return svc.checker.CheckByDate(ctx, q.Target, start, end, q.Tag)
}

// getRunOneCmd returns the run-one command.
func getRunOneCmd() *cobra.Command {
	var f queueFlags

	cmd := &cobra.Command{
		Use:   "run-one",
		Short: "Upload one GEO series",
		Long: `Create a cycle for a single series and upload it right away.

Examples:
  geopephub run-one --gse GSE12345
  geopephub run-one -t bedbase -g GSE12345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitError(runOne(cmd, &f))
		},
	}
	f.addFlags(cmd, targetFlag, tagFlag, gseFlag)
	return cmd
}

func runOne(cmd *cobra.Command, f *queueFlags) error {
	cfg.Update(f.options(cmd))
	if cfg.Queue.GSE == "" {
		return invalidGSEError(f.gse)
	}
	ctx, stop := runContext()
	defer stop()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	q := cfg.Queue
	cycle, err := svc.runner.RunOne(ctx, q.Target, q.Tag, q.GSE)
	if err != nil {
		return err
	}
	printCycle("Uploaded", cycle)
	return nil
}

func printCycle(action string, c schema.Cycle) {
	gn.Info("%s cycle <em>%d</em> (%s %s-%s): %s projects, %s successes, %s failures",
		action, c.ID, c.Target, c.StartPeriod, c.EndPeriod,
		humanize.Comma(int64(c.NumberOfProjects)),
		humanize.Comma(int64(c.NumberOfSuccesses)),
		humanize.Comma(int64(c.NumberOfFailures)),
	)
}
