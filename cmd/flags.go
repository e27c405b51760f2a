package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gnames/geopephub/pkg/config"
	"github.com/gnames/geopephub/pkg/target"
	"github.com/spf13/cobra"
)

// queueFlags keeps values of flags shared by queue commands.
type queueFlags struct {
	target     string
	tag        string
	period     int
	cycleCount int
	start      string
	end        string
	gse        string
}

type funcFlag func(f *queueFlags, cmd *cobra.Command)

func targetFlag(f *queueFlags, cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.target, "target", "t", "geo",
		"catalog namespace: "+strings.Join(target.Names(), ", "))
}

func tagFlag(f *queueFlags, cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tag, "tag", target.DefaultTag,
		"tag of uploaded projects")
}

func periodFlag(f *queueFlags, cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.period, "period", "p", 1,
		"length of the window in days")
}

func cycleCountFlag(f *queueFlags, cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.cycleCount, "cycle-count", "c", 1,
		"how many periods back the checked window ends")
}

func windowFlags(f *queueFlags, cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.start, "start-period", "s", "",
		"first day of the window, YYYY/MM/DD")
	cmd.Flags().StringVarP(&f.end, "end-period", "e", "",
		"last day of the window, YYYY/MM/DD")
	_ = cmd.MarkFlagRequired("start-period")
	_ = cmd.MarkFlagRequired("end-period")
}

func gseFlag(f *queueFlags, cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.gse, "gse", "g", "",
		"GEO series accession, for example GSE12345")
	_ = cmd.MarkFlagRequired("gse")
}

// addFlags registers flags on a command.
func (f *queueFlags) addFlags(cmd *cobra.Command, flags ...funcFlag) {
	for _, v := range flags {
		v(f, cmd)
	}
}

// options converts explicitly set flags into config options.
func (f *queueFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	changed := cmd.Flags().Changed

	if changed("target") {
		res = append(res, config.OptQueueTarget(f.target))
	}
	if changed("tag") {
		res = append(res, config.OptQueueTag(f.tag))
	}
	if changed("period") {
		res = append(res, config.OptQueuePeriod(f.period))
	}
	if changed("cycle-count") {
		res = append(res, config.OptQueueCycleCount(f.cycleCount))
	}
	if changed("start-period") {
		res = append(res, config.OptQueueStartPeriod(f.start))
	}
	if changed("end-period") {
		res = append(res, config.OptQueueEndPeriod(f.end))
	}
	if changed("gse") {
		res = append(res, config.OptQueueGSE(f.gse))
	}
	return res
}

// runContext is cancelled on interrupt, so a cycle stops between
// items and can be finished later by the checker.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
