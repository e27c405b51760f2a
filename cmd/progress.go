package cmd

import (
	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/geopephub/pkg/queue"
)

// progressBar adapts pb.ProgressBar to queue.Progress.
type progressBar struct {
	bar *pb.ProgressBar
}

// newProgress shows a progress bar of a cycle on the terminal.
func newProgress(total int) queue.Progress {
	bar := pb.Full.Start(total)
	bar.Set(pb.CleanOnFinish, true)
	return progressBar{bar: bar}
}

func (p progressBar) Increment() { p.bar.Increment() }

func (p progressBar) Finish() { p.bar.Finish() }
