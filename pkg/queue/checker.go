package queue

import (
	"context"

	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/gnames/geopephub/pkg/target"
)

// Checker reconciles past windows. Running it on a window that is
// already complete changes nothing.
type Checker struct {
	settings
	store pipeline.Store
	run   *Runner
}

// NewChecker creates a Checker that uses the Runner for enqueueing and
// uploading.
func NewChecker(st pipeline.Store, r *Runner, opts ...Option) *Checker {
	return &Checker{
		settings: newSettings(opts),
		store:    st,
		run:      r,
	}
}

// CheckByDate makes sure the window of a target was fully processed.
//
//   - If there is no cycle for the window, or its cycle did not get to
//     processing, the window is enumerated and uploaded now.
//   - If every project of the cycle succeeded, nothing happens.
//   - Otherwise only items that did not succeed are processed again.
func (c *Checker) CheckByDate(
	ctx context.Context,
	targetName, start, end, tag string,
) error {
	w, err := pipeline.NewWindow(start, end)
	if err != nil {
		return PeriodError(start, end, err)
	}

	unlock, err := c.run.lock(ctx, w.Key(targetName))
	if err != nil {
		return err
	}
	defer unlock()

	cycle, found, err := c.store.FindCycle(ctx, targetName, w.Start, w.End)
	if err != nil {
		return err
	}
	log := c.log.With("target", targetName, "window", w.String())

	if !found {
		log.Info("Cycle not found, processing the window")
		cycle = schema.Cycle{
			Target:      targetName,
			StartPeriod: w.Start,
			EndPeriod:   w.End,
		}
		return c.resume(ctx, &cycle, tag)
	}

	if cycle.Status != schema.StatusSuccess &&
		cycle.Status != schema.StatusProcessing {
		log.Info("Cycle did not complete, processing the window again",
			"cycle", cycle.ID,
			"status", cycle.Status,
		)
		return c.resume(ctx, &cycle, tag)
	}

	if cycle.NumberOfProjects == cycle.NumberOfSuccesses {
		log.Info("Cycle is complete",
			"cycle", cycle.ID,
			"projects", cycle.NumberOfProjects,
		)
		return nil
	}

	return c.retryFailed(ctx, &cycle, tag)
}

// RunUploadChecker checks the window of periodLength days that ended
// periodLength*cyclesBack days ago.
func (c *Checker) RunUploadChecker(
	ctx context.Context,
	targetName, tag string,
	periodLength, cyclesBack int,
) error {
	if periodLength <= 0 || cyclesBack < 0 {
		return PeriodLengthError(periodLength, cyclesBack)
	}
	w := pipeline.PeriodsBack(c.now(), periodLength, cyclesBack)
	c.log.Info("Checking past cycle",
		"target", targetName,
		"window", w.String(),
		"cycles_back", cyclesBack,
	)
	return c.CheckByDate(ctx, targetName, w.Start, w.End, tag)
}

func (c *Checker) resume(
	ctx context.Context,
	cycle *schema.Cycle,
	tag string,
) error {
	if err := c.run.enqueue(ctx, cycle, tag); err != nil {
		return err
	}
	return c.run.uploadCycle(ctx, cycle, tag)
}

// retryFailed processes again items of the cycle that did not finish
// with success.
func (c *Checker) retryFailed(
	ctx context.Context,
	cycle *schema.Cycle,
	tag string,
) error {
	t, err := target.Parse(cycle.Target)
	if err != nil {
		if serr := c.run.fail(ctx, cycle); serr != nil {
			return serr
		}
		return ConfigurationError(cycle.ID, err)
	}

	items, err := c.store.FailedItems(ctx, cycle.ID)
	if err != nil {
		return err
	}
	c.log.Info("Retrying unfinished items",
		"cycle", cycle.ID,
		"count", len(items),
		"projects", cycle.NumberOfProjects,
		"successes", cycle.NumberOfSuccesses,
	)

	tally, err := c.run.processItems(ctx, cycle, t, tag, items)
	if err != nil {
		return err
	}
	return c.run.finalize(ctx, cycle, tally)
}
