package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/gnames/geopephub/pkg/target"
	"github.com/gnames/gnfmt"
)

// Runner enumerates windows into cycles and uploads queued cycles.
type Runner struct {
	settings
	store      pipeline.Store
	discoverer pipeline.Discoverer
	proc       *Processor
}

// NewRunner creates a Runner. The Processor does the work on
// individual items.
func NewRunner(
	st pipeline.Store,
	d pipeline.Discoverer,
	proc *Processor,
	opts ...Option,
) *Runner {
	return &Runner{
		settings:   newSettings(opts),
		store:      st,
		discoverer: d,
		proc:       proc,
	}
}

// RunQueuer creates a cycle for a window and queues an item for every
// accession discovered in it. For an unknown target the cycle is
// saved as failed and a configuration error is returned.
func (r *Runner) RunQueuer(
	ctx context.Context,
	targetName, tag, start, end string,
) (schema.Cycle, error) {
	w, err := pipeline.NewWindow(start, end)
	if err != nil {
		return schema.Cycle{}, PeriodError(start, end, err)
	}

	unlock, err := r.lock(ctx, w.Key(targetName))
	if err != nil {
		return schema.Cycle{}, err
	}
	defer unlock()

	cycle := schema.Cycle{
		Target:      targetName,
		StartPeriod: w.Start,
		EndPeriod:   w.End,
	}
	err = r.enqueue(ctx, &cycle, tag)
	return cycle, err
}

// RunQueuerForPeriod queues the window of the last period days,
// ending today.
func (r *Runner) RunQueuerForPeriod(
	ctx context.Context,
	targetName, tag string,
	period int,
) (schema.Cycle, error) {
	if period < 0 {
		return schema.Cycle{}, PeriodLengthError(period, 0)
	}
	w := pipeline.LastDays(r.now(), period)
	return r.RunQueuer(ctx, targetName, tag, w.Start, w.End)
}

// RunUploader processes all queued cycles of a target, one by one.
func (r *Runner) RunUploader(
	ctx context.Context,
	targetName, tag string,
) error {
	if _, err := target.Parse(targetName); err != nil {
		return err
	}

	cycles, err := r.store.QueuedCycles(ctx, targetName)
	if err != nil {
		return err
	}
	if len(cycles) == 0 {
		r.log.Info("No queued cycles", "target", targetName)
		return nil
	}
	r.log.Info("Found queued cycles",
		"target", targetName,
		"count", len(cycles),
	)

	for i := range cycles {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = r.uploadLocked(ctx, &cycles[i], tag); err != nil {
			return err
		}
	}
	return nil
}

// RunOne creates a cycle for one accession and uploads it right away.
// The window of such cycle is today.
func (r *Runner) RunOne(
	ctx context.Context,
	targetName, tag, gse string,
) (schema.Cycle, error) {
	w := pipeline.LastDays(r.now(), 0)
	cycle := schema.Cycle{
		Target:      targetName,
		StartPeriod: w.Start,
		EndPeriod:   w.End,
	}
	t, err := r.initCycle(ctx, &cycle)
	if err != nil {
		return cycle, err
	}

	if err = r.queueItems(ctx, &cycle, t, tag, []string{gse}); err != nil {
		return cycle, err
	}
	err = r.uploadCycle(ctx, &cycle, tag)
	return cycle, err
}

func (r *Runner) uploadLocked(
	ctx context.Context,
	cycle *schema.Cycle,
	tag string,
) error {
	w := pipeline.Window{Start: cycle.StartPeriod, End: cycle.EndPeriod}
	unlock, err := r.lock(ctx, w.Key(cycle.Target))
	if err != nil {
		return err
	}
	defer unlock()
	return r.uploadCycle(ctx, cycle, tag)
}

// initCycle saves a new cycle in the initial state and validates its
// target. A cycle that already exists keeps its status until
// discovery finishes.
func (r *Runner) initCycle(
	ctx context.Context,
	cycle *schema.Cycle,
) (target.Target, error) {
	if cycle.ID == 0 {
		cycle.Status = schema.StatusInitial
		if err := r.store.CreateOrUpdateCycle(ctx, cycle); err != nil {
			return target.Target{}, err
		}
	}

	t, err := target.Parse(cycle.Target)
	if err != nil {
		r.log.Error("Unknown target", "cycle", cycle.ID, "target", cycle.Target)
		if serr := r.fail(ctx, cycle); serr != nil {
			return t, serr
		}
		return t, ConfigurationError(cycle.ID, err)
	}
	return t, nil
}

// enqueue discovers accessions of the cycle window and queues them.
// For an existing cycle only accessions without success get new rows.
func (r *Runner) enqueue(
	ctx context.Context,
	cycle *schema.Cycle,
	tag string,
) error {
	t, err := r.initCycle(ctx, cycle)
	if err != nil {
		return err
	}

	w := pipeline.Window{Start: cycle.StartPeriod, End: cycle.EndPeriod}
	r.log.Info("Discovering accessions",
		"cycle", cycle.ID,
		"target", t.String(),
		"window", w.String(),
	)

	gses, err := r.discoverer.Discover(ctx, t, w)
	if err != nil {
		r.log.Error("Discovery failed", "cycle", cycle.ID, "error", err)
		if serr := r.fail(ctx, cycle); serr != nil {
			return serr
		}
		return DiscoveryError(t.String(), w, err)
	}
	r.log.Info("Discovered accessions",
		"cycle", cycle.ID,
		"count", humanize.Comma(int64(len(gses))),
	)

	return r.queueItems(ctx, cycle, t, tag, gses)
}

func (r *Runner) queueItems(
	ctx context.Context,
	cycle *schema.Cycle,
	t target.Target,
	tag string,
	gses []string,
) error {
	gses = unique(gses)

	items, err := r.store.Items(ctx, cycle.ID)
	if err != nil {
		return err
	}
	// on resume, accessions that already succeeded are not queued again
	done := make(map[string]struct{})
	for _, v := range items {
		if v.Status == schema.StatusSuccess {
			done[v.GSE] = struct{}{}
		}
	}
	if len(items) == 0 {
		cycle.NumberOfProjects = len(gses)
		if err = r.store.CreateOrUpdateCycle(ctx, cycle); err != nil {
			return err
		}
	}

	var queued int
	for _, gse := range gses {
		if _, ok := done[gse]; ok {
			continue
		}
		it := schema.Item{
			GSE:           gse,
			Target:        t.String(),
			RegistryPath:  pipeline.RegistryPath(t.String(), gse, tag),
			UploadCycleID: cycle.ID,
			LogStage:      schema.StageDiscovered,
			Status:        schema.StatusQueued,
		}
		if err = r.store.CreateOrUpdateItem(ctx, &it); err != nil {
			return err
		}
		queued++
	}

	n, err := r.store.CountAccessions(ctx, cycle.ID)
	if err != nil {
		return err
	}
	cycle.NumberOfProjects = n
	cycle.Status = schema.StatusQueued
	if err = r.store.CreateOrUpdateCycle(ctx, cycle); err != nil {
		return err
	}

	r.log.Info("Cycle queued",
		"cycle", cycle.ID,
		"queued", queued,
		"projects", cycle.NumberOfProjects,
	)
	return nil
}

// uploadCycle processes queued items of a cycle and finalizes it.
func (r *Runner) uploadCycle(
	ctx context.Context,
	cycle *schema.Cycle,
	tag string,
) error {
	t, err := target.Parse(cycle.Target)
	if err != nil {
		if serr := r.fail(ctx, cycle); serr != nil {
			return serr
		}
		return ConfigurationError(cycle.ID, err)
	}

	cycle.Status = schema.StatusProcessing
	if err = r.store.CreateOrUpdateCycle(ctx, cycle); err != nil {
		return err
	}

	items, err := r.store.QueuedItems(ctx, cycle.ID)
	if err != nil {
		return err
	}

	tally, err := r.processItems(ctx, cycle, t, tag, items)
	if err != nil {
		return err
	}
	return r.finalize(ctx, cycle, tally)
}

// processItems runs items through the Processor, sequentially.
func (r *Runner) processItems(
	ctx context.Context,
	cycle *schema.Cycle,
	t target.Target,
	tag string,
	items []schema.Item,
) (Tally, error) {
	var res Tally
	total := len(items)
	start := time.Now()
	r.log.Info("Processing items", "cycle", cycle.ID, "count", total)

	var bar Progress
	if r.progress != nil && total > 0 {
		bar = r.progress(total)
		defer bar.Finish()
	}

	for i := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		it := &items[i]
		r.log.Info("Processing item",
			"cycle", cycle.ID,
			"gse", it.GSE,
			"progress", fmt.Sprintf("%d/%d", i+1, total),
		)

		tally, err := r.proc.ProcessItem(ctx, t, tag, it)
		if err != nil {
			return res, err
		}
		res = res.Add(tally)
		if bar != nil {
			bar.Increment()
		}
	}

	if total > 0 {
		dur := time.Since(start).Seconds()
		r.log.Info("Items processed",
			"cycle", cycle.ID,
			"success", res.Success,
			"failure", res.Failure,
			"warning", res.Warning,
			"duration", gnfmt.TimeString(dur),
		)
	}
	return res, nil
}

// finalize recomputes aggregate counts from the store and marks the
// cycle as completed.
func (r *Runner) finalize(
	ctx context.Context,
	cycle *schema.Cycle,
	tally Tally,
) error {
	if err := r.recount(ctx, cycle); err != nil {
		return err
	}
	cycle.Status = schema.StatusSuccess
	if err := r.store.CreateOrUpdateCycle(ctx, cycle); err != nil {
		return err
	}

	r.log.Info("Cycle finished",
		"cycle", cycle.ID,
		"target", cycle.Target,
		"projects", cycle.NumberOfProjects,
		"successes", cycle.NumberOfSuccesses,
		"failures", cycle.NumberOfFailures,
	)
	if r.onCycle != nil {
		r.onCycle(*cycle, tally)
	}
	return nil
}

func (r *Runner) recount(ctx context.Context, cycle *schema.Cycle) error {
	success, err := r.store.CountByStatus(ctx, cycle.ID, schema.StatusSuccess)
	if err != nil {
		return err
	}
	warning, err := r.store.CountByStatus(ctx, cycle.ID, schema.StatusWarning)
	if err != nil {
		return err
	}
	failure, err := r.store.CountByStatus(ctx, cycle.ID, schema.StatusFailure)
	if err != nil {
		return err
	}

	cycle.NumberOfSuccesses = success + warning
	cycle.NumberOfFailures = failure
	return nil
}

func (r *Runner) fail(ctx context.Context, cycle *schema.Cycle) error {
	cycle.Status = schema.StatusFailure
	return r.store.CreateOrUpdateCycle(ctx, cycle)
}

func (r *Runner) lock(ctx context.Context, key string) (func(), error) {
	if r.locker == nil {
		return func() {}, nil
	}

	unlock, err := r.locker.TryLock(ctx, key)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := unlock(); err != nil {
			r.log.Warn("Cannot release lock", "key", key, "error", err)
		}
	}, nil
}

func unique(gses []string) []string {
	seen := make(map[string]struct{}, len(gses))
	res := make([]string, 0, len(gses))
	for _, v := range gses {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}
